package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSummary is a completed order header.
type OrderSummary struct {
	ID          uuid.UUID
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// OrderLine is an order item flattened with its order, product and category.
type OrderLine struct {
	OrderID            uuid.UUID
	OrderedAt          time.Time
	ProductID          uuid.UUID
	ProductName        string
	ProductDescription string
	CategoryID         uuid.UUID
	CategoryName       string
	Quantity           int
	UnitPrice          decimal.Decimal
}

// LineTotal is quantity x unit price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CatalogProduct is a product with its category name resolved.
type CatalogProduct struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	IsAvailable  bool            `json:"is_available"`
}

// Neighbor is another customer ranked by how many products they share with
// the target customer.
type Neighbor struct {
	CustomerID     uuid.UUID
	SharedProducts int64
}

// ProductCount pairs a product with an occurrence count whose meaning depends
// on the query (order lines, distinct orders).
type ProductCount struct {
	ProductID uuid.UUID
	Hits      int64
}

// PurchaseStats summarizes one customer's history with one product.
type PurchaseStats struct {
	PurchaseCount   int
	TotalQuantity   int
	LastPurchasedAt *time.Time
}
