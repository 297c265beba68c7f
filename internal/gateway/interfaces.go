package gateway

import (
	"context"
	"time"

	"github.com/angelmondragon/brewlytics/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the read-only queries the analytics engines run against
// order history and the catalog. Every order-derived query only considers
// completed orders.
type Repository interface {
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)

	// CompletedOrders returns the customer's completed orders, oldest first.
	CompletedOrders(ctx context.Context, customerID uuid.UUID) ([]OrderSummary, error)
	// CompletedOrderLines returns the customer's order lines joined to product
	// and category, oldest order first.
	CompletedOrderLines(ctx context.Context, customerID uuid.UUID) ([]OrderLine, error)
	ProductPurchaseStats(ctx context.Context, customerID, productID uuid.UUID) (PurchaseStats, error)
	MarketAverageOrderValue(ctx context.Context, since time.Time) (decimal.Decimal, error)

	NeighborCustomers(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID, limit int) ([]Neighbor, error)
	ProductsPurchasedByCustomers(ctx context.Context, customerIDs, excludeProductIDs []uuid.UUID, limit int) ([]ProductCount, error)
	PopularProductsSince(ctx context.Context, since time.Time, limit int) ([]ProductCount, error)

	FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]CatalogProduct, error)
	AvailableProductsInCategories(ctx context.Context, categoryIDs, excludeProductIDs []uuid.UUID) ([]CatalogProduct, error)
	AvailableProductsMatching(ctx context.Context, keywords []string, limit int) ([]CatalogProduct, error)
	CountAvailableProducts(ctx context.Context) (int64, error)

	BeansInStock(ctx context.Context) ([]models.CoffeeBean, error)
	PurchasedBeanOrigins(ctx context.Context, customerID uuid.UUID) ([]string, error)
	// TasteProfile returns nil without error when the customer has none.
	TasteProfile(ctx context.Context, customerID uuid.UUID) (*models.TasteProfile, error)
}
