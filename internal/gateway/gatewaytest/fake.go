// Package gatewaytest provides an in-memory gateway.Repository for engine tests.
package gatewaytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/pkg/db/models"
	"github.com/angelmondragon/brewlytics/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product line of a fake order.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is a fake order with its lines.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Status     enums.OrderStatus
	Total      decimal.Decimal
	CreatedAt  time.Time
	Lines      []Line
}

// Fake mirrors the SQL semantics of the gorm repository over in-memory data.
// Err, when set, is returned from every query.
type Fake struct {
	mu         sync.Mutex
	customers  map[uuid.UUID]struct{}
	categories map[string]uuid.UUID
	products   map[uuid.UUID]gateway.CatalogProduct
	orders     []Order
	beans      []models.CoffeeBean
	profiles   map[uuid.UUID]models.TasteProfile

	Err error
}

var _ gateway.Repository = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		customers:  map[uuid.UUID]struct{}{},
		categories: map[string]uuid.UUID{},
		products:   map[uuid.UUID]gateway.CatalogProduct{},
		profiles:   map[uuid.UUID]models.TasteProfile{},
	}
}

func (f *Fake) AddCustomer() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.customers[id] = struct{}{}
	return id
}

// AddProduct registers an available product, creating its category on first use.
func (f *Fake) AddProduct(name, description, category string, price string) gateway.CatalogProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	categoryID, ok := f.categories[category]
	if !ok {
		categoryID = uuid.New()
		f.categories[category] = categoryID
	}
	p := gateway.CatalogProduct{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		CategoryName: category,
		Name:         name,
		Description:  description,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
	}
	f.products[p.ID] = p
	return p
}

func (f *Fake) SetAvailable(productID uuid.UUID, available bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[productID]
	p.IsAvailable = available
	f.products[productID] = p
}

// AddOrder records an order whose total is the sum of its lines.
func (f *Fake) AddOrder(customerID uuid.UUID, status enums.OrderStatus, at time.Time, lines ...Line) Order {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return f.AddOrderWithTotal(customerID, status, at, total, lines...)
}

func (f *Fake) AddOrderWithTotal(customerID uuid.UUID, status enums.OrderStatus, at time.Time, total decimal.Decimal, lines ...Line) Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := Order{ID: uuid.New(), CustomerID: customerID, Status: status, Total: total, CreatedAt: at, Lines: lines}
	f.orders = append(f.orders, o)
	return o
}

func (f *Fake) AddBean(b models.CoffeeBean) models.CoffeeBean {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.beans = append(f.beans, b)
	return b
}

func (f *Fake) SetTasteProfile(p models.TasteProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.CustomerID] = p
}

// LineOf is a convenience for a line at the product's list price.
func LineOf(p gateway.CatalogProduct, qty int) Line {
	return Line{ProductID: p.ID, Quantity: qty, UnitPrice: p.Price}
}

func (f *Fake) CustomerExists(_ context.Context, customerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.customers[customerID]
	return ok, nil
}

func (f *Fake) ProductExists(_ context.Context, productID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.products[productID]
	return ok, nil
}

func (f *Fake) CompletedOrders(_ context.Context, customerID uuid.UUID) ([]gateway.OrderSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []gateway.OrderSummary
	for _, o := range f.completed(customerID) {
		out = append(out, gateway.OrderSummary{ID: o.ID, TotalAmount: o.Total, CreatedAt: o.CreatedAt})
	}
	return out, nil
}

func (f *Fake) CompletedOrderLines(_ context.Context, customerID uuid.UUID) ([]gateway.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []gateway.OrderLine
	for _, o := range f.completed(customerID) {
		for _, l := range o.Lines {
			p := f.products[l.ProductID]
			out = append(out, gateway.OrderLine{
				OrderID:            o.ID,
				OrderedAt:          o.CreatedAt,
				ProductID:          l.ProductID,
				ProductName:        p.Name,
				ProductDescription: p.Description,
				CategoryID:         p.CategoryID,
				CategoryName:       p.CategoryName,
				Quantity:           l.Quantity,
				UnitPrice:          l.UnitPrice,
			})
		}
	}
	return out, nil
}

func (f *Fake) ProductPurchaseStats(_ context.Context, customerID, productID uuid.UUID) (gateway.PurchaseStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return gateway.PurchaseStats{}, f.Err
	}
	stats := gateway.PurchaseStats{}
	for _, o := range f.completed(customerID) {
		found := false
		for _, l := range o.Lines {
			if l.ProductID != productID {
				continue
			}
			found = true
			stats.TotalQuantity += l.Quantity
		}
		if !found {
			continue
		}
		stats.PurchaseCount++
		if stats.LastPurchasedAt == nil || o.CreatedAt.After(*stats.LastPurchasedAt) {
			at := o.CreatedAt
			stats.LastPurchasedAt = &at
		}
	}
	return stats, nil
}

func (f *Fake) MarketAverageOrderValue(_ context.Context, since time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return decimal.Zero, f.Err
	}
	sum, n := decimal.Zero, 0
	for _, o := range f.orders {
		if o.Status != enums.OrderStatusCompleted || o.CreatedAt.Before(since) {
			continue
		}
		sum = sum.Add(o.Total)
		n++
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return sum.Div(decimal.NewFromInt(int64(n))), nil
}

func (f *Fake) NeighborCustomers(_ context.Context, customerID uuid.UUID, productIDs []uuid.UUID, limit int) ([]gateway.Neighbor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	wanted := toSet(productIDs)
	shared := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, o := range f.orders {
		if o.Status != enums.OrderStatusCompleted || o.CustomerID == customerID {
			continue
		}
		for _, l := range o.Lines {
			if _, ok := wanted[l.ProductID]; !ok {
				continue
			}
			if shared[o.CustomerID] == nil {
				shared[o.CustomerID] = map[uuid.UUID]struct{}{}
			}
			shared[o.CustomerID][l.ProductID] = struct{}{}
		}
	}
	out := make([]gateway.Neighbor, 0, len(shared))
	for id, products := range shared {
		out = append(out, gateway.Neighbor{CustomerID: id, SharedProducts: int64(len(products))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SharedProducts != out[j].SharedProducts {
			return out[i].SharedProducts > out[j].SharedProducts
		}
		return out[i].CustomerID.String() < out[j].CustomerID.String()
	})
	return capped(out, limit), nil
}

func (f *Fake) ProductsPurchasedByCustomers(_ context.Context, customerIDs, excludeProductIDs []uuid.UUID, limit int) ([]gateway.ProductCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	customers := toSet(customerIDs)
	excluded := toSet(excludeProductIDs)
	hits := map[uuid.UUID]int64{}
	for _, o := range f.orders {
		if o.Status != enums.OrderStatusCompleted {
			continue
		}
		if _, ok := customers[o.CustomerID]; !ok {
			continue
		}
		for _, l := range o.Lines {
			if _, skip := excluded[l.ProductID]; skip || !f.products[l.ProductID].IsAvailable {
				continue
			}
			hits[l.ProductID]++
		}
	}
	return capped(sortCounts(hits, func(a, b uuid.UUID) bool { return a.String() < b.String() }), limit), nil
}

func (f *Fake) PopularProductsSince(_ context.Context, since time.Time, limit int) ([]gateway.ProductCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	orders := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, o := range f.orders {
		if o.Status != enums.OrderStatusCompleted || o.CreatedAt.Before(since) {
			continue
		}
		for _, l := range o.Lines {
			if !f.products[l.ProductID].IsAvailable {
				continue
			}
			if orders[l.ProductID] == nil {
				orders[l.ProductID] = map[uuid.UUID]struct{}{}
			}
			orders[l.ProductID][o.ID] = struct{}{}
		}
	}
	hits := map[uuid.UUID]int64{}
	for id, set := range orders {
		hits[id] = int64(len(set))
	}
	byName := func(a, b uuid.UUID) bool { return f.products[a].Name < f.products[b].Name }
	return capped(sortCounts(hits, byName), limit), nil
}

func (f *Fake) FindProducts(_ context.Context, productIDs []uuid.UUID) ([]gateway.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []gateway.CatalogProduct
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) AvailableProductsInCategories(_ context.Context, categoryIDs, excludeProductIDs []uuid.UUID) ([]gateway.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	categories := toSet(categoryIDs)
	excluded := toSet(excludeProductIDs)
	return f.catalog(func(p gateway.CatalogProduct) bool {
		_, inCategory := categories[p.CategoryID]
		_, skip := excluded[p.ID]
		return inCategory && !skip
	}, 0), nil
}

func (f *Fake) AvailableProductsMatching(_ context.Context, keywords []string, limit int) ([]gateway.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.catalog(func(p gateway.CatalogProduct) bool {
		name, desc := strings.ToLower(p.Name), strings.ToLower(p.Description)
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && (strings.Contains(name, kw) || strings.Contains(desc, kw)) {
				return true
			}
		}
		return false
	}, limit), nil
}

func (f *Fake) CountAvailableProducts(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.catalog(func(gateway.CatalogProduct) bool { return true }, 0))), nil
}

func (f *Fake) BeansInStock(context.Context) ([]models.CoffeeBean, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []models.CoffeeBean
	for _, b := range f.beans {
		if b.StockQuantity > 0 {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Fake) PurchasedBeanOrigins(_ context.Context, customerID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	bought := map[uuid.UUID]struct{}{}
	for _, o := range f.completed(customerID) {
		for _, l := range o.Lines {
			bought[l.ProductID] = struct{}{}
		}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, b := range f.beans {
		if b.ProductID == nil {
			continue
		}
		if _, ok := bought[*b.ProductID]; !ok {
			continue
		}
		if _, dup := seen[b.OriginCountry]; dup {
			continue
		}
		seen[b.OriginCountry] = struct{}{}
		out = append(out, b.OriginCountry)
	}
	sort.Strings(out)
	return out, nil
}

func (f *Fake) TasteProfile(_ context.Context, customerID uuid.UUID) (*models.TasteProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.profiles[customerID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *Fake) completed(customerID uuid.UUID) []Order {
	var out []Order
	for _, o := range f.orders {
		if o.CustomerID == customerID && o.Status == enums.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *Fake) catalog(keep func(gateway.CatalogProduct) bool, limit int) []gateway.CatalogProduct {
	var out []gateway.CatalogProduct
	for _, p := range f.products {
		if p.IsAvailable && keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return capped(out, limit)
}

func sortCounts(hits map[uuid.UUID]int64, tie func(a, b uuid.UUID) bool) []gateway.ProductCount {
	out := make([]gateway.ProductCount, 0, len(hits))
	for id, n := range hits {
		out = append(out, gateway.ProductCount{ProductID: id, Hits: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hits != out[j].Hits {
			return out[i].Hits > out[j].Hits
		}
		return tie(out[i].ProductID, out[j].ProductID)
	})
	return out
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
