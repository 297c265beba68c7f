package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/brewlytics/internal/repo"
	"github.com/angelmondragon/brewlytics/pkg/db/models"
	"github.com/angelmondragon/brewlytics/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const catalogColumns = "p.id, p.category_id, c.name AS category_name, p.name, p.description, p.price, p.is_available"

type repository struct {
	repo.Base
}

// NewRepository builds the analytics gateway bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CompletedOrders(ctx context.Context, customerID uuid.UUID) ([]OrderSummary, error) {
	var rows []OrderSummary
	err := r.DB(ctx).
		Model(&models.Order{}).
		Select("id, total_amount, created_at").
		Where("customer_id = ? AND status = ?", customerID, enums.OrderStatusCompleted).
		Order("created_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CompletedOrderLines(ctx context.Context, customerID uuid.UUID) ([]OrderLine, error) {
	var rows []OrderLine
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select(`o.id AS order_id, o.created_at AS ordered_at, oi.product_id,
			p.name AS product_name, p.description AS product_description,
			p.category_id, c.name AS category_name, oi.quantity, oi.unit_price`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Where("o.customer_id = ? AND o.status = ?", customerID, enums.OrderStatusCompleted).
		Order("o.created_at ASC, o.id ASC, oi.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ProductPurchaseStats(ctx context.Context, customerID, productID uuid.UUID) (PurchaseStats, error) {
	var rows []struct {
		OrderID   uuid.UUID
		CreatedAt time.Time
		Quantity  int
	}
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select("o.id AS order_id, o.created_at, oi.quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.customer_id = ? AND o.status = ? AND oi.product_id = ?", customerID, enums.OrderStatusCompleted, productID).
		Scan(&rows).Error
	if err != nil {
		return PurchaseStats{}, err
	}

	stats := PurchaseStats{}
	orders := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		orders[row.OrderID] = struct{}{}
		stats.TotalQuantity += row.Quantity
		if stats.LastPurchasedAt == nil || row.CreatedAt.After(*stats.LastPurchasedAt) {
			at := row.CreatedAt
			stats.LastPurchasedAt = &at
		}
	}
	stats.PurchaseCount = len(orders)
	return stats, nil
}

func (r *repository) MarketAverageOrderValue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	err := r.DB(ctx).
		Model(&models.Order{}).
		Select("AVG(total_amount)").
		Where("status = ? AND created_at >= ?", enums.OrderStatusCompleted, since).
		Row().
		Scan(&avg)
	if err != nil {
		return decimal.Zero, err
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal, nil
}

func (r *repository) NeighborCustomers(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID, limit int) ([]Neighbor, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []Neighbor
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select("o.customer_id, COUNT(DISTINCT oi.product_id) AS shared_products").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ? AND o.customer_id <> ? AND oi.product_id IN ?", enums.OrderStatusCompleted, customerID, productIDs).
		Group("o.customer_id").
		Order("shared_products DESC, o.customer_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ProductsPurchasedByCustomers(ctx context.Context, customerIDs, excludeProductIDs []uuid.UUID, limit int) ([]ProductCount, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	q := r.DB(ctx).
		Table("order_items AS oi").
		Select("oi.product_id, COUNT(*) AS hits").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.status = ? AND o.customer_id IN ? AND p.is_available = ?", enums.OrderStatusCompleted, customerIDs, true)
	if len(excludeProductIDs) > 0 {
		q = q.Where("oi.product_id NOT IN ?", excludeProductIDs)
	}

	var rows []ProductCount
	err := q.Group("oi.product_id").
		Order("hits DESC, oi.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) PopularProductsSince(ctx context.Context, since time.Time, limit int) ([]ProductCount, error) {
	var rows []ProductCount
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select("oi.product_id, COUNT(DISTINCT o.id) AS hits").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.status = ? AND o.created_at >= ? AND p.is_available = ?", enums.OrderStatusCompleted, since, true).
		Group("oi.product_id, p.name").
		Order("hits DESC, p.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]CatalogProduct, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []CatalogProduct
	err := r.catalog(ctx).
		Where("p.id IN ?", productIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AvailableProductsInCategories(ctx context.Context, categoryIDs, excludeProductIDs []uuid.UUID) ([]CatalogProduct, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	q := r.catalog(ctx).
		Where("p.is_available = ? AND p.category_id IN ?", true, categoryIDs)
	if len(excludeProductIDs) > 0 {
		q = q.Where("p.id NOT IN ?", excludeProductIDs)
	}

	var rows []CatalogProduct
	if err := q.Order("p.name ASC, p.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AvailableProductsMatching(ctx context.Context, keywords []string, limit int) ([]CatalogProduct, error) {
	conds := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)*2)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		pattern := "%" + kw + "%"
		conds = append(conds, "LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?")
		args = append(args, pattern, pattern)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	var rows []CatalogProduct
	err := r.catalog(ctx).
		Where("p.is_available = ?", true).
		Where("("+strings.Join(conds, " OR ")+")", args...).
		Order("p.name ASC, p.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountAvailableProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Product{}).
		Where("is_available = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) BeansInStock(ctx context.Context) ([]models.CoffeeBean, error) {
	var beans []models.CoffeeBean
	err := r.DB(ctx).
		Where("stock_quantity > ?", 0).
		Order("name ASC, id ASC").
		Find(&beans).Error
	if err != nil {
		return nil, err
	}
	return beans, nil
}

func (r *repository) PurchasedBeanOrigins(ctx context.Context, customerID uuid.UUID) ([]string, error) {
	var origins []string
	err := r.DB(ctx).
		Table("coffee_beans AS b").
		Distinct("b.origin_country").
		Joins("JOIN order_items oi ON oi.product_id = b.product_id").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.customer_id = ? AND o.status = ?", customerID, enums.OrderStatusCompleted).
		Order("b.origin_country ASC").
		Pluck("b.origin_country", &origins).Error
	if err != nil {
		return nil, err
	}
	return origins, nil
}

func (r *repository) TasteProfile(ctx context.Context, customerID uuid.UUID) (*models.TasteProfile, error) {
	var profile models.TasteProfile
	err := r.DB(ctx).
		Where("customer_id = ?", customerID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) catalog(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("products AS p").
		Select(catalogColumns).
		Joins("JOIN categories c ON c.id = p.category_id")
}
