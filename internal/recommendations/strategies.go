package recommendations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/google/uuid"
)

const (
	collaborativeScorePerPurchase = 10.0
	favoriteCategoryScore         = 10.0
	otherCategoryScore            = 5.0
	popularityScorePerOrder       = 5.0
	timeContextScore              = 8.0

	topCategories    = 3
	popularityWindow = 30 * 24 * time.Hour
)

type timeBucket struct {
	name     string
	from, to int
	keywords []string
}

// Buckets are [from, to) hours; anything unmatched uses defaultBucket.
var timeBuckets = []timeBucket{
	{name: "morning", from: 6, to: 12, keywords: []string{"espresso", "latte", "cappuccino", "breakfast", "croissant", "muffin", "pastry"}},
	{name: "afternoon", from: 14, to: 17, keywords: []string{"iced", "cold brew", "tea", "sandwich", "cookie", "snack"}},
	{name: "evening", from: 17, to: 21, keywords: []string{"decaf", "dessert", "cake", "chocolate", "herbal"}},
}

var defaultBucket = timeBucket{name: "any time", keywords: []string{"house", "signature", "blend"}}

func bucketFor(hour int) timeBucket {
	for _, b := range timeBuckets {
		if hour >= b.from && hour < b.to {
			return b
		}
	}
	return defaultBucket
}

// history is the part of a customer's order history the strategies share.
type history struct {
	purchased  []uuid.UUID
	categories []categoryCount
}

type categoryCount struct {
	id     uuid.UUID
	name   string
	orders int
}

func buildHistory(lines []gateway.OrderLine) history {
	seenProduct := make(map[uuid.UUID]struct{})
	categoryOrders := make(map[uuid.UUID]map[uuid.UUID]struct{})
	categoryNames := make(map[uuid.UUID]string)

	h := history{}
	for _, line := range lines {
		if _, ok := seenProduct[line.ProductID]; !ok {
			seenProduct[line.ProductID] = struct{}{}
			h.purchased = append(h.purchased, line.ProductID)
		}
		if categoryOrders[line.CategoryID] == nil {
			categoryOrders[line.CategoryID] = make(map[uuid.UUID]struct{})
		}
		categoryOrders[line.CategoryID][line.OrderID] = struct{}{}
		categoryNames[line.CategoryID] = line.CategoryName
	}

	for id, orders := range categoryOrders {
		h.categories = append(h.categories, categoryCount{id: id, name: categoryNames[id], orders: len(orders)})
	}
	sort.Slice(h.categories, func(i, j int) bool {
		a, b := h.categories[i], h.categories[j]
		if a.orders != b.orders {
			return a.orders > b.orders
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id.String() < b.id.String()
	})
	if len(h.categories) > topCategories {
		h.categories = h.categories[:topCategories]
	}
	return h
}

func (e *Engine) collaborative(ctx context.Context, customerID uuid.UUID, h history) ([]candidate, error) {
	if len(h.purchased) == 0 {
		return nil, nil
	}
	neighbors, err := e.repo.NeighborCustomers(ctx, customerID, h.purchased, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load neighbors: %w", err)
	}
	if len(neighbors) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.CustomerID)
	}

	counts, err := e.repo.ProductsPurchasedByCustomers(ctx, ids, h.purchased, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load neighbor purchases: %w", err)
	}
	out := make([]candidate, 0, len(counts))
	for _, c := range counts {
		out = append(out, candidate{
			ProductID: c.ProductID,
			Score:     float64(c.Hits) * collaborativeScorePerPurchase,
			Reason:    "Customers with similar taste also bought this",
		})
	}
	return out, nil
}

func (e *Engine) contentBased(ctx context.Context, h history) ([]candidate, error) {
	if len(h.categories) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(h.categories))
	names := make(map[uuid.UUID]string, len(h.categories))
	for _, c := range h.categories {
		ids = append(ids, c.id)
		names[c.id] = c.name
	}
	favorite := h.categories[0].id

	products, err := e.repo.AvailableProductsInCategories(ctx, ids, h.purchased)
	if err != nil {
		return nil, fmt.Errorf("load category products: %w", err)
	}
	out := make([]candidate, 0, len(products))
	for _, p := range products {
		score := otherCategoryScore
		if p.CategoryID == favorite {
			score = favoriteCategoryScore
		}
		out = append(out, candidate{
			ProductID: p.ID,
			Score:     score,
			Reason:    fmt.Sprintf("Because you enjoy %s", names[p.CategoryID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out, nil
}

func (e *Engine) popularity(ctx context.Context, now time.Time) ([]candidate, error) {
	counts, err := e.repo.PopularProductsSince(ctx, now.Add(-popularityWindow), MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load popular products: %w", err)
	}
	out := make([]candidate, 0, len(counts))
	for _, c := range counts {
		out = append(out, candidate{
			ProductID: c.ProductID,
			Score:     float64(c.Hits) * popularityScorePerOrder,
			Reason:    "Popular with other customers this month",
		})
	}
	return out, nil
}

func (e *Engine) timeContext(ctx context.Context, now time.Time) ([]candidate, error) {
	bucket := bucketFor(now.Hour())
	products, err := e.repo.AvailableProductsMatching(ctx, bucket.keywords, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load %s products: %w", bucket.name, err)
	}
	out := make([]candidate, 0, len(products))
	for _, p := range products {
		out = append(out, candidate{
			ProductID: p.ID,
			Score:     timeContextScore,
			Reason:    fmt.Sprintf("A good pick for %s", bucketPhrase(bucket)),
		})
	}
	return out, nil
}

func bucketPhrase(b timeBucket) string {
	if b.name == defaultBucket.name {
		return b.name
	}
	return "the " + b.name
}
