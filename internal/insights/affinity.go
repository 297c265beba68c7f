package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	topCategoryCount = 3
	topProductCount  = 5
	topPairCount     = 5
)

// Keyword lists are scanned in order; order decides roast detection and ties.
var (
	flavorKeywords = []string{
		"fruity", "bright", "smooth", "mild", "bold", "rich",
		"chocolate", "caramel", "nutty", "floral", "citrus", "berry", "earthy", "spicy", "sweet",
	}
	roastKeywords = []string{"light", "medium", "dark", "espresso"}

	flavorClassification = map[string]string{
		"fruity": "ADVENTUROUS",
		"bright": "ADVENTUROUS",
		"smooth": "GENTLE",
		"mild":   "GENTLE",
		"bold":   "INTENSE",
		"rich":   "INTENSE",
	}
)

const classificationTraditional = "TRADITIONAL"

type aggregate struct {
	id       uuid.UUID
	name     string
	orders   map[uuid.UUID]struct{}
	quantity int
	spent    decimal.Decimal
	last     time.Time
}

func (a *aggregate) add(orderID uuid.UUID, at time.Time, qty int, spent decimal.Decimal) {
	if a.orders == nil {
		a.orders = map[uuid.UUID]struct{}{}
	}
	a.orders[orderID] = struct{}{}
	a.quantity += qty
	a.spent = a.spent.Add(spent)
	if at.After(a.last) {
		a.last = at
	}
}

func recencyFactor(now, last time.Time) float64 {
	return math.Max(0, 100-float64(wholeDays(now.Sub(last)))) / 100
}

func productAffinity(s snapshot) ProductAffinity {
	categories := map[uuid.UUID]*aggregate{}
	products := map[uuid.UUID]*aggregate{}
	for _, l := range s.lines {
		c, ok := categories[l.CategoryID]
		if !ok {
			c = &aggregate{id: l.CategoryID, name: l.CategoryName, spent: decimal.Zero}
			categories[l.CategoryID] = c
		}
		c.add(l.OrderID, l.OrderedAt, l.Quantity, l.LineTotal())

		p, ok := products[l.ProductID]
		if !ok {
			p = &aggregate{id: l.ProductID, name: l.ProductName, spent: decimal.Zero}
			products[l.ProductID] = p
		}
		p.add(l.OrderID, l.OrderedAt, l.Quantity, l.LineTotal())
	}

	return ProductAffinity{
		FavoriteCategories: favoriteCategories(categories, s.now),
		FavoriteProducts:   favoriteProducts(products, s.now),
		FrequentPairs:      frequentPairs(s),
		TasteProfile:       tasteProfile(s),
	}
}

func favoriteCategories(categories map[uuid.UUID]*aggregate, now time.Time) []CategoryAffinity {
	out := make([]CategoryAffinity, 0, len(categories))
	for _, c := range categories {
		spent := c.spent.InexactFloat64()
		score := float64(len(c.orders))*0.4 + (spent/10)*0.4 + recencyFactor(now, c.last)*0.2
		out = append(out, CategoryAffinity{
			CategoryID: c.id,
			Name:       c.name,
			Orders:     len(c.orders),
			TotalSpent: money(c.spent),
			Score:      round2(score),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topCategoryCount {
		out = out[:topCategoryCount]
	}
	return out
}

func favoriteProducts(products map[uuid.UUID]*aggregate, now time.Time) []ProductScore {
	out := make([]ProductScore, 0, len(products))
	for _, p := range products {
		score := float64(len(p.orders))*0.5 + float64(p.quantity)*0.3 + recencyFactor(now, p.last)*0.2
		out = append(out, ProductScore{
			ProductID: p.id,
			Name:      p.name,
			Orders:    len(p.orders),
			Quantity:  p.quantity,
			Score:     round2(score),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topProductCount {
		out = out[:topProductCount]
	}
	return out
}

type pairKey struct {
	a, b uuid.UUID
}

// frequentPairs counts product pairs co-occurring in orders with at least two
// distinct products. Strength is relative to all completed orders.
func frequentPairs(s snapshot) []ProductPair {
	type item struct {
		id   uuid.UUID
		name string
	}
	byOrder := map[uuid.UUID][]item{}
	seen := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, l := range s.lines {
		if seen[l.OrderID] == nil {
			seen[l.OrderID] = map[uuid.UUID]struct{}{}
		}
		if _, dup := seen[l.OrderID][l.ProductID]; dup {
			continue
		}
		seen[l.OrderID][l.ProductID] = struct{}{}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], item{id: l.ProductID, name: l.ProductName})
	}

	counts := map[pairKey]*ProductPair{}
	for _, items := range byOrder {
		if len(items) < 2 {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].name != items[j].name {
				return items[i].name < items[j].name
			}
			return items[i].id.String() < items[j].id.String()
		})
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				key := pairKey{a: items[i].id, b: items[j].id}
				pair, ok := counts[key]
				if !ok {
					pair = &ProductPair{
						Products:   [2]string{items[i].name, items[j].name},
						ProductIDs: [2]uuid.UUID{items[i].id, items[j].id},
					}
					counts[key] = pair
				}
				pair.Count++
			}
		}
	}

	out := make([]ProductPair, 0, len(counts))
	for _, p := range counts {
		if len(s.orders) > 0 {
			p.StrengthPct = round2(float64(p.Count) / float64(len(s.orders)) * 100)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Products[0] != out[j].Products[0] {
			return out[i].Products[0] < out[j].Products[0]
		}
		return out[i].Products[1] < out[j].Products[1]
	})
	if len(out) > topPairCount {
		out = out[:topPairCount]
	}
	return out
}

// tasteProfile scans coffee lines: every flavor keyword present counts, while
// each line contributes at most one roast, the first listed keyword found.
func tasteProfile(s snapshot) TasteProfile {
	profile := TasteProfile{
		FlavorCounts:   map[string]int{},
		RoastCounts:    map[string]int{},
		Classification: classificationTraditional,
	}
	for _, l := range s.lines {
		if !strings.Contains(strings.ToLower(l.CategoryName), "coffee") {
			continue
		}
		text := strings.ToLower(l.ProductName + " " + l.ProductDescription)
		for _, kw := range flavorKeywords {
			if strings.Contains(text, kw) {
				profile.FlavorCounts[kw]++
			}
		}
		for _, kw := range roastKeywords {
			if strings.Contains(text, kw) {
				profile.RoastCounts[kw]++
				break
			}
		}
	}

	profile.DominantFlavor = leading(flavorKeywords, profile.FlavorCounts)
	profile.PreferredRoast = leading(roastKeywords, profile.RoastCounts)
	if class, ok := flavorClassification[profile.DominantFlavor]; ok {
		profile.Classification = class
	}
	return profile
}

// leading returns the keyword with the highest count, earliest in list order on ties.
func leading(keywords []string, counts map[string]int) string {
	best, bestCount := "", 0
	for _, kw := range keywords {
		if counts[kw] > bestCount {
			best, bestCount = kw, counts[kw]
		}
	}
	return best
}
