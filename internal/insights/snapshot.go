package insights

import (
	"math"
	"time"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// snapshot is everything the sections read, fetched once per Generate.
// orders and lines are oldest first.
type snapshot struct {
	now               time.Time
	orders            []gateway.OrderSummary
	lines             []gateway.OrderLine
	marketAverage     decimal.Decimal
	availableProducts int64
}

func (s snapshot) hasOrders() bool {
	return len(s.orders) > 0
}

func (s snapshot) first() time.Time {
	return s.orders[0].CreatedAt
}

func (s snapshot) last() time.Time {
	return s.orders[len(s.orders)-1].CreatedAt
}

// daysSinceFirst and daysSinceLast are whole days; zero without orders.
func (s snapshot) daysSinceFirst() int {
	if !s.hasOrders() {
		return 0
	}
	return wholeDays(s.now.Sub(s.first()))
}

func (s snapshot) daysSinceLast() int {
	if !s.hasOrders() {
		return 0
	}
	return wholeDays(s.now.Sub(s.last()))
}

func (s snapshot) totalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, o := range s.orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

func (s snapshot) averageOrderValue() decimal.Decimal {
	if !s.hasOrders() {
		return decimal.Zero
	}
	return s.totalSpent().Div(decimal.NewFromInt(int64(len(s.orders))))
}

// intervals returns the gaps between consecutive orders in fractional days.
func (s snapshot) intervals() []float64 {
	if len(s.orders) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s.orders)-1)
	for i := 1; i < len(s.orders); i++ {
		out = append(out, days(s.orders[i].CreatedAt.Sub(s.orders[i-1].CreatedAt)))
	}
	return out
}

func (s snapshot) totals() []float64 {
	out := make([]float64, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.TotalAmount.InexactFloat64())
	}
	return out
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}

func wholeDays(d time.Duration) int {
	return int(math.Floor(days(d)))
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
