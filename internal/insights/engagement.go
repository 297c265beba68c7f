package insights

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	engagementWindowDays = 90
	interactionScore     = 50.0
	frequencyScale       = 10.0

	weightFrequency   = 0.30
	weightMonetary    = 0.25
	weightRecency     = 0.20
	weightDiversity   = 0.15
	weightInteraction = 0.10
)

// engagement computes the customer engagement index over the trailing window.
// Monetary compares window spend against the market average order value, not
// against other customers' spend.
func engagement(s snapshot) Engagement {
	since := s.now.Add(-engagementWindowDays * day)

	orders := 0
	spent := decimal.Zero
	for _, o := range s.orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		orders++
		spent = spent.Add(o.TotalAmount)
	}

	products := map[uuid.UUID]struct{}{}
	for _, l := range s.lines {
		if !l.OrderedAt.Before(since) {
			products[l.ProductID] = struct{}{}
		}
	}

	c := EngagementComponents{Interaction: interactionScore}
	c.Frequency = math.Min(100, float64(orders)/engagementWindowDays*frequencyScale)
	if s.marketAverage.IsPositive() {
		ratio := spent.Div(s.marketAverage).InexactFloat64()
		c.Monetary = math.Min(100, ratio*10)
	}
	if s.hasOrders() {
		c.Recency = math.Max(0, 100-float64(s.daysSinceLast()))
	}
	if s.availableProducts > 0 {
		c.Diversity = math.Min(100, float64(len(products))/float64(s.availableProducts)*100)
	}

	score := c.Frequency*weightFrequency +
		c.Monetary*weightMonetary +
		c.Recency*weightRecency +
		c.Diversity*weightDiversity +
		c.Interaction*weightInteraction

	return Engagement{
		Score: round2(score),
		Level: engagementLevel(score),
		Components: EngagementComponents{
			Frequency:   round2(c.Frequency),
			Monetary:    round2(c.Monetary),
			Recency:     round2(c.Recency),
			Diversity:   round2(c.Diversity),
			Interaction: c.Interaction,
		},
		WindowDays:     engagementWindowDays,
		OrdersInWindow: orders,
	}
}
