package recommendations

import (
	"math"
	"time"

	"github.com/angelmondragon/brewlytics/internal/gateway"
)

const (
	affinityRecencyWeight   = 0.3
	affinityFrequencyWeight = 0.4
	affinityMonetaryWeight  = 0.3
)

// affinity scores a customer's propensity for one product in [0,100].
func affinity(stats gateway.PurchaseStats, now time.Time) float64 {
	recency := 0.0
	if stats.LastPurchasedAt != nil {
		days := math.Floor(now.Sub(*stats.LastPurchasedAt).Hours() / 24)
		recency = math.Max(0, 100-days)
		recency = math.Min(100, recency)
	}
	frequency := math.Min(100, float64(stats.PurchaseCount)*20)
	monetary := math.Min(100, float64(stats.TotalQuantity)*10)

	score := recency*affinityRecencyWeight + frequency*affinityFrequencyWeight + monetary*affinityMonetaryWeight
	return round2(score)
}
