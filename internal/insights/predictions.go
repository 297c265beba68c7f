package insights

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	confidenceHigh      = "HIGH"
	confidenceMedium    = "MEDIUM"
	confidenceLow       = "LOW"
	confidenceUncertain = "UNCERTAIN"

	likelyProductCount = 3
)

func predictions(s snapshot, favorites []ProductScore) Predictions {
	if len(s.orders) < 2 {
		return Predictions{Status: StatusInsufficientData, LikelyProducts: []string{}}
	}

	gaps := s.intervals()
	mean, stdDev := stat.Mean(gaps, nil), 0.0
	if len(gaps) > 1 {
		mean, stdDev = stat.MeanStdDev(gaps, nil)
	}

	next := s.last().Add(time.Duration(mean * float64(day)))
	out := Predictions{
		Status:                 StatusOK,
		AverageIntervalDays:    round2(mean),
		IntervalStdDevDays:     round2(stdDev),
		PredictedNextOrderDate: &next,
		DaysUntilNextOrder:     int(math.Ceil(days(next.Sub(s.now)))),
		Overdue:                next.Before(s.now),
		Confidence:             confidence(len(s.orders), stdDev),
		PredictedOrderValue:    money(s.averageOrderValue()),
		LikelyProducts:         []string{},
	}
	for i, p := range favorites {
		if i == likelyProductCount {
			break
		}
		out.LikelyProducts = append(out.LikelyProducts, p.Name)
	}
	return out
}

func confidence(orders int, stdDev float64) string {
	if orders < 3 {
		return confidenceUncertain
	}
	switch {
	case stdDev < 3:
		return confidenceHigh
	case stdDev < 7:
		return confidenceMedium
	default:
		return confidenceLow
	}
}
