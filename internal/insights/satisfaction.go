package insights

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

const (
	repeatProductPoints = 10
	risingRatePoints    = 5
	risingValuePoints   = 5
	longGapPenalty      = 5

	valueWindow    = 4
	valueRiseRatio = 0.10
	longGapDays    = 60.0
)

func satisfaction(s snapshot) Satisfaction {
	if !s.hasOrders() {
		return Satisfaction{Status: StatusInsufficientData, Signals: []string{}}
	}

	score := 0
	signals := []string{}

	if repeats := repeatedProducts(s); repeats > 0 {
		score += repeats * repeatProductPoints
		signals = append(signals, fmt.Sprintf("Repurchased %d products", repeats))
	}

	if orderRateRising(s) {
		score += risingRatePoints
		signals = append(signals, "Ordering more often recently")
	}

	if orderValueRising(s.totals()) {
		score += risingValuePoints
		signals = append(signals, "Recent orders are larger")
	}

	for _, gap := range s.intervals() {
		if gap > longGapDays {
			score -= longGapPenalty
			signals = append(signals, fmt.Sprintf("Gap of %.0f days between orders", gap))
		}
	}

	return Satisfaction{
		Status:  StatusOK,
		Score:   score,
		Level:   satisfactionLevel(score),
		Signals: signals,
	}
}

// repeatedProducts counts products that appear in two or more distinct orders.
func repeatedProducts(s snapshot) int {
	orders := map[uuid.UUID]map[uuid.UUID]struct{}{}
	for _, l := range s.lines {
		if orders[l.ProductID] == nil {
			orders[l.ProductID] = map[uuid.UUID]struct{}{}
		}
		orders[l.ProductID][l.OrderID] = struct{}{}
	}
	n := 0
	for _, set := range orders {
		if len(set) >= 2 {
			n++
		}
	}
	return n
}

// orderRateRising compares the mean gap of the earlier half of the intervals
// with the later half. With an odd count the middle interval belongs to neither.
func orderRateRising(s snapshot) bool {
	gaps := s.intervals()
	if len(gaps) < 2 {
		return false
	}
	half := len(gaps) / 2
	earlier := stat.Mean(gaps[:half], nil)
	later := stat.Mean(gaps[len(gaps)-half:], nil)
	return later < earlier
}

func orderValueRising(totals []float64) bool {
	if len(totals) < 2 {
		return false
	}
	window := min(valueWindow, len(totals))
	older := stat.Mean(totals[:window], nil)
	recent := stat.Mean(totals[len(totals)-window:], nil)
	if older <= 0 {
		return false
	}
	return (recent-older)/older > valueRiseRatio
}
