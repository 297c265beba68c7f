package insights

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	trendWindow        = 3
	trendMinOrders     = 4
	trendThreshold     = 0.10
	timeOfDayShare     = 0.60
	dayTypeShare       = 0.70
	daysPerMonth       = 30.0
	trendIncreasing    = "INCREASING"
	trendDecreasing    = "DECREASING"
	trendStable        = "STABLE"
	trendInsufficient  = "INSUFFICIENT_DATA"
	preferenceVaried   = "VARIED"
	preferenceMixed    = "MIXED"
	preferenceWeekday  = "WEEKDAY"
	preferenceWeekend  = "WEEKEND"
	timeOfDayMorning   = "MORNING"
	timeOfDayAfternoon = "AFTERNOON"
	timeOfDayEvening   = "EVENING"
	timeOfDayNight     = "NIGHT"
)

func purchaseBehavior(s snapshot) PurchaseBehavior {
	if !s.hasOrders() {
		return PurchaseBehavior{Status: StatusInsufficientData}
	}

	n := len(s.orders)
	perMonth := ordersPerMonth(n, s.daysSinceFirst())
	avg := s.averageOrderValue()
	dayType, topDay := dayPreference(s)

	out := PurchaseBehavior{
		Status:              StatusOK,
		TotalOrders:         n,
		TotalSpent:          money(s.totalSpent()),
		AverageOrderValue:   money(avg),
		OrdersPerMonth:      round2(perMonth),
		FrequencyTier:       frequencyTier(perMonth),
		SpendingTier:        spendingTier(avg.InexactFloat64()),
		SpendingTrend:       spendingTrend(s.totals()),
		PreferredTimeOfDay:  timeOfDayPreference(s),
		PreferredDayType:    dayType,
		MostFrequentDay:     topDay,
		DaysSinceFirstOrder: s.daysSinceFirst(),
		DaysSinceLastOrder:  s.daysSinceLast(),
	}
	if gaps := s.intervals(); len(gaps) > 0 {
		out.AverageDaysBetweenOrders = round2(stat.Mean(gaps, nil))
	}
	return out
}

// ordersPerMonth treats any history shorter than a month as one month.
func ordersPerMonth(orders, daysSinceFirst int) float64 {
	months := math.Max(1, float64(daysSinceFirst)/daysPerMonth)
	return float64(orders) / months
}

func spendingTrend(totals []float64) string {
	if len(totals) < trendMinOrders {
		return trendInsufficient
	}
	older := stat.Mean(totals[:trendWindow], nil)
	recent := stat.Mean(totals[len(totals)-trendWindow:], nil)
	if older == 0 {
		if recent > 0 {
			return trendIncreasing
		}
		return trendStable
	}
	change := (recent - older) / older
	switch {
	case change > trendThreshold:
		return trendIncreasing
	case change < -trendThreshold:
		return trendDecreasing
	default:
		return trendStable
	}
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return timeOfDayMorning
	case hour >= 12 && hour < 17:
		return timeOfDayAfternoon
	case hour >= 17 && hour < 22:
		return timeOfDayEvening
	default:
		return timeOfDayNight
	}
}

func timeOfDayPreference(s snapshot) string {
	counts := map[string]int{}
	for _, o := range s.orders {
		counts[timeOfDay(o.CreatedAt.Hour())]++
	}
	total := float64(len(s.orders))
	for _, bucket := range []string{timeOfDayMorning, timeOfDayAfternoon, timeOfDayEvening, timeOfDayNight} {
		if float64(counts[bucket])/total >= timeOfDayShare {
			return bucket
		}
	}
	return preferenceVaried
}

// dayPreference returns the weekday/weekend split and the most frequent
// weekday; ties go to the earlier day, Sunday first.
func dayPreference(s snapshot) (string, string) {
	var perDay [7]int
	weekend := 0
	for _, o := range s.orders {
		wd := o.CreatedAt.Weekday()
		perDay[wd]++
		if wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
	}

	total := float64(len(s.orders))
	dayType := preferenceMixed
	switch {
	case float64(len(s.orders)-weekend)/total >= dayTypeShare:
		dayType = preferenceWeekday
	case float64(weekend)/total >= dayTypeShare:
		dayType = preferenceWeekend
	}

	top := time.Sunday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if perDay[wd] > perDay[top] {
			top = wd
		}
	}
	return dayType, top.String()
}
