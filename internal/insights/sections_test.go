package insights

import (
	"math"
	"testing"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type product struct {
	id       uuid.UUID
	name     string
	desc     string
	category string
}

var categoryIDs = map[string]uuid.UUID{}

func newProduct(name, desc, category string) product {
	if _, ok := categoryIDs[category]; !ok {
		categoryIDs[category] = uuid.New()
	}
	return product{id: uuid.New(), name: name, desc: desc, category: category}
}

// orderOf appends an order placed d days before now with one line per product.
func (s *snapshot) orderOf(d int, total float64, products ...product) {
	o := gateway.OrderSummary{ID: uuid.New(), TotalAmount: decimal.NewFromFloat(total), CreatedAt: daysAgo(d)}
	s.orders = append(s.orders, o)
	for _, p := range products {
		s.lines = append(s.lines, gateway.OrderLine{
			OrderID:            o.ID,
			OrderedAt:          o.CreatedAt,
			ProductID:          p.id,
			ProductName:        p.name,
			ProductDescription: p.desc,
			CategoryID:         categoryIDs[p.category],
			CategoryName:       p.category,
			Quantity:           1,
			UnitPrice:          decimal.NewFromFloat(total),
		})
	}
}

func TestFrequencyTierBoundaries(t *testing.T) {
	cases := []struct {
		perMonth float64
		want     string
	}{
		{20, "DAILY"},
		{19.999, "WEEKLY"},
		{8, "WEEKLY"},
		{4, "BI_WEEKLY"},
		{2, "MONTHLY"},
		{1, "OCCASIONAL"},
		{0.99, "RARE"},
	}
	for _, tc := range cases {
		if got := frequencyTier(tc.perMonth); got != tc.want {
			t.Fatalf("frequencyTier(%v) = %q, want %q", tc.perMonth, got, tc.want)
		}
	}
	if got := frequencyTier(ordersPerMonth(20, 0)); got != "DAILY" {
		t.Fatalf("20 orders inside a month should be DAILY, got %q", got)
	}
}

func TestSpendingTierBoundaries(t *testing.T) {
	cases := map[float64]string{50.01: "PREMIUM", 50: "STANDARD", 20: "STANDARD", 10: "BUDGET", 9.99: "MINIMAL"}
	for aov, want := range cases {
		if got := spendingTier(aov); got != want {
			t.Fatalf("spendingTier(%v) = %q, want %q", aov, got, want)
		}
	}
}

func TestSpendingTrend(t *testing.T) {
	cases := []struct {
		totals []float64
		want   string
	}{
		{[]float64{10, 10, 10}, trendInsufficient},
		{[]float64{10, 10, 10, 20, 20, 20}, trendIncreasing},
		{[]float64{20, 20, 20, 10, 10, 10}, trendDecreasing},
		{[]float64{10, 10, 10, 10.5}, trendStable},
	}
	for _, tc := range cases {
		if got := spendingTrend(tc.totals); got != tc.want {
			t.Fatalf("spendingTrend(%v) = %q, want %q", tc.totals, got, tc.want)
		}
	}
}

func TestLifecycleCascadeOrder(t *testing.T) {
	cases := []struct {
		name  string
		facts lifecycleFacts
		want  string
	}{
		{"no orders", lifecycleFacts{}, StageAwareness},
		{"new buyer", lifecycleFacts{orders: 1, daysSinceFirst: 10, daysSinceLast: 10}, StageAcquisition},
		{"retention before at risk", lifecycleFacts{orders: 3, daysSinceFirst: 80, daysSinceLast: 70}, StageRetention},
		{"loyalty before advocacy", lifecycleFacts{orders: 12, daysSinceFirst: 200, daysSinceLast: 5, engagement: 75}, StageLoyalty},
		{"advocacy", lifecycleFacts{orders: 12, daysSinceFirst: 60, daysSinceLast: 2, engagement: 80}, StageAdvocacy},
		{"at risk", lifecycleFacts{orders: 4, daysSinceFirst: 200, daysSinceLast: 70, engagement: 20}, StageAtRisk},
		{"dormant", lifecycleFacts{orders: 2, daysSinceFirst: 200, daysSinceLast: 120}, StageDormant},
		{"default", lifecycleFacts{orders: 1, daysSinceFirst: 45, daysSinceLast: 45}, StageRetention},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lifecycleStage(tc.facts); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRecommendedActionsAreIndependent(t *testing.T) {
	actions := recommendedActions(actionFacts{engagementLevel: "DISENGAGED", frequencyTier: "WEEKLY", stage: StageDormant})

	want := []string{"WIN_BACK_CAMPAIGN", "VIP_PROGRAM", "REACTIVATION_CAMPAIGN"}
	if len(actions) != len(want) {
		t.Fatalf("expected %d actions, got %+v", len(want), actions)
	}
	for i, a := range actions {
		if a.Type != want[i] {
			t.Fatalf("action %d = %q, want %q", i, a.Type, want[i])
		}
	}
	if actions[2].Priority != PriorityCritical {
		t.Fatalf("reactivation should be critical, got %q", actions[2].Priority)
	}

	if got := recommendedActions(actionFacts{engagementLevel: "ENGAGED", frequencyTier: "MONTHLY", stage: StageRetention}); len(got) != 0 {
		t.Fatalf("expected no actions, got %+v", got)
	}
}

func TestEngagementIndex(t *testing.T) {
	a := newProduct("Americano", "", "Coffee")
	b := newProduct("Bagel", "", "Bakery")
	old := newProduct("Old Blend", "", "Coffee")

	s := snapshot{now: now, marketAverage: decimal.NewFromInt(30), availableProducts: 10}
	s.orderOf(120, 500, old)
	s.orderOf(50, 30, a)
	s.orderOf(30, 30, b)
	s.orderOf(10, 30, a)

	got := engagement(s)

	if got.OrdersInWindow != 3 {
		t.Fatalf("expected 3 orders inside the window, got %d", got.OrdersInWindow)
	}
	c := got.Components
	// 3 orders / 90 days x 10
	if c.Frequency != 0.33 || c.Monetary != 30 || c.Recency != 90 || c.Diversity != 20 || c.Interaction != 50 {
		t.Fatalf("unexpected components %+v", c)
	}
	if got.Score != 33.6 || got.Level != "LOW_ENGAGEMENT" {
		t.Fatalf("unexpected score %v level %q", got.Score, got.Level)
	}
}

func TestEngagementFrequencyComponent(t *testing.T) {
	cases := []struct {
		orders int
		want   float64
	}{
		{0, 0},
		{9, 1},
		{90, 10},
	}
	for _, tc := range cases {
		s := snapshot{now: now}
		for i := 0; i < tc.orders; i++ {
			s.orderOf(89-i%89, 10, newProduct("Americano", "", "Coffee"))
		}
		if got := engagement(s).Components.Frequency; got != tc.want {
			t.Fatalf("%d orders: expected frequency %v, got %v", tc.orders, tc.want, got)
		}
	}
}

func TestEngagementWithoutMarketAverage(t *testing.T) {
	s := snapshot{now: now}
	s.orderOf(1, 30, newProduct("Americano", "", "Coffee"))

	if got := engagement(s); got.Components.Monetary != 0 || got.Components.Diversity != 0 {
		t.Fatalf("expected zero-guarded components, got %+v", got.Components)
	}
}

func TestSatisfactionSignals(t *testing.T) {
	p := newProduct("Americano", "", "Coffee")
	q := newProduct("Bagel", "", "Bakery")

	s := snapshot{now: now}
	s.orderOf(200, 10, p)
	s.orderOf(100, 10, p, q)
	s.orderOf(95, 10, p)
	s.orderOf(90, 10, p)

	got := satisfaction(s)

	// +10 repurchase, +5 rising rate, -5 for the 100 day gap.
	if got.Score != 10 || got.Level != "DISSATISFIED" {
		t.Fatalf("unexpected satisfaction %+v", got)
	}
	if len(got.Signals) != 3 {
		t.Fatalf("expected three signals, got %v", got.Signals)
	}
}

func TestOrderRateRising(t *testing.T) {
	steady := snapshot{now: now}
	steady.orderOf(40, 10)
	steady.orderOf(30, 10)
	steady.orderOf(20, 10)
	if orderRateRising(steady) {
		t.Fatal("a constant cadence is not ordering more often")
	}

	steadyEven := snapshot{now: now}
	for _, d := range []int{50, 40, 30, 20} {
		steadyEven.orderOf(d, 10)
	}
	if orderRateRising(steadyEven) {
		t.Fatal("a constant cadence with an even count is not ordering more often")
	}

	speeding := snapshot{now: now}
	for _, d := range []int{60, 40, 20, 15, 10} {
		speeding.orderOf(d, 10)
	}
	if !orderRateRising(speeding) {
		t.Fatal("shrinking gaps should count as ordering more often")
	}

	slowing := snapshot{now: now}
	for _, d := range []int{30, 25, 20, 5} {
		slowing.orderOf(d, 10)
	}
	if orderRateRising(slowing) {
		t.Fatal("growing gaps should not count as ordering more often")
	}

	two := snapshot{now: now}
	two.orderOf(20, 10)
	two.orderOf(1, 10)
	if orderRateRising(two) {
		t.Fatal("a single interval has nothing to compare against")
	}
}

func TestOrderValueRising(t *testing.T) {
	if !orderValueRising([]float64{10, 10, 10, 10, 20, 20}) {
		t.Fatal("expected rising value when the last four average 15 against 10")
	}
	if orderValueRising([]float64{10, 10, 10, 10, 10, 10.5}) {
		t.Fatal("a small change should not count as rising")
	}
	if orderValueRising([]float64{10}) {
		t.Fatal("a single order cannot rise")
	}
}

func TestPredictions(t *testing.T) {
	p := newProduct("Americano", "", "Coffee")
	s := snapshot{now: now}
	s.orderOf(40, 10, p)
	s.orderOf(30, 10, p)
	s.orderOf(18, 10, p)
	s.orderOf(4, 10, p)

	got := predictions(s, []ProductScore{{Name: "Americano"}, {Name: "Bagel"}, {Name: "Mocha"}, {Name: "Scone"}})

	if got.AverageIntervalDays != 12 || got.IntervalStdDevDays != 2 {
		t.Fatalf("unexpected interval stats %v +/- %v", got.AverageIntervalDays, got.IntervalStdDevDays)
	}
	if got.Confidence != confidenceHigh {
		t.Fatalf("expected HIGH confidence, got %q", got.Confidence)
	}
	if want := daysAgo(4).Add(12 * day); got.PredictedNextOrderDate == nil || !got.PredictedNextOrderDate.Equal(want) {
		t.Fatalf("expected next order at %v, got %v", want, got.PredictedNextOrderDate)
	}
	if got.DaysUntilNextOrder != 8 || got.Overdue {
		t.Fatalf("unexpected countdown %d overdue=%v", got.DaysUntilNextOrder, got.Overdue)
	}
	if got.PredictedOrderValue != 10 || len(got.LikelyProducts) != 3 {
		t.Fatalf("unexpected value %v or likely products %v", got.PredictedOrderValue, got.LikelyProducts)
	}
}

func TestPredictionsWithTwoOrdersAreUncertain(t *testing.T) {
	p := newProduct("Americano", "", "Coffee")
	s := snapshot{now: now}
	s.orderOf(60, 10, p)
	s.orderOf(40, 10, p)

	got := predictions(s, nil)
	if got.Confidence != confidenceUncertain || got.IntervalStdDevDays != 0 {
		t.Fatalf("unexpected predictions %+v", got)
	}
	if !got.Overdue || got.DaysUntilNextOrder != -20 {
		t.Fatalf("expected overdue by 20 days, got %d overdue=%v", got.DaysUntilNextOrder, got.Overdue)
	}
}

func TestConfidenceBands(t *testing.T) {
	cases := []struct {
		orders int
		std    float64
		want   string
	}{
		{2, 0, confidenceUncertain},
		{3, 2.99, confidenceHigh},
		{3, 3, confidenceMedium},
		{5, 6.99, confidenceMedium},
		{5, 7, confidenceLow},
	}
	for _, tc := range cases {
		if got := confidence(tc.orders, tc.std); got != tc.want {
			t.Fatalf("confidence(%d, %v) = %q, want %q", tc.orders, tc.std, got, tc.want)
		}
	}
}

func TestTasteProfile(t *testing.T) {
	s := snapshot{now: now}
	s.orderOf(10, 12, newProduct("Ethiopia", "fruity bright light roast", "Coffee"))
	s.orderOf(9, 12, newProduct("Sumatra", "earthy dark and bold", "Coffee"))
	s.orderOf(8, 12, newProduct("Kenya", "bright citrus medium", "Coffee"))
	s.orderOf(7, 4, newProduct("Brownie", "rich chocolate", "Bakery"))

	got := tasteProfile(s)

	if got.FlavorCounts["bright"] != 2 || got.FlavorCounts["rich"] != 0 {
		t.Fatalf("unexpected flavor counts %v", got.FlavorCounts)
	}
	if got.DominantFlavor != "bright" || got.Classification != "ADVENTUROUS" {
		t.Fatalf("unexpected dominant flavor %q class %q", got.DominantFlavor, got.Classification)
	}
	if got.RoastCounts["light"] != 1 || got.RoastCounts["dark"] != 1 || got.RoastCounts["medium"] != 1 {
		t.Fatalf("unexpected roast counts %v", got.RoastCounts)
	}
	if got.PreferredRoast != "light" {
		t.Fatalf("ties should go to the earlier roast keyword, got %q", got.PreferredRoast)
	}
}

func TestTasteProfileDefaultsToTraditional(t *testing.T) {
	s := snapshot{now: now}
	s.orderOf(3, 5, newProduct("Croissant", "butter pastry", "Bakery"))

	if got := tasteProfile(s); got.Classification != classificationTraditional || got.DominantFlavor != "" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestFrequentPairs(t *testing.T) {
	americano := newProduct("Americano", "", "Coffee")
	bagel := newProduct("Bagel", "", "Bakery")
	cortado := newProduct("Cortado", "", "Coffee")

	s := snapshot{now: now}
	s.orderOf(3, 10, bagel, americano)
	s.orderOf(2, 10, americano, bagel, cortado)
	s.orderOf(1, 10, americano)

	pairs := frequentPairs(s)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %+v", pairs)
	}
	top := pairs[0]
	if top.Products != [2]string{"Americano", "Bagel"} || top.Count != 2 {
		t.Fatalf("unexpected top pair %+v", top)
	}
	if math.Abs(top.StrengthPct-66.67) > 1e-9 {
		t.Fatalf("expected strength against all orders, got %v", top.StrengthPct)
	}
	if pairs[1].Products != [2]string{"Americano", "Cortado"} {
		t.Fatalf("ties should sort by name, got %+v", pairs[1])
	}
}

func TestFavoritesRankedAndCapped(t *testing.T) {
	s := snapshot{now: now}
	names := []string{"A", "B", "C", "D", "E", "F"}
	for i, n := range names {
		p := newProduct(n, "", "Cat "+n)
		for j := 0; j <= i; j++ {
			s.orderOf(10+j, 5, p)
		}
	}

	got := productAffinity(s)

	if len(got.FavoriteProducts) != topProductCount || got.FavoriteProducts[0].Name != "F" {
		t.Fatalf("unexpected favorite products %+v", got.FavoriteProducts)
	}
	if len(got.FavoriteCategories) != topCategoryCount || got.FavoriteCategories[0].Name != "Cat F" {
		t.Fatalf("unexpected favorite categories %+v", got.FavoriteCategories)
	}
}

func TestMostFrequentDayTieGoesToSunday(t *testing.T) {
	s := snapshot{now: now}
	p := newProduct("Americano", "", "Coffee")
	// now is a Saturday; one day earlier is Friday, six days earlier Sunday.
	s.orderOf(6, 5, p)
	s.orderOf(1, 5, p)

	dayType, top := dayPreference(s)
	if top != "Sunday" || dayType != preferenceMixed {
		t.Fatalf("got %q %q", dayType, top)
	}
}
