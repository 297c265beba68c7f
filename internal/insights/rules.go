package insights

// rule pairs a predicate with the label it yields. Cascades are evaluated
// top to bottom and the first match wins, so order matters.
type rule[F any] struct {
	when   func(F) bool
	result string
}

func firstMatch[F any](rules []rule[F], facts F, fallback string) string {
	for _, r := range rules {
		if r.when(facts) {
			return r.result
		}
	}
	return fallback
}

func atLeast(threshold float64) func(float64) bool {
	return func(v float64) bool { return v >= threshold }
}

func above(threshold float64) func(float64) bool {
	return func(v float64) bool { return v > threshold }
}

var frequencyTiers = []rule[float64]{
	{when: atLeast(20), result: "DAILY"},
	{when: atLeast(8), result: "WEEKLY"},
	{when: atLeast(4), result: "BI_WEEKLY"},
	{when: atLeast(2), result: "MONTHLY"},
	{when: atLeast(1), result: "OCCASIONAL"},
}

var spendingTiers = []rule[float64]{
	{when: above(50), result: "PREMIUM"},
	{when: atLeast(20), result: "STANDARD"},
	{when: atLeast(10), result: "BUDGET"},
}

var engagementLevels = []rule[float64]{
	{when: atLeast(90), result: "HIGHLY_ENGAGED"},
	{when: atLeast(70), result: "ENGAGED"},
	{when: atLeast(50), result: "MODERATELY_ENGAGED"},
	{when: atLeast(30), result: "LOW_ENGAGEMENT"},
}

var satisfactionLevels = []rule[float64]{
	{when: atLeast(80), result: "DELIGHTED"},
	{when: atLeast(50), result: "SATISFIED"},
	{when: atLeast(20), result: "NEUTRAL"},
	{when: atLeast(0), result: "DISSATISFIED"},
}

func frequencyTier(ordersPerMonth float64) string {
	return firstMatch(frequencyTiers, ordersPerMonth, "RARE")
}

func spendingTier(averageOrderValue float64) string {
	return firstMatch(spendingTiers, averageOrderValue, "MINIMAL")
}

func engagementLevel(score float64) string {
	return firstMatch(engagementLevels, score, "DISENGAGED")
}

func satisfactionLevel(score int) string {
	return firstMatch(satisfactionLevels, float64(score), "UNHAPPY")
}

// Lifecycle stages.
const (
	StageAwareness   = "AWARENESS"
	StageAcquisition = "ACQUISITION"
	StageRetention   = "RETENTION"
	StageLoyalty     = "LOYALTY"
	StageAdvocacy    = "ADVOCACY"
	StageAtRisk      = "AT_RISK"
	StageDormant     = "DORMANT"
)

type lifecycleFacts struct {
	orders         int
	daysSinceFirst int
	daysSinceLast  int
	engagement     float64
}

var lifecycleStages = []rule[lifecycleFacts]{
	{when: func(f lifecycleFacts) bool { return f.orders == 0 }, result: StageAwareness},
	{when: func(f lifecycleFacts) bool { return f.orders == 1 && f.daysSinceFirst <= 30 }, result: StageAcquisition},
	{when: func(f lifecycleFacts) bool { return f.orders >= 2 && f.orders <= 5 && f.daysSinceFirst <= 90 }, result: StageRetention},
	{when: func(f lifecycleFacts) bool { return f.orders >= 6 && f.daysSinceFirst > 90 && f.engagement >= 70 }, result: StageLoyalty},
	{when: func(f lifecycleFacts) bool { return f.engagement >= 70 && f.orders >= 10 }, result: StageAdvocacy},
	{when: func(f lifecycleFacts) bool { return f.daysSinceLast >= 60 && f.daysSinceLast <= 90 && f.orders >= 3 }, result: StageAtRisk},
	{when: func(f lifecycleFacts) bool { return f.daysSinceLast > 90 }, result: StageDormant},
}

func lifecycleStage(f lifecycleFacts) string {
	return firstMatch(lifecycleStages, f, StageRetention)
}
