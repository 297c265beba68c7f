package insights

const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
)

type actionFacts struct {
	engagementLevel string
	frequencyTier   string
	stage           string
}

type trigger struct {
	when   func(actionFacts) bool
	action Action
}

func onEngagement(level string) func(actionFacts) bool {
	return func(f actionFacts) bool { return f.engagementLevel == level }
}

func onStage(stage string) func(actionFacts) bool {
	return func(f actionFacts) bool { return f.stage == stage }
}

// Triggers are independent; every match is appended in this order.
var actionTriggers = []trigger{
	{
		when:   onEngagement("DISENGAGED"),
		action: Action{Type: "WIN_BACK_CAMPAIGN", Priority: PriorityHigh, Reason: "Customer is disengaged"},
	},
	{
		when:   onEngagement("LOW_ENGAGEMENT"),
		action: Action{Type: "ENGAGEMENT_BOOST", Priority: PriorityMedium, Reason: "Engagement is low"},
	},
	{
		when:   func(f actionFacts) bool { return f.frequencyTier == "DAILY" || f.frequencyTier == "WEEKLY" },
		action: Action{Type: "VIP_PROGRAM", Priority: PriorityHigh, Reason: "Orders frequently"},
	},
	{
		when:   onStage(StageAcquisition),
		action: Action{Type: "SECOND_PURCHASE_INCENTIVE", Priority: PriorityHigh, Reason: "Convert a first-time buyer"},
	},
	{
		when:   onStage(StageAtRisk),
		action: Action{Type: "REENGAGEMENT_CAMPAIGN", Priority: PriorityHigh, Reason: "Customer is at risk of churning"},
	},
	{
		when:   onStage(StageDormant),
		action: Action{Type: "REACTIVATION_CAMPAIGN", Priority: PriorityCritical, Reason: "No orders in over 90 days"},
	},
	{
		when:   onStage(StageLoyalty),
		action: Action{Type: "LOYALTY_REWARD", Priority: PriorityMedium, Reason: "Reward a loyal customer"},
	},
}

func recommendedActions(f actionFacts) []Action {
	out := []Action{}
	for _, t := range actionTriggers {
		if t.when(f) {
			out = append(out, t.action)
		}
	}
	return out
}
