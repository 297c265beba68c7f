package insights

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

// Bundle is the full per-customer insight snapshot.
type Bundle struct {
	CustomerID         uuid.UUID        `json:"customer_id"`
	GeneratedAt        time.Time        `json:"generated_at"`
	PurchaseBehavior   PurchaseBehavior `json:"purchase_behavior"`
	ProductAffinity    ProductAffinity  `json:"product_affinity"`
	Engagement         Engagement       `json:"engagement"`
	Satisfaction       Satisfaction     `json:"satisfaction"`
	Predictions        Predictions      `json:"predictions"`
	Lifecycle          Lifecycle        `json:"lifecycle"`
	RecommendedActions []Action         `json:"recommended_actions"`
}

type PurchaseBehavior struct {
	Status                   string  `json:"status"`
	TotalOrders              int     `json:"total_orders"`
	TotalSpent               float64 `json:"total_spent"`
	AverageOrderValue        float64 `json:"average_order_value"`
	OrdersPerMonth           float64 `json:"orders_per_month"`
	FrequencyTier            string  `json:"frequency_tier,omitempty"`
	SpendingTier             string  `json:"spending_tier,omitempty"`
	SpendingTrend            string  `json:"spending_trend,omitempty"`
	PreferredTimeOfDay       string  `json:"preferred_time_of_day,omitempty"`
	PreferredDayType         string  `json:"preferred_day_type,omitempty"`
	MostFrequentDay          string  `json:"most_frequent_day,omitempty"`
	AverageDaysBetweenOrders float64 `json:"average_days_between_orders"`
	DaysSinceFirstOrder      int     `json:"days_since_first_order"`
	DaysSinceLastOrder       int     `json:"days_since_last_order"`
}

type ProductAffinity struct {
	FavoriteCategories []CategoryAffinity `json:"favorite_categories"`
	FavoriteProducts   []ProductScore     `json:"favorite_products"`
	FrequentPairs      []ProductPair      `json:"frequently_bought_together"`
	TasteProfile       TasteProfile       `json:"taste_profile"`
}

type CategoryAffinity struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Orders     int       `json:"orders"`
	TotalSpent float64   `json:"total_spent"`
	Score      float64   `json:"score"`
}

type ProductScore struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Orders    int       `json:"orders"`
	Quantity  int       `json:"quantity"`
	Score     float64   `json:"score"`
}

type ProductPair struct {
	Products    [2]string    `json:"products"`
	ProductIDs  [2]uuid.UUID `json:"product_ids"`
	Count       int          `json:"count"`
	StrengthPct float64      `json:"strength_pct"`
}

type TasteProfile struct {
	FlavorCounts   map[string]int `json:"flavor_counts"`
	RoastCounts    map[string]int `json:"roast_counts"`
	DominantFlavor string         `json:"dominant_flavor,omitempty"`
	PreferredRoast string         `json:"preferred_roast,omitempty"`
	Classification string         `json:"classification"`
}

type Engagement struct {
	Score          float64              `json:"score"`
	Level          string               `json:"level"`
	Components     EngagementComponents `json:"components"`
	WindowDays     int                  `json:"window_days"`
	OrdersInWindow int                  `json:"orders_in_window"`
}

type EngagementComponents struct {
	Frequency   float64 `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	Recency     float64 `json:"recency"`
	Diversity   float64 `json:"diversity"`
	Interaction float64 `json:"interaction"`
}

type Satisfaction struct {
	Status  string   `json:"status"`
	Score   int      `json:"score"`
	Level   string   `json:"level,omitempty"`
	Signals []string `json:"signals"`
}

type Predictions struct {
	Status                 string     `json:"status"`
	AverageIntervalDays    float64    `json:"average_interval_days"`
	IntervalStdDevDays     float64    `json:"interval_std_dev_days"`
	PredictedNextOrderDate *time.Time `json:"predicted_next_order_date,omitempty"`
	DaysUntilNextOrder     int        `json:"days_until_next_order"`
	Overdue                bool       `json:"overdue"`
	Confidence             string     `json:"confidence,omitempty"`
	PredictedOrderValue    float64    `json:"predicted_order_value"`
	LikelyProducts         []string   `json:"likely_products"`
}

type Lifecycle struct {
	Stage               string `json:"stage"`
	TotalOrders         int    `json:"total_orders"`
	DaysSinceFirstOrder int    `json:"days_since_first_order"`
	DaysSinceLastOrder  int    `json:"days_since_last_order"`
}

type Action struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}
