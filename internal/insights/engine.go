package insights

import (
	"context"
	"fmt"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/internal/memo"
	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Engine composes the seven insight sections for a customer.
type Engine struct {
	repo  gateway.Repository
	memo  *memo.Memo
	clock clockwork.Clock
	logg  *logger.Logger
}

// NewEngine wires the insights engine.
func NewEngine(repo gateway.Repository, m *memo.Memo, clock clockwork.Clock, logg *logger.Logger) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{repo: repo, memo: m, clock: clock, logg: logg}, nil
}

// Generate returns the customer's insight bundle, cached for the memo TTL.
func (e *Engine) Generate(ctx context.Context, customerID uuid.UUID) (Bundle, error) {
	key := memo.Key(memo.KindInsights, customerID.String())
	return memo.Remember(ctx, e.memo, memo.KindInsights, key, func(ctx context.Context) (Bundle, error) {
		return e.compute(ctx, customerID)
	})
}

// ClearCache drops the cached bundle so the next Generate recomputes.
func (e *Engine) ClearCache(ctx context.Context, customerID uuid.UUID) error {
	return e.memo.Forget(ctx, memo.Key(memo.KindInsights, customerID.String()))
}

func (e *Engine) compute(ctx context.Context, customerID uuid.UUID) (Bundle, error) {
	snap, err := e.load(ctx, customerID)
	if err != nil {
		return Bundle{}, err
	}
	bundle := build(customerID, snap)

	if e.logg != nil {
		logCtx := e.logg.WithCustomerID(ctx, customerID.String())
		logCtx = e.logg.WithFields(logCtx, map[string]any{
			"orders":           len(snap.orders),
			"lifecycle_stage":  bundle.Lifecycle.Stage,
			"engagement_level": bundle.Engagement.Level,
		})
		e.logg.Info(logCtx, "insights.computed")
	}
	return bundle, nil
}

func (e *Engine) load(ctx context.Context, customerID uuid.UUID) (snapshot, error) {
	now := e.clock.Now()
	snap := snapshot{now: now}

	var err error
	if snap.orders, err = e.repo.CompletedOrders(ctx, customerID); err != nil {
		return snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed orders")
	}
	if snap.lines, err = e.repo.CompletedOrderLines(ctx, customerID); err != nil {
		return snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order lines")
	}
	if snap.marketAverage, err = e.repo.MarketAverageOrderValue(ctx, now.Add(-engagementWindowDays*day)); err != nil {
		return snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load market average order value")
	}
	if snap.availableProducts, err = e.repo.CountAvailableProducts(ctx); err != nil {
		return snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count available products")
	}
	return snap, nil
}

func build(customerID uuid.UUID, s snapshot) Bundle {
	behavior := purchaseBehavior(s)
	affinity := productAffinity(s)
	engaged := engagement(s)

	stage := lifecycleStage(lifecycleFacts{
		orders:         len(s.orders),
		daysSinceFirst: s.daysSinceFirst(),
		daysSinceLast:  s.daysSinceLast(),
		engagement:     engaged.Score,
	})

	return Bundle{
		CustomerID:       customerID,
		GeneratedAt:      s.now,
		PurchaseBehavior: behavior,
		ProductAffinity:  affinity,
		Engagement:       engaged,
		Satisfaction:     satisfaction(s),
		Predictions:      predictions(s, affinity.FavoriteProducts),
		Lifecycle: Lifecycle{
			Stage:               stage,
			TotalOrders:         len(s.orders),
			DaysSinceFirstOrder: s.daysSinceFirst(),
			DaysSinceLastOrder:  s.daysSinceLast(),
		},
		RecommendedActions: recommendedActions(actionFacts{
			engagementLevel: engaged.Level,
			frequencyTier:   behavior.FrequencyTier,
			stage:           stage,
		}),
	}
}
