package recommendations

import (
	"context"
	"fmt"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/internal/memo"
	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Engine produces product and coffee-bean recommendations from order history.
type Engine struct {
	repo  gateway.Repository
	memo  *memo.Memo
	clock clockwork.Clock
	logg  *logger.Logger
}

// NewEngine wires the recommendation engine.
func NewEngine(repo gateway.Repository, m *memo.Memo, clock clockwork.Clock, logg *logger.Logger) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{repo: repo, memo: m, clock: clock, logg: logg}, nil
}

// ProductRecommendations returns up to limit products ranked by the weighted
// merge of the collaborative, content, popularity and time-context strategies.
func (e *Engine) ProductRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]ProductRecommendation, error) {
	key := memo.Key(memo.KindProductRecommendations, customerID.String())
	all, err := memo.Remember(ctx, e.memo, memo.KindProductRecommendations, key, func(ctx context.Context) ([]ProductRecommendation, error) {
		return e.computeProductRecommendations(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}
	return truncate(all, limit), nil
}

// CoffeeBeanRecommendations returns up to limit in-stock beans scored by the
// customer's taste profile and purchase history.
func (e *Engine) CoffeeBeanRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]BeanRecommendation, error) {
	key := memo.Key(memo.KindBeanRecommendations, customerID.String())
	all, err := memo.Remember(ctx, e.memo, memo.KindBeanRecommendations, key, func(ctx context.Context) ([]BeanRecommendation, error) {
		return e.computeBeanRecommendations(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}
	return truncate(all, limit), nil
}

// AffinityScore computes the customer's affinity for productID. Not cached.
func (e *Engine) AffinityScore(ctx context.Context, customerID, productID uuid.UUID) (float64, error) {
	stats, err := e.repo.ProductPurchaseStats(ctx, customerID, productID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product purchase stats")
	}
	return affinity(stats, e.clock.Now()), nil
}

// ClearCache drops both cached recommendation lists for the customer.
func (e *Engine) ClearCache(ctx context.Context, customerID uuid.UUID) error {
	id := customerID.String()
	return multierr.Combine(
		e.memo.Forget(ctx, memo.Key(memo.KindProductRecommendations, id)),
		e.memo.Forget(ctx, memo.Key(memo.KindBeanRecommendations, id)),
	)
}

func (e *Engine) computeProductRecommendations(ctx context.Context, customerID uuid.UUID) ([]ProductRecommendation, error) {
	now := e.clock.Now()

	lines, err := e.repo.CompletedOrderLines(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order history")
	}
	h := buildHistory(lines)

	sources := []source{
		{name: SourceCollaborative, weight: sourceWeights[SourceCollaborative]},
		{name: SourceContent, weight: sourceWeights[SourceContent]},
		{name: SourcePopularity, weight: sourceWeights[SourcePopularity]},
		{name: SourceTimeContext, weight: sourceWeights[SourceTimeContext]},
	}
	strategies := []func(context.Context) ([]candidate, error){
		func(ctx context.Context) ([]candidate, error) { return e.collaborative(ctx, customerID, h) },
		func(ctx context.Context) ([]candidate, error) { return e.contentBased(ctx, h) },
		func(ctx context.Context) ([]candidate, error) { return e.popularity(ctx, now) },
		func(ctx context.Context) ([]candidate, error) { return e.timeContext(ctx, now) },
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i, run := range strategies {
		eg.Go(func() error {
			candidates, err := run(egCtx)
			if err != nil {
				return err
			}
			sources[i].candidates = candidates
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "run recommendation strategies")
	}

	ranked := merge(sources)
	if len(ranked) > MaxCandidates {
		ranked = ranked[:MaxCandidates]
	}

	ids := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ProductID)
	}
	products, err := e.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recommended products")
	}
	byID := make(map[uuid.UUID]gateway.CatalogProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]ProductRecommendation, 0, len(ranked))
	for _, r := range ranked {
		product, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		out = append(out, ProductRecommendation{
			Product: product,
			Score:   round2(r.Score),
			Reasons: r.Reasons,
			Sources: r.Sources,
		})
	}

	e.logComputed(ctx, "recommendations.products_computed", customerID, map[string]any{
		"candidates":      len(ranked),
		"recommendations": len(out),
	})
	return out, nil
}

func (e *Engine) computeBeanRecommendations(ctx context.Context, customerID uuid.UUID) ([]BeanRecommendation, error) {
	beans, err := e.repo.BeansInStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee beans")
	}
	profile, err := e.repo.TasteProfile(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load taste profile")
	}
	origins, err := e.repo.PurchasedBeanOrigins(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchased origins")
	}

	out := newBeanScorer(profile, origins).rank(beans)
	e.logComputed(ctx, "recommendations.beans_computed", customerID, map[string]any{
		"beans_in_stock":  len(beans),
		"recommendations": len(out),
		"taste_profile":   profile != nil,
	})
	return out, nil
}

func (e *Engine) logComputed(ctx context.Context, msg string, customerID uuid.UUID, fields map[string]any) {
	if e.logg == nil {
		return
	}
	ctx = e.logg.WithCustomerID(ctx, customerID.String())
	e.logg.Info(e.logg.WithFields(ctx, fields), msg)
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
