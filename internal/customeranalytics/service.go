package customeranalytics

import (
	"context"
	"fmt"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/internal/insights"
	"github.com/angelmondragon/brewlytics/internal/recommendations"
	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 5
	MaxLimit     = recommendations.MaxCandidates
)

// Service exposes the customer analytics entry points.
type Service interface {
	// ProductRecommendations returns up to limit merged product recommendations.
	ProductRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.ProductRecommendation, error)
	// CoffeeBeanRecommendations returns up to limit in-stock beans scored against the taste profile.
	CoffeeBeanRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.BeanRecommendation, error)
	// CustomerAffinityScore returns the 0-100 affinity of a customer for one product.
	CustomerAffinityScore(ctx context.Context, customerID, productID uuid.UUID) (AffinityResult, error)
	// CustomerAffinityScores scores several products at once, in request order.
	CustomerAffinityScores(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) ([]AffinityResult, error)
	// CustomerInsights returns the full insight bundle.
	CustomerInsights(ctx context.Context, customerID uuid.UUID) (insights.Bundle, error)
	ClearCustomerInsightsCache(ctx context.Context, customerID uuid.UUID) error
	ClearRecommendationCache(ctx context.Context, customerID uuid.UUID) error
}

// AffinityResult is one product's affinity score for a customer.
type AffinityResult struct {
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Score      float64   `json:"score"`
}

type service struct {
	repo     gateway.Repository
	recs     *recommendations.Engine
	insights *insights.Engine
	logg     *logger.Logger
}

// NewService wires the facade over the gateway and both engines.
func NewService(repo gateway.Repository, recs *recommendations.Engine, insightsEngine *insights.Engine, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if recs == nil {
		return nil, fmt.Errorf("recommendation engine required")
	}
	if insightsEngine == nil {
		return nil, fmt.Errorf("insights engine required")
	}
	return &service{repo: repo, recs: recs, insights: insightsEngine, logg: logg}, nil
}

// ClampLimit maps a requested limit into [1, MaxLimit]; non-positive means DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (s *service) ProductRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.ProductRecommendation, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.recs.ProductRecommendations(ctx, customerID, ClampLimit(limit))
}

func (s *service) CoffeeBeanRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.BeanRecommendation, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.recs.CoffeeBeanRecommendations(ctx, customerID, ClampLimit(limit))
}

func (s *service) CustomerAffinityScore(ctx context.Context, customerID, productID uuid.UUID) (AffinityResult, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return AffinityResult{}, err
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return AffinityResult{}, err
	}
	score, err := s.recs.AffinityScore(ctx, customerID, productID)
	if err != nil {
		return AffinityResult{}, err
	}
	return AffinityResult{CustomerID: customerID, ProductID: productID, Score: score}, nil
}

func (s *service) CustomerAffinityScores(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) ([]AffinityResult, error) {
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	}
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	out := make([]AffinityResult, 0, len(productIDs))
	for _, productID := range productIDs {
		if err := s.ensureProduct(ctx, productID); err != nil {
			return nil, err
		}
		score, err := s.recs.AffinityScore(ctx, customerID, productID)
		if err != nil {
			return nil, err
		}
		out = append(out, AffinityResult{CustomerID: customerID, ProductID: productID, Score: score})
	}
	return out, nil
}

func (s *service) CustomerInsights(ctx context.Context, customerID uuid.UUID) (insights.Bundle, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return insights.Bundle{}, err
	}
	return s.insights.Generate(ctx, customerID)
}

func (s *service) ClearCustomerInsightsCache(ctx context.Context, customerID uuid.UUID) error {
	if err := s.insights.ClearCache(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear insights cache")
	}
	s.logCleared(ctx, customerID, "insights")
	return nil
}

func (s *service) ClearRecommendationCache(ctx context.Context, customerID uuid.UUID) error {
	if err := s.recs.ClearCache(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear recommendation cache")
	}
	s.logCleared(ctx, customerID, "recommendations")
	return nil
}

func (s *service) ensureCustomer(ctx context.Context, customerID uuid.UUID) error {
	ok, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found").
			WithDetails(map[string]any{"customer_id": customerID.String()})
	}
	return nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID.String()})
	}
	return nil
}

func (s *service) logCleared(ctx context.Context, customerID uuid.UUID, scope string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithCustomerID(ctx, customerID.String())
	ctx = s.logg.WithField(ctx, "scope", scope)
	s.logg.Info(ctx, "cache.cleared")
}
