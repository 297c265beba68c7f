package analytics

import (
	"context"
	"net/http"

	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/internal/insights"
	"github.com/angelmondragon/brewlytics/internal/recommendations"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type testAnalyticsService struct {
	customerID uuid.UUID
	limit      int
	productIDs []uuid.UUID
	cleared    []string
	bundle     insights.Bundle
	recs       []recommendations.ProductRecommendation
	err        error
}

var _ customeranalytics.Service = (*testAnalyticsService)(nil)

func (s *testAnalyticsService) ProductRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.ProductRecommendation, error) {
	s.customerID, s.limit = customerID, limit
	return s.recs, s.err
}

func (s *testAnalyticsService) CoffeeBeanRecommendations(ctx context.Context, customerID uuid.UUID, limit int) ([]recommendations.BeanRecommendation, error) {
	s.customerID, s.limit = customerID, limit
	return []recommendations.BeanRecommendation{}, s.err
}

func (s *testAnalyticsService) CustomerAffinityScore(ctx context.Context, customerID, productID uuid.UUID) (customeranalytics.AffinityResult, error) {
	s.customerID = customerID
	s.productIDs = []uuid.UUID{productID}
	return customeranalytics.AffinityResult{CustomerID: customerID, ProductID: productID, Score: 42.5}, s.err
}

func (s *testAnalyticsService) CustomerAffinityScores(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) ([]customeranalytics.AffinityResult, error) {
	s.customerID = customerID
	s.productIDs = productIDs
	out := make([]customeranalytics.AffinityResult, 0, len(productIDs))
	for _, id := range productIDs {
		out = append(out, customeranalytics.AffinityResult{CustomerID: customerID, ProductID: id})
	}
	return out, s.err
}

func (s *testAnalyticsService) CustomerInsights(ctx context.Context, customerID uuid.UUID) (insights.Bundle, error) {
	s.customerID = customerID
	return s.bundle, s.err
}

func (s *testAnalyticsService) ClearCustomerInsightsCache(ctx context.Context, customerID uuid.UUID) error {
	s.customerID = customerID
	s.cleared = append(s.cleared, "insights")
	return s.err
}

func (s *testAnalyticsService) ClearRecommendationCache(ctx context.Context, customerID uuid.UUID) error {
	s.customerID = customerID
	s.cleared = append(s.cleared, "recommendations")
	return s.err
}

// mount serves handler under the production path pattern so chi resolves params.
func mount(method, pattern string, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	return r
}
