package analytics

import (
	"net/http"

	"github.com/angelmondragon/brewlytics/api/responses"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/pkg/logger"
)

func ProductRecommendations(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := resolveLimit(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		recs, err := service.ProductRecommendations(ctx, id, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, recs)
	}
}

func CoffeeBeanRecommendations(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := resolveLimit(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		beans, err := service.CoffeeBeanRecommendations(ctx, id, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, beans)
	}
}

func ClearRecommendationCache(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := service.ClearRecommendationCache(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_id": id, "cleared": true})
	}
}
