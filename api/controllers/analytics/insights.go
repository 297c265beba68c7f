package analytics

import (
	"net/http"

	"github.com/angelmondragon/brewlytics/api/responses"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/pkg/logger"
)

func CustomerInsights(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := service.CustomerInsights(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bundle)
	}
}

func ClearInsightsCache(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := service.ClearCustomerInsightsCache(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_id": id, "cleared": true})
	}
}
