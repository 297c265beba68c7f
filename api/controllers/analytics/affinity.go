package analytics

import (
	"net/http"

	"github.com/angelmondragon/brewlytics/api/responses"
	"github.com/angelmondragon/brewlytics/api/validators"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/google/uuid"
)

// AffinityBatchRequest scores several products in one call.
type AffinityBatchRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=50,dive,uuid"`
}

func AffinityScore(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.CustomerAffinityScore(ctx, id, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func AffinityScores(service customeranalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body AffinityBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productIDs := make([]uuid.UUID, 0, len(body.ProductIDs))
		for _, raw := range body.ProductIDs {
			// validated above
			productIDs = append(productIDs, uuid.MustParse(raw))
		}

		results, err := service.CustomerAffinityScores(ctx, id, productIDs)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}
