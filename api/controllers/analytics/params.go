package analytics

import (
	"net/http"

	"github.com/angelmondragon/brewlytics/api/validators"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/google/uuid"
)

const (
	customerIDParam = "customerId"
	productIDParam  = "productId"
)

func customerID(r *http.Request) (uuid.UUID, error) {
	return validators.ParseUUIDParam(r, customerIDParam)
}

func resolveLimit(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "limit", customeranalytics.DefaultLimit, 1, customeranalytics.MaxLimit)
}
