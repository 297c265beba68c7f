package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded to [min, max].
// Repeated keys are rejected rather than silently taking the first value.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	values := r.URL.Query()[key]
	if len(values) > 1 {
		return 0, queryError(key, "must be given at most once", nil)
	}
	raw := ""
	if len(values) == 1 {
		raw = strings.TrimSpace(values[0])
	}
	if raw == "" {
		return defaultVal, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "must be an integer", map[string]any{"value": raw})
	}
	if value < min || value > max {
		return 0, queryError(key, fmt.Sprintf("must be between %d and %d", min, max),
			map[string]any{"value": value, "min": min, "max": max})
	}
	return value, nil
}

func queryError(key, reason string, extra map[string]any) *pkgerrors.Error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("query parameter %q %s", key, reason)).
		WithDetails(details)
}
