package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
)

type affinityBody struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=3,dive,uuid"`
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7", nil)
	got, err := ParseQueryInt(req, "limit", 5, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "limit", 5, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=abc", nil), "limit", 5, 1, 20)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=21", nil), "limit", 5, 1, 20)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "customerId", id.String()), "customerId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "customerId", "nope"), "customerId")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBody(t *testing.T) {
	body := `{"product_ids":["` + uuid.NewString() + `"]}`
	var dest affinityBody
	require.NoError(t, DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &dest))
	assert.Len(t, dest.ProductIDs, 1)

	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_ids":["bad"]}`)), &affinityBody{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`)), &affinityBody{})
	require.Error(t, err)
}

func TestParseQueryIntDetails(t *testing.T) {
	_, err := ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=0", nil), "limit", 5, 1, 20)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, `query parameter "limit" must be between 1 and 20`, typed.Message())
	assert.Equal(t, map[string]any{"field": "limit", "value": 0, "min": 1, "max": 20}, typed.Details())

	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=2&limit=3", nil), "limit", 5, 1, 20)
	require.Error(t, err)
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingInput(t *testing.T) {
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &affinityBody{})
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	body := `{"product_ids":["` + uuid.NewString() + `"]}{}`
	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &affinityBody{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	body := `{"product_ids":["` + strings.Repeat("a", MaxBodyBytes) + `"]}`
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &affinityBody{})
	require.Error(t, err)
	assert.Equal(t, "request body too large", pkgerrors.As(err).Message())
}
