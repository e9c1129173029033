package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/intl"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{serrors.NewError("VENDOR_NOT_FOUND", "", ""), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", serrors.NewError("CONTRACT_REFERENCE_CONFLICT", "", "")), http.StatusConflict},
		{serrors.NewError("AUTHZ_FORBIDDEN", "", ""), http.StatusForbidden},
		{serrors.NewError("UNAUTHENTICATED", "", ""), http.StatusUnauthorized},
		{serrors.NewError("INVALID_LEI", "", ""), http.StatusUnprocessableEntity},
		{serrors.ValidationErrors{"Name": serrors.NewFieldRequiredError("Name", "")}, http.StatusUnprocessableEntity},
		{serrors.NewError("ONBOARDING_STEP_OUT_OF_ORDER", "", ""), http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestWriteServiceError_Validation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/vendors", nil)
	r = r.WithContext(intl.WithLocale(composables.WithRequestID(r.Context(), "req-1"), language.German))
	w := httptest.NewRecorder()

	WriteServiceError(w, r, serrors.ValidationErrors{"Name": serrors.NewFieldRequiredError("Name", "")})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "VALIDATION_FAILED", env.Code)
	require.Equal(t, "Name is required", env.Fields["Name"])
	require.Equal(t, "req-1", env.Meta["request_id"])
	require.Equal(t, "de", w.Header().Get("Content-Language"))
}

func TestWriteServiceError_HidesInternalErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/vendors", nil).WithContext(context.Background())
	w := httptest.NewRecorder()

	WriteServiceErrorWithCurrent(w, r, errors.New("pq: connection refused"), map[string]any{"name": "Acme"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "en", w.Header().Get("Content-Language"))
	require.NotContains(t, w.Body.String(), "connection refused")
	require.Contains(t, w.Body.String(), `"current":{"name":"Acme"}`)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	require.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	require.Equal(t, "a", dst.Name)
}
