package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(HTTPMiddleware())
	r.HandleFunc("/api/vendors/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/vendors/{id}", http.MethodGet, "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/vendors/42", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("/api/vendors/{id}", http.MethodGet, "404"))
	require.InDelta(t, 1, after-before, 0.0001)
}

func TestPrometheusController_Register(t *testing.T) {
	r := mux.NewRouter()
	c := NewPrometheusController("")
	require.Equal(t, "/debug/prometheus", c.Key())
	c.Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
