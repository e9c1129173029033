package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/pkg/itf"
)

func serveHealth(t *testing.T, tx *itf.StubTx) (int, healthResponse) {
	t.Helper()
	router := mux.NewRouter()
	NewHealthController(tx).Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthController_Healthy(t *testing.T) {
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "compliance_outbox") {
				return itf.Row{Values: []any{int64(3), int64(0), nil}}
			}
			return itf.Row{Values: []any{1}}
		},
	}
	code, body := serveHealth(t, tx)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, healthStatusHealthy, body.Status)
	require.EqualValues(t, 3, body.Checks["outbox"].Details["pending"])
}

func TestHealthController_DegradedBacklog(t *testing.T) {
	old := time.Now().Add(-time.Hour)
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "compliance_outbox") {
				return itf.Row{Values: []any{int64(10), int64(2), old}}
			}
			return itf.Row{Values: []any{1}}
		},
	}
	code, body := serveHealth(t, tx)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, healthStatusDegraded, body.Status)
	require.Equal(t, healthStatusDegraded, body.Checks["outbox"].Status)
}

func TestHealthController_DatabaseDown(t *testing.T) {
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Err: errors.New("connection refused")}
		},
	}
	code, body := serveHealth(t, tx)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, healthStatusDown, body.Status)
	require.Contains(t, body.Checks["database"].Error, "connection refused")
}
