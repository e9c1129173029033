package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	gridservices "github.com/iota-uz/dora-register/modules/grid/services"
	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/services"
	registerservices "github.com/iota-uz/dora-register/modules/register/services"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type memoryActionLogs struct {
	items []*actionlog.ActionLog
}

func (m *memoryActionLogs) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	return m.items, nil
}

func (m *memoryActionLogs) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memoryActionLogs) Create(ctx context.Context, log *actionlog.ActionLog) error {
	m.items = append(m.items, log)
	return nil
}

func TestActionLogMiddleware_RecordsSuccessfulMutations(t *testing.T) {
	repo := &memoryActionLogs{}
	mw := ActionLogMiddleware(services.NewLogsService(repo), true)

	status := http.StatusCreated
	router := mux.NewRouter()
	router.Use(mw)
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	ctx := itf.NewTestContext().AsRole(user.RoleEditor).WithTx(&itf.StubTx{}).Context()
	do := func(method, target string) {
		r := httptest.NewRequest(method, target, nil).WithContext(ctx)
		router.ServeHTTP(httptest.NewRecorder(), r)
	}

	do(http.MethodPost, "/api/vendors")
	do(http.MethodGet, "/api/vendors")
	do(http.MethodPost, "/metrics")
	status = http.StatusUnprocessableEntity
	do(http.MethodPut, "/api/vendors/1")

	require.Len(t, repo.items, 1)
	entry := repo.items[0]
	require.Equal(t, "POST", entry.Method)
	require.Equal(t, "/api/vendors", entry.Path)
	require.Equal(t, "user-editor", entry.UserID)
	require.Equal(t, actionlog.KindRequest, entry.Kind)
	require.Equal(t, "127.0.0.1", entry.IP)
	require.Equal(t, "itf", entry.UserAgent)
}

func TestActionLogMiddleware_Disabled(t *testing.T) {
	repo := &memoryActionLogs{}
	mw := ActionLogMiddleware(services.NewLogsService(repo), false)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := httptest.NewRequest(http.MethodPost, "/api/vendors", nil)
	r = r.WithContext(itf.NewTestContext().AsRole(user.RoleEditor).WithTx(&itf.StubTx{}).Context())
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Empty(t, repo.items)
}

func TestAuditEventsHandler(t *testing.T) {
	repo := &memoryActionLogs{}
	logger, hook := test.NewNullLogger()
	base := func() context.Context { return itf.NewTestContext().WithTx(&itf.StubTx{}).Context() }
	h := NewAuditEventsHandler(services.NewLogsService(repo), logger, base)

	tenantID, recordID := uuid.New(), uuid.New()
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	h.OnCellEdited(&gridservices.CellEditedEvent{
		TenantID: tenantID,
		ActorID:  "user-editor",
		Action:   gridservices.ActionUndo,
		Resource: "vendors",
		RecordID: recordID,
		Column:   "name",
		Before:   json.RawMessage(`{"name":"b"}`),
		After:    json.RawMessage(`{"name":"a"}`),
		At:       at,
	})
	h.OnRegisterExported(&registerservices.ExportedEvent{
		TenantID:     tenantID,
		ActorID:      "user-admin",
		Format:       "xlsx",
		Filename:     "roi.xlsx",
		Rows:         12,
		Completeness: "0.75",
		ExportedAt:   at,
	})

	require.Empty(t, hook.AllEntries())
	require.Len(t, repo.items, 2)

	edit := repo.items[0]
	require.Equal(t, actionlog.KindGridEdit, edit.Kind)
	require.Equal(t, "UNDO", edit.Method)
	require.Equal(t, "/api/grid/vendors/"+recordID.String()+"/name", edit.Path)
	require.JSONEq(t, `{"name":"b"}`, string(edit.Before))
	require.Equal(t, at, edit.CreatedAt)

	export := repo.items[1]
	require.Equal(t, actionlog.KindExport, export.Kind)
	require.Nil(t, export.Before)
	require.JSONEq(t, `{"format":"xlsx","filename":"roi.xlsx","rows":12,"errors":0,"completeness":"0.75"}`, string(export.After))
}
