package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/services"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubAlerts struct {
	items map[uuid.UUID]alert.Alert
}

func (s *stubAlerts) List(ctx context.Context, params *alert.FindParams) ([]alert.Alert, error) {
	out := []alert.Alert{}
	for _, a := range s.items {
		if params != nil && params.Unacknowledged && a.IsAcknowledged() {
			continue
		}
		if params != nil && params.Kind != "" && a.Kind() != params.Kind {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAlerts) Count(ctx context.Context, params *alert.FindParams) (int64, error) {
	items, _ := s.List(ctx, params)
	return int64(len(items)), nil
}

func (s *stubAlerts) GetByID(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	a, ok := s.items[id]
	if !ok {
		return alert.Alert{}, alert.ErrNotFound
	}
	return a, nil
}

func (s *stubAlerts) Insert(ctx context.Context, a alert.Alert) (alert.Alert, bool, error) {
	s.items[a.ID()] = a
	return a, true, nil
}

func (s *stubAlerts) Acknowledge(ctx context.Context, a alert.Alert) (alert.Alert, error) {
	s.items[a.ID()] = a
	return a, nil
}

func serve(c *AlertController, role user.Role, method, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	c.Register(router)
	r := httptest.NewRequest(method, target, nil)
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestAlertController_ListAndAcknowledge(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	open := alert.New(alert.Notice{
		Kind:      alert.KindFindingOverdue,
		Severity:  alert.SeverityCritical,
		Message:   "Finding overdue",
		DedupeKey: "finding_overdue:1",
	}, alert.WithID(uuid.New()), alert.WithCreatedAt(time.Now()))
	seen := alert.New(alert.Notice{
		Kind:      alert.KindTLPTDue,
		Severity:  alert.SeverityWarning,
		Message:   "TLPT due",
		DedupeKey: "tlpt_due:2026-01-01",
	}, alert.WithID(uuid.New()), alert.WithAcknowledgement(time.Now(), "someone"))
	repo := &stubAlerts{items: map[uuid.UUID]alert.Alert{open.ID(): open, seen.ID(): seen}}
	c := &AlertController{alerts: services.NewAlertService(repo, nil), basePath: "/api/alerts"}

	w := serve(c, user.RoleViewer, http.MethodGet, "/api/alerts?unacknowledged=true")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page httpapi.Page[AlertResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, open.ID().String(), page.Items[0].ID)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/alerts?kind=nope")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(c, user.RoleViewer, http.MethodPost, "/api/alerts/"+open.ID().String()+"/ack")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/alerts/"+open.ID().String()+"/ack")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var acked AlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acked))
	require.NotNil(t, acked.AcknowledgedAt)
	require.Equal(t, "user-editor", acked.AcknowledgedBy)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/alerts?unacknowledged=true")
	require.Contains(t, w.Body.String(), `"total":0`)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/alerts/"+uuid.New().String()+"/ack")
	require.Equal(t, http.StatusNotFound, w.Code)
}
