package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/incidents/services"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubIncidents struct {
	items map[uuid.UUID]incident.Incident
}

func (s *stubIncidents) List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, error) {
	out := []incident.Incident{}
	for _, i := range s.items {
		out = append(out, i)
	}
	return out, nil
}

func (s *stubIncidents) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubIncidents) GetByID(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	i, ok := s.items[id]
	if !ok {
		return incident.Incident{}, incident.ErrNotFound
	}
	return i, nil
}

func (s *stubIncidents) Create(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	saved := incident.New(i.ToDTO(), incident.WithID(uuid.New()), incident.WithTimestamps(time.Now(), time.Now()))
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubIncidents) Update(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	s.items[i.ID()] = i
	return i, nil
}

func (s *stubIncidents) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func newTestController() *IncidentController {
	return &IncidentController{
		incidents: services.NewIncidentService(&stubIncidents{items: map[uuid.UUID]incident.Incident{}}, nil),
		basePath:  "/api/incidents",
	}
}

func serve(c *IncidentController, role user.Role, method, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	c.Register(router)
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func incidentJSON(detected time.Time) string {
	return `{
		"reference": "INC-2025-04",
		"title": "Card processing outage",
		"detected_at": "` + detected.UTC().Format(time.RFC3339) + `",
		"criteria": {
			"critical_services_affected": true,
			"clients_affected": 150000,
			"downtime_hours": 3
		}
	}`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) IncidentResponse {
	t.Helper()
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestIncidentController_ReportingFlow(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c := newTestController()

	w := serve(c, user.RoleEditor, http.MethodPost, "/api/incidents", incidentJSON(time.Now().Add(-time.Hour)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	require.Equal(t, incident.StatusDetected, created.Status)
	require.Empty(t, created.Deadlines)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents/"+created.ID+"/classify", "")
	require.Equal(t, http.StatusOK, w.Code)
	classified := decode(t, w)
	require.True(t, classified.Major)
	require.ElementsMatch(t, []incident.Criterion{incident.CriterionClients, incident.CriterionDuration}, classified.CriteriaMet)
	require.Len(t, classified.Deadlines, 3)
	require.NotNil(t, classified.Deadlines[0].Due)
	require.Nil(t, classified.Deadlines[1].Due)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents/"+created.ID+"/notifications/intermediate", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "INCIDENT_NOTIFICATION_ORDER_CONFLICT")

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents/"+created.ID+"/notifications/weekly", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents/"+created.ID+"/notifications/initial", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, incident.StatusInitialReported, decode(t, w).Status)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents/"+created.ID+"/close", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "INCIDENT_FINAL_REPORT_CONFLICT")

	w = serve(c, user.RoleViewer, http.MethodPost, "/api/incidents/"+created.ID+"/classify", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestIncidentController_ListAndValidation(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c := newTestController()

	w := serve(c, user.RoleEditor, http.MethodPost, "/api/incidents", `{"reference": "INC-1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "Title")

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/incidents", incidentJSON(time.Now()))
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/incidents?open=true&major=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/incidents?major=maybe", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/incidents:overdue", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}
