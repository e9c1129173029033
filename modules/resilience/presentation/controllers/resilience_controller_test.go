package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubTests struct {
	items map[uuid.UUID]resiliencetest.Test
}

func (s *stubTests) List(ctx context.Context, params *resiliencetest.FindParams) ([]resiliencetest.Test, error) {
	out := []resiliencetest.Test{}
	for _, t := range s.items {
		if params != nil && params.Type != "" && t.Type() != params.Type {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTests) Count(ctx context.Context, params *resiliencetest.FindParams) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubTests) GetByID(ctx context.Context, id uuid.UUID) (resiliencetest.Test, error) {
	t, ok := s.items[id]
	if !ok {
		return resiliencetest.Test{}, resiliencetest.ErrNotFound
	}
	return t, nil
}

func (s *stubTests) Create(ctx context.Context, t resiliencetest.Test) (resiliencetest.Test, error) {
	saved := resiliencetest.New(t.ToDTO(), resiliencetest.WithID(uuid.New()))
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubTests) Update(ctx context.Context, t resiliencetest.Test) (resiliencetest.Test, error) {
	s.items[t.ID()] = t
	return t, nil
}

func (s *stubTests) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

type stubFindings struct {
	items map[uuid.UUID]finding.Finding
}

func (s *stubFindings) List(ctx context.Context, params *finding.FindParams) ([]finding.Finding, error) {
	out := []finding.Finding{}
	for _, f := range s.items {
		out = append(out, f)
	}
	return out, nil
}

func (s *stubFindings) Count(ctx context.Context, params *finding.FindParams) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubFindings) GetByID(ctx context.Context, id uuid.UUID) (finding.Finding, error) {
	f, ok := s.items[id]
	if !ok {
		return finding.Finding{}, finding.ErrNotFound
	}
	return f, nil
}

func (s *stubFindings) Create(ctx context.Context, f finding.Finding) (finding.Finding, error) {
	saved := finding.New(f.ToDTO(), finding.WithID(uuid.New()))
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubFindings) Update(ctx context.Context, f finding.Finding) (finding.Finding, error) {
	s.items[f.ID()] = f
	return f, nil
}

func (s *stubFindings) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func newTestControllers() (*TestController, *FindingController) {
	tests := &stubTests{items: map[uuid.UUID]resiliencetest.Test{}}
	findings := &stubFindings{items: map[uuid.UUID]finding.Finding{}}
	return &TestController{tests: services.NewTestService(tests), basePath: "/api/tests"},
		&FindingController{findings: services.NewFindingService(findings, tests), basePath: "/api/findings"}
}

func serve(role user.Role, method, target, body string, controllers ...interface{ Register(*mux.Router) }) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	for _, c := range controllers {
		c.Register(router)
	}
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestTestController_CompleteAndTLPTStatus(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	tc, _ := newTestControllers()

	w := serve(user.RoleViewer, http.MethodGet, "/api/tests:tlpt-status", "", tc)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"due_now":true`)

	w = serve(user.RoleEditor, http.MethodPost, "/api/tests", `{"name":"TIBER-EU","type":"tlpt","tester":"external"}`, tc)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "planned", created.Status)

	w = serve(user.RoleEditor, http.MethodPost, "/api/tests/"+created.ID+"/complete", "", tc)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "VALIDATION_EXECUTED_DATE_REQUIRED")

	w = serve(user.RoleEditor, http.MethodPost, "/api/tests/"+created.ID+"/complete", `{"executed_date":"2025-03-01"}`, tc)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"completed"`)

	w = serve(user.RoleViewer, http.MethodGet, "/api/tests:tlpt-status", "", tc)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"next_due":"2028-03-01T00:00:00Z"`)

	w = serve(user.RoleViewer, http.MethodDelete, "/api/tests/"+created.ID, "", tc)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestFindingController_CreateAndFilter(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	tc, fc := newTestControllers()

	w := serve(user.RoleEditor, http.MethodPost, "/api/tests", `{"name":"Pentest","type":"penetration","tester":"external"}`, tc)
	require.Equal(t, http.StatusCreated, w.Code)
	var test TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &test))

	w = serve(user.RoleEditor, http.MethodPost, "/api/findings",
		`{"test_id":"`+test.ID+`","title":"Stored XSS","severity":"high"}`, fc)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created FindingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.DueDate)
	require.False(t, created.Overdue)

	w = serve(user.RoleEditor, http.MethodPost, "/api/findings",
		`{"test_id":"`+uuid.NewString()+`","title":"Stored XSS","severity":"high"}`, fc)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_FINDING_TEST")

	w = serve(user.RoleViewer, http.MethodGet, "/api/findings?overdue=true&severity=HIGH&test_id="+test.ID, "", fc)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)

	w = serve(user.RoleViewer, http.MethodGet, "/api/findings?test_id=nope", "", fc)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
