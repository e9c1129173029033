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
	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/esg/services"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubAssessments struct {
	items map[uuid.UUID]esgassessment.Assessment
}

func (s *stubAssessments) List(ctx context.Context, params *esgassessment.FindParams) ([]esgassessment.Assessment, error) {
	out := []esgassessment.Assessment{}
	for _, a := range s.items {
		if params != nil && params.Rating != "" && a.Rating() != params.Rating {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAssessments) Count(ctx context.Context, params *esgassessment.FindParams) (int64, error) {
	items, _ := s.List(ctx, params)
	return int64(len(items)), nil
}

func (s *stubAssessments) GetByID(ctx context.Context, id uuid.UUID) (esgassessment.Assessment, error) {
	a, ok := s.items[id]
	if !ok {
		return esgassessment.Assessment{}, esgassessment.ErrNotFound
	}
	return a, nil
}

func (s *stubAssessments) Latest(ctx context.Context) ([]esgassessment.Assessment, error) {
	return s.List(ctx, nil)
}

func (s *stubAssessments) Create(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	saved := esgassessment.New(a.ToDTO(), esgassessment.WithID(uuid.New()))
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubAssessments) Update(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	s.items[a.ID()] = a
	return a, nil
}

func (s *stubAssessments) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.items[id]; !ok {
		return esgassessment.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func serve(c *AssessmentController, role user.Role, method, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	c.Register(router)
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestAssessmentController_CRUD(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c := &AssessmentController{
		assessments: services.NewAssessmentService(&stubAssessments{items: map[uuid.UUID]esgassessment.Assessment{}}, nil),
		basePath:    "/api/esg",
	}

	w := serve(c, user.RoleViewer, http.MethodPost, "/api/esg/assessments", `{"environmental":80,"social":80,"governance":80,"assessed_at":"2025-01-31"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/esg/assessments",
		`{"environmental":80,"social":80,"governance":80,"assessed_at":"2025-01-31","weights":{"environmental":0.5,"social":0.5,"governance":0.5}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(c, user.RoleEditor, http.MethodPost, "/api/esg/assessments", `{"environmental":90,"social":80,"governance":70,"assessed_at":"2025-01-31"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created AssessmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "81", created.Overall.String())
	require.Equal(t, esgassessment.RatingA, created.Rating)
	require.Equal(t, "0.4", created.Weights.Environmental.String())

	w = serve(c, user.RoleEditor, http.MethodPut, "/api/esg/assessments/"+created.ID, `{"environmental":40,"social":40,"governance":40,"assessed_at":"2025-01-31"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"rating":"D"`)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/esg/assessments?rating=d", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/esg/ratings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ratings []RatingCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ratings))
	require.Len(t, ratings, len(esgassessment.Ratings))

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/esg/assessments?vendor_id=nope", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(c, user.RoleEditor, http.MethodDelete, "/api/esg/assessments/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = serve(c, user.RoleViewer, http.MethodGet, "/api/esg/assessments/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
