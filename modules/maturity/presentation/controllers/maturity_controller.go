package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type MaturityController struct {
	app      application.Application
	maturity *services.MaturityService
	basePath string
}

func NewMaturityController(app application.Application) application.Controller {
	return &MaturityController{
		app:      app,
		maturity: app.Service(services.MaturityService{}).(*services.MaturityService),
		basePath: "/api/maturity",
	}
}

func (c *MaturityController) Key() string {
	return c.basePath
}

func (c *MaturityController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/catalog", c.Catalog).Methods(http.MethodGet)
	router.HandleFunc("/assessments", c.ListAssessments).Methods(http.MethodGet)
	router.HandleFunc("/snapshots", c.ListSnapshots).Methods(http.MethodGet)
	router.HandleFunc("/trend", c.Trend).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/assessments/{requirement:[A-Za-z0-9.-]+}", c.UpsertAssessment).Methods(http.MethodPut)
	writeRouter.HandleFunc("/snapshots", c.TakeSnapshot).Methods(http.MethodPost)
}

func (c *MaturityController) Catalog(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteJSON(w, http.StatusOK, c.maturity.Catalog())
}

func (c *MaturityController) ListAssessments(w http.ResponseWriter, r *http.Request) {
	items, err := c.maturity.ListAssessments(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssessmentResponses(c.maturity.Catalog(), items))
}

func (c *MaturityController) UpsertAssessment(w http.ResponseWriter, r *http.Request) {
	requirementID := mux.Vars(r)["requirement"]
	var dto assessment.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	saved, err := c.maturity.UpsertAssessment(r.Context(), requirementID, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	req, _ := c.maturity.Catalog().Requirement(requirementID)
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssessmentResponse(req, &saved))
}

func (c *MaturityController) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	s, err := c.maturity.TakeSnapshot(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toSnapshotResponse(s))
}

func (c *MaturityController) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	items, err := c.maturity.ListSnapshots(r.Context(), httpapi.QueryInt(r, "limit", 12))
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSnapshotResponses(items))
}

func (c *MaturityController) Trend(w http.ResponseWriter, r *http.Request) {
	trend, err := c.maturity.Trend(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, trend)
}
