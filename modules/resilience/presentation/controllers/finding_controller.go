package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type FindingController struct {
	app      application.Application
	findings *services.FindingService
	basePath string
}

func NewFindingController(app application.Application) application.Controller {
	return &FindingController{
		app:      app,
		findings: app.Service(services.FindingService{}).(*services.FindingService),
		basePath: "/api/findings",
	}
}

func (c *FindingController) Key() string {
	return c.basePath
}

func (c *FindingController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
}

func (c *FindingController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&findingListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &finding.FindParams{
		Q:        strings.TrimSpace(query.Q),
		Severity: finding.Severity(strings.ToLower(query.Severity)),
		Status:   finding.Status(query.Status),
		Overdue:  query.Overdue,
		Limit:    page.Limit,
		Offset:   page.Offset,
		SortBy:   httpapi.QuerySort(r),
	}
	if query.TestID != "" {
		id, err := uuid.Parse(query.TestID)
		if err != nil {
			httpapi.WriteServiceError(w, r, httpapi.ErrMalformedID)
			return
		}
		params.TestID = &id
	}
	items, total, err := c.findings.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	resp := toFindingResponses(items, c.findings.Now())
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(resp, total, page.Limit, page.Offset))
}

func (c *FindingController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.findings.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toFindingResponse(item, c.findings.Now()))
}

func (c *FindingController) Create(w http.ResponseWriter, r *http.Request) {
	var dto finding.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.findings.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toFindingResponse(item, c.findings.Now()))
}

func (c *FindingController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto finding.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.findings.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toFindingResponse(item, c.findings.Now()))
}

func (c *FindingController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.findings.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
