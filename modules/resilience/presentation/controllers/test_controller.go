package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type TestController struct {
	app      application.Application
	tests    *services.TestService
	basePath string
}

func NewTestController(app application.Application) application.Controller {
	return &TestController{
		app:      app,
		tests:    app.Service(services.TestService{}).(*services.TestService),
		basePath: "/api/tests",
	}
}

func (c *TestController) Key() string {
	return c.basePath
}

func (c *TestController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+":tlpt-status", c.TLPTStatus).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/complete", c.Complete).Methods(http.MethodPost)
}

func (c *TestController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&testListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &resiliencetest.FindParams{
		Q:      strings.TrimSpace(query.Q),
		Type:   resiliencetest.Type(query.Type),
		Status: resiliencetest.Status(query.Status),
		Limit:  page.Limit,
		Offset: page.Offset,
		SortBy: httpapi.QuerySort(r),
	}
	items, total, err := c.tests.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toTestResponses(items), total, page.Limit, page.Offset))
}

func (c *TestController) TLPTStatus(w http.ResponseWriter, r *http.Request) {
	status, err := c.tests.TLPTStatus(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, status)
}

func (c *TestController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.tests.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTestResponse(item))
}

func (c *TestController) Create(w http.ResponseWriter, r *http.Request) {
	var dto resiliencetest.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.tests.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toTestResponse(item))
}

func (c *TestController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto resiliencetest.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.tests.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTestResponse(item))
}

// Complete accepts an optional {"executed_date": "YYYY-MM-DD"} body.
func (c *TestController) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var executed *time.Time
	if r.ContentLength > 0 {
		var body completeRequest
		if !httpapi.ReadJSON(w, r, &body) {
			return
		}
		if body.ExecutedDate != "" {
			d, err := time.Parse(resiliencetest.DateLayout, body.ExecutedDate)
			if err != nil {
				httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "INVALID_EXECUTED_DATE", "executed_date must be YYYY-MM-DD")
				return
			}
			executed = &d
		}
	}
	item, err := c.tests.Complete(r.Context(), id, executed)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTestResponse(item))
}

func (c *TestController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.tests.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
