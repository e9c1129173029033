package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type AlertController struct {
	app      application.Application
	alerts   *services.AlertService
	basePath string
}

func NewAlertController(app application.Application) application.Controller {
	return &AlertController{
		app:      app,
		alerts:   app.Service(services.AlertService{}).(*services.AlertService),
		basePath: "/api/alerts",
	}
}

func (c *AlertController) Key() string {
	return c.basePath
}

func (c *AlertController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/ack", c.Acknowledge).Methods(http.MethodPost)
}

func (c *AlertController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&alertListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &alert.FindParams{
		Unacknowledged: query.Unacknowledged,
		Kind:           alert.Kind(strings.TrimSpace(query.Kind)),
		Severity:       alert.Severity(strings.TrimSpace(query.Severity)),
		Limit:          page.Limit,
		Offset:         page.Offset,
	}
	if params.Kind != "" && !params.Kind.Valid() {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "unknown alert kind")
		return
	}
	if params.Severity != "" && !params.Severity.Valid() {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "unknown alert severity")
		return
	}
	items, total, err := c.alerts.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toAlertResponses(items), total, page.Limit, page.Offset))
}

func (c *AlertController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.alerts.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAlertResponse(item))
}

func (c *AlertController) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.alerts.Acknowledge(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAlertResponse(item))
}
