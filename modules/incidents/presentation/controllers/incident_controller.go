package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/incidents/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type IncidentController struct {
	app       application.Application
	incidents *services.IncidentService
	basePath  string
}

func NewIncidentController(app application.Application) application.Controller {
	return &IncidentController{
		app:       app,
		incidents: app.Service(services.IncidentService{}).(*services.IncidentService),
		basePath:  "/api/incidents",
	}
}

func (c *IncidentController) Key() string {
	return c.basePath
}

func (c *IncidentController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+":overdue", c.Overdue).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/classify", c.Classify).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/notifications/{kind:[a-z_]+}", c.Notify).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/close", c.Close).Methods(http.MethodPost)
}

func (c *IncidentController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&incidentListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &incident.FindParams{
		Q:      strings.TrimSpace(query.Q),
		Status: incident.Status(query.Status),
		Open:   query.Open,
		Limit:  page.Limit,
		Offset: page.Offset,
		SortBy: httpapi.QuerySort(r),
	}
	if query.Major != "" {
		major, err := strconv.ParseBool(query.Major)
		if err != nil {
			httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "major must be true or false")
			return
		}
		params.Major = &major
	}
	if query.VendorID != "" {
		id, err := uuid.Parse(query.VendorID)
		if err != nil {
			httpapi.WriteServiceError(w, r, httpapi.ErrMalformedID)
			return
		}
		params.VendorID = &id
	}
	items, total, err := c.incidents.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	resp := toIncidentResponses(items, c.incidents.Now())
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(resp, total, page.Limit, page.Offset))
}

func (c *IncidentController) Overdue(w http.ResponseWriter, r *http.Request) {
	now := c.incidents.Now()
	items, err := c.incidents.ListOverdue(r.Context(), now)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toIncidentResponses(items, now))
}

func (c *IncidentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.incidents.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toIncidentResponse(item, c.incidents.Now()))
}

func (c *IncidentController) Create(w http.ResponseWriter, r *http.Request) {
	var dto incident.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.incidents.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toIncidentResponse(item, c.incidents.Now()))
}

func (c *IncidentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto incident.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.incidents.Update(r.Context(), id, &dto)
	c.respond(w, r, item, err)
}

func (c *IncidentController) Classify(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.incidents.Classify(r.Context(), id)
	c.respond(w, r, item, err)
}

func (c *IncidentController) Notify(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	kind := incident.NotificationKind(mux.Vars(r)["kind"])
	item, err := c.incidents.RecordNotification(r.Context(), id, kind)
	c.respond(w, r, item, err)
}

func (c *IncidentController) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.incidents.Close(r.Context(), id)
	c.respond(w, r, item, err)
}

func (c *IncidentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.incidents.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *IncidentController) respond(w http.ResponseWriter, r *http.Request, item incident.Incident, err error) {
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toIncidentResponse(item, c.incidents.Now()))
}
