package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

const idPattern = "[0-9a-fA-F-]{36}"

type DashboardController struct {
	app        application.Application
	dashboards *services.DashboardService
	basePath   string
}

func NewDashboardController(app application.Application) application.Controller {
	return &DashboardController{
		app:        app,
		dashboards: app.Service(services.DashboardService{}).(*services.DashboardService),
		basePath:   "/api/dashboards",
	}
}

func (c *DashboardController) Key() string {
	return c.basePath
}

func (c *DashboardController) Register(r *mux.Router) {
	r.HandleFunc("/api/widgets:sources", c.Sources).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/default", c.Default).Methods(http.MethodGet)
	router.HandleFunc("/{id:"+idPattern+"}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:"+idPattern+"}/data", c.Data).Methods(http.MethodGet)
	router.HandleFunc("/{id:"+idPattern+"}/widgets", c.Widgets).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:"+idPattern+"}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:"+idPattern+"}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id:"+idPattern+"}/widgets", c.AddWidget).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:"+idPattern+"}/widgets/{widgetID:"+idPattern+"}", c.UpdateWidget).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:"+idPattern+"}/widgets/{widgetID:"+idPattern+"}/position", c.MoveWidget).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:"+idPattern+"}/widgets/{widgetID:"+idPattern+"}", c.RemoveWidget).Methods(http.MethodDelete)
}

func (c *DashboardController) List(w http.ResponseWriter, r *http.Request) {
	page := composables.UsePaginated(r, 25, 200)
	items, total, err := c.dashboards.List(r.Context(), &dashboard.FindParams{
		Limit:  page.Limit,
		Offset: page.Offset,
		SortBy: httpapi.QuerySort(r),
	})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toDashboardResponses(items), total, page.Limit, page.Offset))
}

func (c *DashboardController) Default(w http.ResponseWriter, r *http.Request) {
	d, err := c.dashboards.GetDefault(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (c *DashboardController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	d, err := c.dashboards.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (c *DashboardController) Data(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	d, results, err := c.dashboards.Render(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toRenderResponse(d, results))
}

func (c *DashboardController) Widgets(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	d, err := c.dashboards.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toDashboardResponse(d).Widgets)
}

func (c *DashboardController) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := c.dashboards.Sources(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, sources)
}

func (c *DashboardController) Create(w http.ResponseWriter, r *http.Request) {
	var dto dashboard.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	d, err := c.dashboards.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toDashboardResponse(d))
}

func (c *DashboardController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto dashboard.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	d, err := c.dashboards.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (c *DashboardController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.dashboards.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *DashboardController) AddWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto dashboard.WidgetDTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	widget, err := c.dashboards.AddWidget(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toWidgetResponse(widget))
}

func (c *DashboardController) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := httpapi.UUIDVar(w, r, "widgetID")
	if !ok {
		return
	}
	var dto dashboard.WidgetDTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	widget, err := c.dashboards.UpdateWidget(r.Context(), id, widgetID, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toWidgetResponse(widget))
}

func (c *DashboardController) MoveWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := httpapi.UUIDVar(w, r, "widgetID")
	if !ok {
		return
	}
	var pos dashboard.Position
	if !httpapi.ReadJSON(w, r, &pos) {
		return
	}
	widget, err := c.dashboards.MoveWidget(r.Context(), id, widgetID, pos)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toWidgetResponse(widget))
}

func (c *DashboardController) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := httpapi.UUIDVar(w, r, "widgetID")
	if !ok {
		return
	}
	if err := c.dashboards.RemoveWidget(r.Context(), id, widgetID); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
