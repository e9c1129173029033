package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type VendorController struct {
	app      application.Application
	vendors  *services.VendorService
	basePath string
}

func NewVendorController(app application.Application) application.Controller {
	return &VendorController{
		app:      app,
		vendors:  app.Service(services.VendorService{}).(*services.VendorService),
		basePath: "/api/vendors",
	}
}

func (c *VendorController) Key() string {
	return c.basePath
}

func (c *VendorController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+":concentration", c.Concentration).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
}

func (c *VendorController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&vendorListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &vendor.FindParams{
		Q:           strings.TrimSpace(query.Q),
		Criticality: query.Criticality,
		Country:     strings.ToUpper(query.Country),
		Status:      query.Status,
		Limit:       page.Limit,
		Offset:      page.Offset,
		SortBy:      httpapi.QuerySort(r),
	}
	items, total, err := c.vendors.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toVendorResponses(items), total, page.Limit, page.Offset))
}

func (c *VendorController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	v, err := c.vendors.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (c *VendorController) Create(w http.ResponseWriter, r *http.Request) {
	var dto vendor.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	v, err := c.vendors.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toVendorResponse(v))
}

func (c *VendorController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto vendor.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	v, err := c.vendors.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (c *VendorController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.vendors.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Concentration accepts ?currency=, ?threshold= (percent) and ?top=.
func (c *VendorController) Concentration(w http.ResponseWriter, r *http.Request) {
	opts := vendor.ConcentrationOptions{
		Currency: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency"))),
		TopN:     httpapi.QueryInt(r, "top", 10),
	}
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil || threshold.IsNegative() || threshold.GreaterThan(decimal.NewFromInt(100)) {
			httpapi.WriteError(w, r, http.StatusUnprocessableEntity, "INVALID_THRESHOLD", "threshold must be a percentage between 0 and 100")
			return
		}
		opts.Threshold = threshold
	}
	result, err := c.vendors.Concentration(r.Context(), opts)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}
