package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/contracts/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type ContractController struct {
	app       application.Application
	contracts *services.ContractService
	basePath  string
}

func NewContractController(app application.Application) application.Controller {
	return &ContractController{
		app:       app,
		contracts: app.Service(services.ContractService{}).(*services.ContractService),
		basePath:  "/api/contracts",
	}
}

func (c *ContractController) Key() string {
	return c.basePath
}

func (c *ContractController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+":expiring", c.Expiring).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}/terminate", c.Terminate).Methods(http.MethodPost)
}

func (c *ContractController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&contractListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &contract.FindParams{
		Q:                  strings.TrimSpace(query.Q),
		Status:             contract.Status(query.Status),
		ServiceType:        strings.ToUpper(query.ServiceType),
		ExpiringWithinDays: query.ExpiringDays,
		Limit:              page.Limit,
		Offset:             page.Offset,
		SortBy:             httpapi.QuerySort(r),
	}
	if query.VendorID != "" {
		id, err := uuid.Parse(query.VendorID)
		if err != nil {
			httpapi.WriteServiceError(w, r, httpapi.ErrMalformedID)
			return
		}
		params.VendorID = &id
	}
	items, total, err := c.contracts.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	resp := toContractResponses(items, c.contracts.Now())
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(resp, total, page.Limit, page.Offset))
}

// Expiring lists live contracts ending within ?days= (default 90).
func (c *ContractController) Expiring(w http.ResponseWriter, r *http.Request) {
	items, err := c.contracts.ListExpiring(r.Context(), httpapi.QueryInt(r, "days", contract.ExpiringWindowDays))
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContractResponses(items, c.contracts.Now()))
}

func (c *ContractController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.contracts.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContractResponse(item, c.contracts.Now()))
}

func (c *ContractController) Create(w http.ResponseWriter, r *http.Request) {
	var dto contract.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.contracts.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toContractResponse(item, c.contracts.Now()))
}

func (c *ContractController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto contract.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.contracts.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContractResponse(item, c.contracts.Now()))
}

func (c *ContractController) Terminate(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.contracts.Terminate(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toContractResponse(item, c.contracts.Now()))
}

func (c *ContractController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.contracts.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
