package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/core/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type OrganizationController struct {
	app           application.Application
	organizations *services.OrganizationService
	basePath      string
}

func NewOrganizationController(app application.Application) application.Controller {
	return &OrganizationController{
		app:           app,
		organizations: app.Service(services.OrganizationService{}).(*services.OrganizationService),
		basePath:      "/api/organization",
	}
}

func (c *OrganizationController) Key() string {
	return c.basePath
}

func (c *OrganizationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/onboarding", c.GetOnboarding).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/onboarding/{step}", c.Advance).Methods(http.MethodPost)
}

func (c *OrganizationController) Get(w http.ResponseWriter, r *http.Request) {
	org, err := c.organizations.GetCurrent(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toOrganizationResponse(org))
}

func (c *OrganizationController) Update(w http.ResponseWriter, r *http.Request) {
	var dto organization.ProfileDTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	org, err := c.organizations.Update(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toOrganizationResponse(org))
}

func (c *OrganizationController) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	state, err := c.organizations.GetOnboarding(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, state)
}

func (c *OrganizationController) Advance(w http.ResponseWriter, r *http.Request) {
	step, ok := organization.ParseStep(mux.Vars(r)["step"])
	if !ok {
		httpapi.WriteServiceError(w, r, organization.ErrUnknownStep)
		return
	}
	var payload json.RawMessage
	if step != organization.StepCompleted && !httpapi.ReadJSON(w, r, &payload) {
		return
	}
	state, err := c.organizations.AdvanceOnboarding(r.Context(), step, payload)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, state)
}
