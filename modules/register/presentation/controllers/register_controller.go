package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/register/infrastructure/export"
	"github.com/iota-uz/dora-register/modules/register/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
)

type RegisterController struct {
	app      application.Application
	register *services.RegisterService
	basePath string
}

func NewRegisterController(app application.Application) application.Controller {
	return &RegisterController{
		app:      app,
		register: app.Service(services.RegisterService{}).(*services.RegisterService),
		basePath: "/api/register",
	}
}

func (c *RegisterController) Key() string {
	return c.basePath
}

func (c *RegisterController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.Preview).Methods(http.MethodGet)
	router.HandleFunc("/validation", c.Validation).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
}

// Preview returns the templates as JSON for on-screen review.
func (c *RegisterController) Preview(w http.ResponseWriter, r *http.Request) {
	reg, err := c.register.Build(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, reg)
}

func (c *RegisterController) Validation(w http.ResponseWriter, r *http.Request) {
	report, err := c.register.Validate(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toValidationResponse(report, c.register.Now()))
}

func (c *RegisterController) Export(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&exportQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	format := export.Format(strings.ToLower(strings.TrimSpace(query.Format)))
	if format == "" {
		format = export.FormatXLSX
	}
	file, err := c.register.Export(r.Context(), format)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
