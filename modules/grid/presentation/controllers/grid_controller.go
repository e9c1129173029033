package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/grid/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type GridController struct {
	app      application.Application
	grid     *services.GridService
	basePath string
}

func NewGridController(app application.Application) application.Controller {
	return &GridController{
		app:      app,
		grid:     app.Service(services.GridService{}).(*services.GridService),
		basePath: "/api/grid",
	}
}

func (c *GridController) Key() string {
	return c.basePath
}

func (c *GridController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/history", c.History).Methods(http.MethodGet)
	router.HandleFunc("/columns", c.Columns).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/undo", c.Undo).Methods(http.MethodPost)
	writeRouter.HandleFunc("/redo", c.Redo).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{resource:[a-z_]+}/{id:[0-9a-fA-F-]{36}}", c.Patch).Methods(http.MethodPatch)
}

func (c *GridController) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var req PatchCellRequest
	if !httpapi.ReadJSON(w, r, &req) {
		return
	}
	res, err := c.grid.PatchCell(r.Context(), mux.Vars(r)["resource"], id, strings.TrimSpace(req.Column), req.Value)
	if err != nil {
		writeGridError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, res)
}

func (c *GridController) Undo(w http.ResponseWriter, r *http.Request) {
	res, err := c.grid.Undo(r.Context())
	if err != nil {
		writeGridError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, res)
}

func (c *GridController) Redo(w http.ResponseWriter, r *http.Request) {
	res, err := c.grid.Redo(r.Context())
	if err != nil {
		writeGridError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, res)
}

func (c *GridController) History(w http.ResponseWriter, r *http.Request) {
	h, err := c.grid.History(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, h)
}

func (c *GridController) Columns(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteJSON(w, http.StatusOK, c.grid.Columns())
}

// writeGridError adds the persisted document to the envelope so the
// client can roll back its optimistic update.
func writeGridError(w http.ResponseWriter, r *http.Request, err error) {
	var cellErr *services.CellError
	if errors.As(err, &cellErr) {
		httpapi.WriteServiceErrorWithCurrent(w, r, err, cellErr.Current)
		return
	}
	httpapi.WriteServiceError(w, r, err)
}
