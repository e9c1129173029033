package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/search/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/spotlight"
)

type SearchController struct {
	app      application.Application
	search   *services.SearchService
	basePath string
}

func NewSearchController(app application.Application) application.Controller {
	return &SearchController{
		app:      app,
		search:   app.Service(services.SearchService{}).(*services.SearchService),
		basePath: "/api/search",
	}
}

func (c *SearchController) Key() string {
	return c.basePath
}

func (c *SearchController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Search).Methods(http.MethodGet)
}

type SearchResponse struct {
	Query string          `json:"query"`
	Hits  []spotlight.Hit `json:"hits"`
}

func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits, err := c.search.Search(r.Context(), q)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	if hits == nil {
		hits = []spotlight.Hit{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, SearchResponse{Query: q, Hits: hits})
}
