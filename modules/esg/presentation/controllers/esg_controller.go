package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/esg/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

type AssessmentController struct {
	app         application.Application
	assessments *services.AssessmentService
	basePath    string
}

func NewAssessmentController(app application.Application) application.Controller {
	return &AssessmentController{
		app:         app,
		assessments: app.Service(services.AssessmentService{}).(*services.AssessmentService),
		basePath:    "/api/esg",
	}
}

func (c *AssessmentController) Key() string {
	return c.basePath
}

func (c *AssessmentController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/assessments", c.List).Methods(http.MethodGet)
	router.HandleFunc("/assessments:latest", c.Latest).Methods(http.MethodGet)
	router.HandleFunc("/assessments/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/ratings", c.Ratings).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/assessments", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/assessments/{id:[0-9a-fA-F-]{36}}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/assessments/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
}

func (c *AssessmentController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&assessmentListQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	params := &esgassessment.FindParams{
		Organization: query.Organization,
		Rating:       esgassessment.Rating(strings.ToUpper(strings.TrimSpace(query.Rating))),
		Limit:        page.Limit,
		Offset:       page.Offset,
		SortBy:       httpapi.QuerySort(r),
	}
	if query.VendorID != "" {
		id, err := uuid.Parse(query.VendorID)
		if err != nil {
			httpapi.WriteServiceError(w, r, httpapi.ErrMalformedID)
			return
		}
		params.VendorID = &id
	}
	items, total, err := c.assessments.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toAssessmentResponses(items), total, page.Limit, page.Offset))
}

func (c *AssessmentController) Latest(w http.ResponseWriter, r *http.Request) {
	latest, err := c.assessments.LatestByVendor(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	items := make([]esgassessment.Assessment, 0, len(latest))
	for _, a := range latest {
		items = append(items, a)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssessmentResponses(items))
}

func (c *AssessmentController) Ratings(w http.ResponseWriter, r *http.Request) {
	counts, err := c.assessments.Ratings(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	out := make([]RatingCount, 0, len(esgassessment.Ratings))
	for _, rating := range esgassessment.Ratings {
		out = append(out, RatingCount{Rating: rating, Count: counts[rating]})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *AssessmentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	item, err := c.assessments.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssessmentResponse(item))
}

func (c *AssessmentController) Create(w http.ResponseWriter, r *http.Request) {
	var dto esgassessment.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.assessments.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toAssessmentResponse(item))
}

func (c *AssessmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	var dto esgassessment.DTO
	if !httpapi.ReadJSON(w, r, &dto) {
		return
	}
	item, err := c.assessments.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssessmentResponse(item))
}

func (c *AssessmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if err := c.assessments.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
