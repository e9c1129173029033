package controllers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/modules/evidence/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/middleware"
)

// multipartOverhead leaves room for the form boundaries and text fields.
const multipartOverhead = 1 << 20

type EvidenceController struct {
	app       application.Application
	evidence  *services.EvidenceService
	maxMemory int64
	basePath  string
}

func NewEvidenceController(app application.Application) application.Controller {
	return &EvidenceController{
		app:       app,
		evidence:  app.Service(services.EvidenceService{}).(*services.EvidenceService),
		maxMemory: configuration.Use().MaxUploadMemory,
		basePath:  "/api/evidence",
	}
}

func (c *EvidenceController) Key() string {
	return c.basePath
}

func (c *EvidenceController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]{36}}/download", c.Download).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Upload).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9a-fA-F-]{36}}", c.Delete).Methods(http.MethodDelete)
}

func (c *EvidenceController) List(w http.ResponseWriter, r *http.Request) {
	ownerType := document.OwnerType(strings.TrimSpace(r.URL.Query().Get("owner_type")))
	if ownerType != "" && !ownerType.Valid() {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "unknown owner type")
		return
	}
	ownerID := httpapi.QueryUUID(r, "owner_id")
	if ownerID == nil && r.URL.Query().Get("owner_id") != "" {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "owner_id must be a UUID")
		return
	}
	page := composables.UsePaginated(r, 25, 200)
	items, total, err := c.evidence.List(r.Context(), &document.FindParams{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toDocumentResponses(items), total, page.Limit, page.Offset))
}

func (c *EvidenceController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	d, err := c.evidence.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toDocumentResponse(d))
}

// Upload accepts multipart/form-data with owner_type, owner_id and file.
func (c *EvidenceController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.evidence.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(c.maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpapi.WriteError(w, r, http.StatusRequestEntityTooLarge, "INVALID_EVIDENCE_SIZE", "the file exceeds the upload limit")
			return
		}
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "expected a multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	ownerID, err := uuid.Parse(strings.TrimSpace(r.FormValue("owner_id")))
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "owner_id must be a UUID")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "file is required")
		return
	}
	defer func() { _ = file.Close() }()
	content, err := io.ReadAll(file)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "could not read the file")
		return
	}

	d, err := c.evidence.Upload(r.Context(), document.Upload{
		OwnerType: document.OwnerType(strings.TrimSpace(r.FormValue("owner_type"))),
		OwnerID:   ownerID,
		Name:      header.Filename,
		Content:   content,
	})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toDocumentResponse(d))
}

func (c *EvidenceController) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	d, body, err := c.evidence.Download(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	defer func() { _ = body.Close() }()

	w.Header().Set("Content-Type", d.MimeType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Name()}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("ETag", `"`+d.Hash()+`"`)
	http.ServeContent(w, r, d.Name(), d.CreatedAt(), body)
}

func (c *EvidenceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpapi.UUIDVar(w, r, "id")
	if !ok {
		return
	}
	if _, err := c.evidence.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
