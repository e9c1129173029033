package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/modules/evidence/services"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubDocuments struct {
	items map[uuid.UUID]document.Document
}

func (s *stubDocuments) List(ctx context.Context, params *document.FindParams) ([]document.Document, error) {
	out := []document.Document{}
	for _, d := range s.items {
		if params != nil && params.OwnerID != nil && d.OwnerID() != *params.OwnerID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *stubDocuments) Count(ctx context.Context, params *document.FindParams) (int64, error) {
	items, _ := s.List(ctx, params)
	return int64(len(items)), nil
}

func (s *stubDocuments) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	d, ok := s.items[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (s *stubDocuments) Create(ctx context.Context, d document.Document) (document.Document, error) {
	saved := document.New(d.OwnerType(), d.OwnerID(), d.Name(), d.MimeType(), d.Size(), d.Hash(),
		document.WithID(uuid.New()),
		document.WithTenantID(d.TenantID()),
		document.WithUploadedBy(d.UploadedBy()),
		document.WithCreatedAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	)
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubDocuments) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubDocuments) CountByHash(ctx context.Context, hash string) (int64, error) {
	return 0, nil
}

type stubStorage map[string][]byte

type readSeekNopCloser struct{ *bytes.Reader }

func (readSeekNopCloser) Close() error { return nil }

func (s stubStorage) Save(ctx context.Context, path string, content []byte) error {
	s[path] = content
	return nil
}

func (s stubStorage) Open(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	b, ok := s[path]
	if !ok {
		return nil, document.ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(b)}, nil
}

func (s stubStorage) Remove(ctx context.Context, path string) error {
	delete(s, path)
	return nil
}

func newController(ownerID uuid.UUID) (*EvidenceController, stubStorage) {
	files := stubStorage{}
	exists := func(ctx context.Context, id uuid.UUID) error {
		if id != ownerID {
			return document.ErrNotFound
		}
		return nil
	}
	svc := services.NewEvidenceService(&stubDocuments{items: map[uuid.UUID]document.Document{}}, files,
		map[document.OwnerType]services.OwnerCheck{document.OwnerTest: exists}, 1<<16, nil)
	return &EvidenceController{evidence: svc, maxMemory: 1 << 16, basePath: "/api/evidence"}, files
}

func serve(c *EvidenceController, role user.Role, r *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	c.Register(router)
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func uploadRequest(t *testing.T, ownerType, ownerID, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("owner_type", ownerType))
	require.NoError(t, mw.WriteField("owner_id", ownerID))
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/api/evidence", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestEvidenceController_UploadAndDownload(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	ownerID := uuid.New()
	c, _ := newController(ownerID)

	w := serve(c, user.RoleViewer, uploadRequest(t, "test", ownerID.String(), "shot.png", png))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = serve(c, user.RoleEditor, uploadRequest(t, "test", ownerID.String(), "shot.png", png))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "image/png", created.MimeType)
	require.EqualValues(t, len(png), created.Size)

	w = serve(c, user.RoleViewer, httptest.NewRequest(http.MethodGet, "/api/evidence/"+created.ID+"/download", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename=shot.png`, w.Header().Get("Content-Disposition"))
	require.Equal(t, png, w.Body.Bytes())

	w = serve(c, user.RoleViewer, httptest.NewRequest(http.MethodGet, "/api/evidence?owner_type=test&owner_id="+ownerID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)

	w = serve(c, user.RoleEditor, httptest.NewRequest(http.MethodDelete, "/api/evidence/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	w = serve(c, user.RoleViewer, httptest.NewRequest(http.MethodGet, "/api/evidence/"+created.ID, nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvidenceController_UploadErrors(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	ownerID := uuid.New()
	c, files := newController(ownerID)

	w := serve(c, user.RoleEditor, uploadRequest(t, "test", uuid.NewString(), "shot.png", png))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_EVIDENCE_OWNER")

	w = serve(c, user.RoleEditor, uploadRequest(t, "test", "nope", "shot.png", png))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(c, user.RoleEditor, uploadRequest(t, "test", ownerID.String(), "run.sh", []byte("#!/bin/sh\necho hi\n")))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_EVIDENCE_TYPE")

	w = serve(c, user.RoleEditor, uploadRequest(t, "test", ownerID.String(), "big.png", bytes.Repeat([]byte{0}, 2<<20)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(c, user.RoleViewer, httptest.NewRequest(http.MethodGet, "/api/evidence?owner_type=vendor", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Empty(t, files)
}
