package services

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/pkg/itf"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type memoryDocuments struct {
	items map[uuid.UUID]document.Document
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{items: map[uuid.UUID]document.Document{}}
}

func (m *memoryDocuments) List(ctx context.Context, params *document.FindParams) ([]document.Document, error) {
	out := []document.Document{}
	for _, d := range m.items {
		if params != nil && params.OwnerType != "" && d.OwnerType() != params.OwnerType {
			continue
		}
		if params != nil && params.OwnerID != nil && d.OwnerID() != *params.OwnerID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memoryDocuments) Count(ctx context.Context, params *document.FindParams) (int64, error) {
	items, _ := m.List(ctx, params)
	return int64(len(items)), nil
}

func (m *memoryDocuments) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	d, ok := m.items[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (m *memoryDocuments) Create(ctx context.Context, d document.Document) (document.Document, error) {
	saved := document.New(d.OwnerType(), d.OwnerID(), d.Name(), d.MimeType(), d.Size(), d.Hash(),
		document.WithID(uuid.New()),
		document.WithTenantID(d.TenantID()),
		document.WithUploadedBy(d.UploadedBy()),
		document.WithCreatedAt(time.Now()),
	)
	m.items[saved.ID()] = saved
	return saved, nil
}

func (m *memoryDocuments) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return document.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryDocuments) CountByHash(ctx context.Context, hash string) (int64, error) {
	var n int64
	for _, d := range m.items {
		if d.Hash() == hash {
			n++
		}
	}
	return n, nil
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Save(ctx context.Context, path string, content []byte) error {
	if _, ok := m.files[path]; !ok {
		m.files[path] = content
	}
	return nil
}

func (m *memoryStorage) Open(ctx context.Context, path string) (io.ReadSeekCloser, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, document.ErrNotFound
	}
	return nopCloser{bytes.NewReader(b)}, nil
}

func (m *memoryStorage) Remove(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

var errFindingMissing = serrors.NewError("FINDING_NOT_FOUND", "finding not found", "")

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeEvidenceFn
	authorizeEvidenceFn = func(context.Context, string) error { return nil }
	t.Cleanup(func() { authorizeEvidenceFn = prev })
}

func newService(known ...uuid.UUID) (*EvidenceService, *memoryDocuments, *memoryStorage) {
	repo := newMemoryDocuments()
	files := &memoryStorage{files: map[string][]byte{}}
	exists := func(ctx context.Context, id uuid.UUID) error {
		for _, k := range known {
			if k == id {
				return nil
			}
		}
		return errFindingMissing
	}
	logger, _ := test.NewNullLogger()
	svc := NewEvidenceService(repo, files, map[document.OwnerType]OwnerCheck{
		document.OwnerFinding: exists,
	}, 1024, logger)
	return svc, repo, files
}

var pdf = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")

func TestEvidenceService_UploadDownloadDelete(t *testing.T) {
	allowAll(t)
	ownerID := uuid.New()
	svc, repo, files := newService(ownerID)
	ctx := itf.NewTestContext().AsRole(user.RoleEditor).Context()

	first, err := svc.Upload(ctx, document.Upload{OwnerType: document.OwnerFinding, OwnerID: ownerID, Name: `C:\scans\report.pdf`, Content: pdf})
	require.NoError(t, err)
	require.Equal(t, "report.pdf", first.Name())
	require.Equal(t, "application/pdf", first.MimeType())
	require.Equal(t, "user-editor", first.UploadedBy())
	require.Contains(t, files.files, first.Path())

	second, err := svc.Upload(ctx, document.Upload{OwnerType: document.OwnerFinding, OwnerID: ownerID, Name: "copy.pdf", Content: pdf})
	require.NoError(t, err)
	require.Equal(t, first.Path(), second.Path())
	require.Len(t, files.files, 1)

	d, body, err := svc.Download(ctx, first.ID())
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.Equal(t, pdf, got)
	require.Equal(t, first.ID(), d.ID())

	_, err = svc.Delete(ctx, first.ID())
	require.NoError(t, err)
	require.Len(t, files.files, 1, "body is still referenced by the copy")
	_, err = svc.Delete(ctx, second.ID())
	require.NoError(t, err)
	require.Empty(t, files.files)
	require.Empty(t, repo.items)
}

func TestEvidenceService_UploadRejects(t *testing.T) {
	allowAll(t)
	ownerID := uuid.New()
	svc, repo, _ := newService(ownerID)
	ctx := itf.NewTestContext().Context()

	_, err := svc.Upload(ctx, document.Upload{OwnerType: document.OwnerFinding, OwnerID: uuid.New(), Name: "a.pdf", Content: pdf})
	require.ErrorIs(t, err, document.ErrUnknownOwner)

	_, err = svc.Upload(ctx, document.Upload{OwnerType: document.OwnerContract, OwnerID: ownerID, Name: "a.pdf", Content: pdf})
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "OwnerType")

	_, err = svc.Upload(ctx, document.Upload{OwnerType: document.OwnerFinding, OwnerID: ownerID, Name: "a.pdf", Content: bytes.Repeat([]byte("a"), 2048)})
	require.ErrorAs(t, err, &verrs)
	require.ErrorIs(t, verrs["File"], document.ErrTooLarge)

	_, err = svc.Upload(ctx, document.Upload{OwnerType: document.OwnerFinding, OwnerID: ownerID, Name: "page.html", Content: []byte("<html><body>hi</body></html>")})
	require.ErrorIs(t, err, document.ErrUnsupportedType)

	require.Empty(t, repo.items)
}

func TestEvidenceService_DeleteMissing(t *testing.T) {
	allowAll(t)
	svc, _, _ := newService()
	_, err := svc.Delete(itf.NewTestContext().Context(), uuid.New())
	require.ErrorIs(t, err, document.ErrNotFound)
}
