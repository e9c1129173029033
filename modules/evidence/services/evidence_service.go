package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

// OwnerCheck reports whether the record evidence is attached to exists.
// It returns the owning module's not-found error when it does not.
type OwnerCheck func(ctx context.Context, id uuid.UUID) error

type EvidenceService struct {
	repo    document.Repository
	storage document.Storage
	owners  map[document.OwnerType]OwnerCheck
	maxSize int64
	logger  logrus.FieldLogger
}

func NewEvidenceService(
	repo document.Repository,
	storage document.Storage,
	owners map[document.OwnerType]OwnerCheck,
	maxSize int64,
	logger logrus.FieldLogger,
) *EvidenceService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EvidenceService{
		repo:    repo,
		storage: storage,
		owners:  owners,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *EvidenceService) MaxSize() int64 {
	return s.maxSize
}

func (s *EvidenceService) List(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	if err := authorizeEvidence(ctx, "list"); err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *EvidenceService) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	if err := authorizeEvidence(ctx, "view"); err != nil {
		return document.Document{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Upload validates u, stores its body and records the document.
func (s *EvidenceService) Upload(ctx context.Context, u document.Upload) (document.Document, error) {
	if err := authorizeEvidence(ctx, "create"); err != nil {
		return document.Document{}, err
	}
	u.Name = document.CleanName(u.Name)
	if errs, ok := u.Ok(s.maxSize); !ok {
		return document.Document{}, errs
	}
	if err := s.checkOwner(ctx, u.OwnerType, u.OwnerID); err != nil {
		return document.Document{}, err
	}
	mimeType, err := document.Detect(u.Name, u.Content)
	if err != nil {
		return document.Document{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return document.Document{}, err
	}

	d := document.New(
		u.OwnerType,
		u.OwnerID,
		u.Name,
		mimeType,
		int64(len(u.Content)),
		document.Hash(u.Content),
		document.WithTenantID(tenantID),
		document.WithUploadedBy(composables.UseActorID(ctx)),
	)
	if err := s.storage.Save(ctx, d.Path(), u.Content); err != nil {
		return document.Document{}, err
	}
	saved, err := s.repo.Create(ctx, d)
	if err != nil {
		return document.Document{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"tenant_id":   tenantID,
		"document_id": saved.ID(),
		"owner_type":  saved.OwnerType(),
		"owner_id":    saved.OwnerID(),
		"mime_type":   saved.MimeType(),
		"size":        saved.Size(),
	}).Info("evidence uploaded")
	return saved, nil
}

// Download returns the document and its body. The caller closes the reader.
func (s *EvidenceService) Download(ctx context.Context, id uuid.UUID) (document.Document, io.ReadSeekCloser, error) {
	if err := authorizeEvidence(ctx, "view"); err != nil {
		return document.Document{}, nil, err
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, nil, err
	}
	body, err := s.storage.Open(ctx, d.Path())
	if err != nil {
		return document.Document{}, nil, fmt.Errorf("open evidence %s: %w", d.ID(), err)
	}
	return d, body, nil
}

// Delete removes the record and, once no other document of the tenant
// shares its content, the stored body.
func (s *EvidenceService) Delete(ctx context.Context, id uuid.UUID) (document.Document, error) {
	if err := authorizeEvidence(ctx, "delete"); err != nil {
		return document.Document{}, err
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return document.Document{}, err
	}
	remaining, err := s.repo.CountByHash(ctx, d.Hash())
	if err != nil {
		return document.Document{}, err
	}
	if remaining == 0 {
		if err := s.storage.Remove(ctx, d.Path()); err != nil {
			s.logger.WithError(err).WithField("path", d.Path()).Warn("evidence: stored body left behind")
		}
	}
	return d, nil
}

func (s *EvidenceService) checkOwner(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID) error {
	check, ok := s.owners[ownerType]
	if !ok {
		return serrors.ValidationErrors{"OwnerType": serrors.NewInvalidValueError("owner_type", "is not supported")}
	}
	err := check(ctx, ownerID)
	if err == nil {
		return nil
	}
	var be *serrors.BaseError
	if errors.As(err, &be) && strings.HasSuffix(be.Code, "_NOT_FOUND") {
		return document.ErrUnknownOwner.WithTemplateData(map[string]any{"Type": ownerType, "ID": ownerID})
	}
	return err
}
