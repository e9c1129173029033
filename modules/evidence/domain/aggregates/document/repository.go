package document

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var ErrNotFound = serrors.NewError("EVIDENCE_NOT_FOUND", "evidence document not found", "Evidence.Errors.NotFound")

type FindParams struct {
	OwnerType OwnerType
	OwnerID   *uuid.UUID
	Limit     int
	Offset    int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Document, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	Create(ctx context.Context, d Document) (Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByHash counts the tenant's documents stored under hash.
	CountByHash(ctx context.Context, hash string) (int64, error)
}

// Storage keeps file bodies by path.
type Storage interface {
	Save(ctx context.Context, path string, content []byte) error
	Open(ctx context.Context, path string) (io.ReadSeekCloser, error)
	Remove(ctx context.Context, path string) error
}
