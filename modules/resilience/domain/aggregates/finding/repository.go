package finding

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound    = serrors.NewError("FINDING_NOT_FOUND", "finding not found", "Resilience.Errors.FindingNotFound")
	ErrUnknownTest = serrors.NewError("INVALID_FINDING_TEST", "test does not exist", "Resilience.Errors.UnknownTest")
)

type FindParams struct {
	Q        string
	TestID   *uuid.UUID
	Severity Severity
	Status   Status
	Overdue  bool
	Limit    int
	Offset   int
	SortBy   repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Finding, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Finding, error)
	Create(ctx context.Context, f Finding) (Finding, error)
	Update(ctx context.Context, f Finding) (Finding, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
