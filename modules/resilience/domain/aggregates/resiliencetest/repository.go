package resiliencetest

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound             = serrors.NewError("RESILIENCE_TEST_NOT_FOUND", "resilience test not found", "Resilience.Errors.TestNotFound")
	ErrHasFindings          = serrors.NewError("RESILIENCE_TEST_HAS_FINDINGS_CONFLICT", "test still has findings", "Resilience.Errors.HasFindings")
	ErrCancelled            = serrors.NewError("RESILIENCE_TEST_CANCELLED_CONFLICT", "a cancelled test cannot be completed", "Resilience.Errors.Cancelled")
	ErrExecutedDateRequired = serrors.NewError("VALIDATION_EXECUTED_DATE_REQUIRED", "completing a test requires an executed date", "Resilience.Errors.ExecutedDateRequired")
)

type FindParams struct {
	Q      string
	Type   Type
	Status Status
	Limit  int
	Offset int
	SortBy repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Test, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Test, error)
	Create(ctx context.Context, t Test) (Test, error)
	Update(ctx context.Context, t Test) (Test, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
