package alert

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var ErrNotFound = serrors.NewError("ALERT_NOT_FOUND", "alert not found", "Alerts.Errors.NotFound")

type FindParams struct {
	Unacknowledged bool
	Kind           Kind
	Severity       Severity
	Limit          int
	Offset         int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Alert, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Alert, error)
	// Insert stores a unless the tenant already has an alert with the same
	// dedupe key. created reports whether a row was written.
	Insert(ctx context.Context, a Alert) (saved Alert, created bool, err error)
	Acknowledge(ctx context.Context, a Alert) (Alert, error)
}
