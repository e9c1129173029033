package assessment

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var ErrUnknownRequirement = serrors.NewError("MATURITY_REQUIREMENT_NOT_FOUND", "requirement is not in the catalog", "Maturity.Errors.UnknownRequirement")

type Repository interface {
	List(ctx context.Context) ([]Assessment, error)
	Upsert(ctx context.Context, a Assessment) (Assessment, error)
}
