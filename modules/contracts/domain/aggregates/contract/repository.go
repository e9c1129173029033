package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound       = serrors.NewError("CONTRACT_NOT_FOUND", "contract not found", "Contracts.Errors.NotFound")
	ErrReferenceTaken = serrors.NewError("CONTRACT_REFERENCE_CONFLICT", "contract reference is already used", "Contracts.Errors.ReferenceTaken")
	ErrUnknownVendor  = serrors.NewError("INVALID_CONTRACT_VENDOR", "vendor does not exist", "Contracts.Errors.UnknownVendor")
)

type FindParams struct {
	Q                  string
	VendorID           *uuid.UUID
	Status             Status
	ServiceType        string
	ExpiringWithinDays int
	Limit              int
	Offset             int
	SortBy             repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Contract, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contract, error)
	// ListEndingBetween returns non-terminated contracts whose end date lies in [from, to].
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]Contract, error)
	Create(ctx context.Context, c Contract) (Contract, error)
	Update(ctx context.Context, c Contract) (Contract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
