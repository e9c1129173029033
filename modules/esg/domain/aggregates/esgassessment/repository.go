package esgassessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewError("ESG_ASSESSMENT_NOT_FOUND", "ESG assessment not found", "ESG.Errors.NotFound")
	ErrUnknownVendor = serrors.NewError("INVALID_ESG_VENDOR", "vendor does not exist", "ESG.Errors.UnknownVendor")
)

type FindParams struct {
	VendorID *uuid.UUID
	// Organization limits the result to assessments of the organization itself.
	Organization bool
	Rating       Rating
	Limit        int
	Offset       int
	SortBy       repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Assessment, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Assessment, error)
	// Latest returns the most recent assessment of every subject.
	Latest(ctx context.Context) ([]Assessment, error)
	Create(ctx context.Context, a Assessment) (Assessment, error)
	Update(ctx context.Context, a Assessment) (Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
