package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound          = serrors.NewError("ORGANIZATION_NOT_FOUND", "organization not found", "Organization.Errors.NotFound")
	ErrUnknownStep       = serrors.NewError("ONBOARDING_STEP_NOT_FOUND", "unknown onboarding step", "Organization.Errors.UnknownStep")
	ErrStepOutOfOrder    = serrors.NewError("ONBOARDING_STEP_OUT_OF_ORDER", "previous onboarding steps are incomplete", "Organization.Errors.StepOutOfOrder")
	ErrOnboardingPending = serrors.NewError("ONBOARDING_INCOMPLETE", "onboarding cannot be completed yet", "Organization.Errors.OnboardingIncomplete")
	ErrInvalidPayload    = serrors.NewError("INVALID_ONBOARDING_PAYLOAD", "onboarding payload is not valid JSON", "Organization.Errors.InvalidPayload")
)

type Repository interface {
	// Get loads the organization of the tenant in ctx.
	Get(ctx context.Context) (Organization, error)
	Save(ctx context.Context, o Organization) (Organization, error)
	// ListIDs returns every tenant that has an organization. It is not tenant scoped.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
