package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/pkg/composables"
)

type OrganizationService struct {
	repo organization.Repository
}

func NewOrganizationService(repo organization.Repository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

// GetCurrent returns the caller's organization. A tenant that never saved
// its profile gets an empty, unpersisted organization.
func (s *OrganizationService) GetCurrent(ctx context.Context) (organization.Organization, error) {
	if err := authorizeCore(ctx, "view"); err != nil {
		return organization.Organization{}, err
	}
	return s.load(ctx)
}

func (s *OrganizationService) load(ctx context.Context) (organization.Organization, error) {
	org, err := s.repo.Get(ctx)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, organization.ErrNotFound) {
		return organization.Organization{}, err
	}
	tenantID, tErr := composables.UseTenantID(ctx)
	if tErr != nil {
		return organization.Organization{}, tErr
	}
	return organization.New(tenantID), nil
}

func (s *OrganizationService) Update(ctx context.Context, dto *organization.ProfileDTO) (organization.Organization, error) {
	if err := authorizeCore(ctx, "update"); err != nil {
		return organization.Organization{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return organization.Organization{}, errs
	}
	org, err := s.load(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	return s.repo.Save(ctx, org.ApplyProfile(*dto))
}

// OnboardingState is the wizard view of an organization.
type OnboardingState struct {
	Current   organization.Step                     `json:"current"`
	Completed []organization.Step                   `json:"completed"`
	Progress  float64                               `json:"progress"`
	Data      map[organization.Step]json.RawMessage `json:"data"`
}

func stateOf(org organization.Organization) OnboardingState {
	ob := org.Onboarding()
	completed := ob.Completed
	if completed == nil {
		completed = []organization.Step{}
	}
	return OnboardingState{
		Current:   ob.Current(),
		Completed: completed,
		Progress:  ob.Progress(),
		Data:      ob.Data,
	}
}

func (s *OrganizationService) GetOnboarding(ctx context.Context) (OnboardingState, error) {
	if err := authorizeCore(ctx, "view"); err != nil {
		return OnboardingState{}, err
	}
	org, err := s.load(ctx)
	if err != nil {
		return OnboardingState{}, err
	}
	return stateOf(org), nil
}

// AdvanceOnboarding submits one wizard step. The profile step also updates
// the organization itself. Submitting "completed" finishes the wizard.
func (s *OrganizationService) AdvanceOnboarding(ctx context.Context, step organization.Step, payload json.RawMessage) (OnboardingState, error) {
	if step == organization.StepCompleted {
		return s.CompleteOnboarding(ctx)
	}
	if err := authorizeCore(ctx, "update"); err != nil {
		return OnboardingState{}, err
	}
	org, err := s.load(ctx)
	if err != nil {
		return OnboardingState{}, err
	}
	ob := org.Onboarding()
	if !ob.CanSubmit(step) {
		return OnboardingState{}, organization.ErrStepOutOfOrder
	}

	if step == organization.StepProfile {
		var dto organization.ProfileDTO
		if err := json.Unmarshal(payload, &dto); err != nil {
			return OnboardingState{}, organization.ErrInvalidPayload
		}
		if errs, ok := dto.Ok(); !ok {
			return OnboardingState{}, errs
		}
		org = org.ApplyProfile(dto)
		payload = nil
	} else {
		errs, err := organization.DecodeStep(step, payload)
		if err != nil {
			return OnboardingState{}, err
		}
		if len(errs) > 0 {
			return OnboardingState{}, errs
		}
	}

	saved, err := s.repo.Save(ctx, org.WithOnboarding(ob.Submit(step, payload)))
	if err != nil {
		return OnboardingState{}, err
	}
	return stateOf(saved), nil
}

func (s *OrganizationService) CompleteOnboarding(ctx context.Context) (OnboardingState, error) {
	if err := authorizeCore(ctx, "update"); err != nil {
		return OnboardingState{}, err
	}
	org, err := s.load(ctx)
	if err != nil {
		return OnboardingState{}, err
	}
	ob := org.Onboarding()
	if !ob.AllSubmitted() || !org.HasValidProfile() {
		return OnboardingState{}, organization.ErrOnboardingPending
	}
	ob.Finished = true
	saved, err := s.repo.Save(ctx, org.WithOnboarding(ob))
	if err != nil {
		return OnboardingState{}, err
	}
	return stateOf(saved), nil
}

// TenantIDs lists every tenant with an organization. It is meant for
// background jobs and skips authorization.
func (s *OrganizationService) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDs(ctx)
}
