package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
)

type TestService struct {
	repo resiliencetest.Repository
	now  func() time.Time
}

func NewTestService(repo resiliencetest.Repository) *TestService {
	return &TestService{repo: repo, now: time.Now}
}

func (s *TestService) List(ctx context.Context, params *resiliencetest.FindParams) ([]resiliencetest.Test, int64, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "list"); err != nil {
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

func (s *TestService) All(ctx context.Context) ([]resiliencetest.Test, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &resiliencetest.FindParams{})
}

func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (resiliencetest.Test, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "view"); err != nil {
		return resiliencetest.Test{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *TestService) Create(ctx context.Context, dto *resiliencetest.DTO) (resiliencetest.Test, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "create"); err != nil {
		return resiliencetest.Test{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return resiliencetest.Test{}, errs
	}
	return s.repo.Create(ctx, resiliencetest.New(*dto))
}

func (s *TestService) Update(ctx context.Context, id uuid.UUID, dto *resiliencetest.DTO) (resiliencetest.Test, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "update"); err != nil {
		return resiliencetest.Test{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return resiliencetest.Test{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	return s.repo.Update(ctx, existing.Apply(*dto))
}

func (s *TestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeResilience(ctx, TestsAuthzObject, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Complete marks a test as executed on executed, or on its stored
// execution date when executed is nil.
func (s *TestService) Complete(ctx context.Context, id uuid.UUID, executed *time.Time) (resiliencetest.Test, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "update"); err != nil {
		return resiliencetest.Test{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	done, err := existing.Complete(executed)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	return s.repo.Update(ctx, done)
}

func (s *TestService) TLPTStatus(ctx context.Context) (resiliencetest.TLPTStatus, error) {
	if err := authorizeResilience(ctx, TestsAuthzObject, "list"); err != nil {
		return resiliencetest.TLPTStatus{}, err
	}
	tlpts, err := s.repo.List(ctx, &resiliencetest.FindParams{Type: resiliencetest.TypeTLPT, Status: resiliencetest.StatusCompleted})
	if err != nil {
		return resiliencetest.TLPTStatus{}, err
	}
	return resiliencetest.NextTLPTDue(tlpts, s.now()), nil
}
