package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
)

type FindingService struct {
	repo  finding.Repository
	tests resiliencetest.Repository
	now   func() time.Time
}

func NewFindingService(repo finding.Repository, tests resiliencetest.Repository) *FindingService {
	return &FindingService{repo: repo, tests: tests, now: time.Now}
}

func (s *FindingService) List(ctx context.Context, params *finding.FindParams) ([]finding.Finding, int64, error) {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "list"); err != nil {
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

func (s *FindingService) All(ctx context.Context) ([]finding.Finding, error) {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &finding.FindParams{})
}

func (s *FindingService) GetByID(ctx context.Context, id uuid.UUID) (finding.Finding, error) {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "view"); err != nil {
		return finding.Finding{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create defaults the due date from the severity SLA.
func (s *FindingService) Create(ctx context.Context, dto *finding.DTO) (finding.Finding, error) {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "create"); err != nil {
		return finding.Finding{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return finding.Finding{}, errs
	}
	if err := s.ensureTest(ctx, dto.TestID); err != nil {
		return finding.Finding{}, err
	}
	now := s.now()
	dto.DefaultDue(now)
	return s.repo.Create(ctx, finding.New(*dto).Settle(now))
}

func (s *FindingService) Update(ctx context.Context, id uuid.UUID, dto *finding.DTO) (finding.Finding, error) {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "update"); err != nil {
		return finding.Finding{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return finding.Finding{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return finding.Finding{}, err
	}
	if existing.TestID() != dto.TestID {
		if err := s.ensureTest(ctx, dto.TestID); err != nil {
			return finding.Finding{}, err
		}
	}
	return s.repo.Update(ctx, existing.Apply(*dto).Settle(s.now()))
}

func (s *FindingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeResilience(ctx, FindingsAuthzObject, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListOverdue returns unresolved findings past their due date as of now.
func (s *FindingService) ListOverdue(ctx context.Context, now time.Time) ([]finding.Finding, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]finding.Finding, 0, len(items))
	for _, f := range items {
		if f.IsOverdue(now) {
			out = append(out, f)
		}
	}
	return out, nil
}

// CountBySeverity counts unresolved findings per severity.
func (s *FindingService) CountBySeverity(ctx context.Context) (map[finding.Severity]int, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[finding.Severity]int, len(finding.Severities))
	for _, sev := range finding.Severities {
		out[sev] = 0
	}
	for _, f := range items {
		if !f.IsClosed() {
			out[f.Severity()]++
		}
	}
	return out, nil
}

func (s *FindingService) Now() time.Time {
	return s.now()
}

func (s *FindingService) ensureTest(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tests.GetByID(ctx, id); err != nil {
		if errors.Is(err, resiliencetest.ErrNotFound) {
			return finding.ErrUnknownTest
		}
		return err
	}
	return nil
}
