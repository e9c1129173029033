package services

import (
	"context"
	"time"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/pkg/composables"
)

type MaturityService struct {
	catalog     *catalog.Catalog
	assessments assessment.Repository
	snapshots   snapshot.Repository
	now         func() time.Time
}

func NewMaturityService(c *catalog.Catalog, assessments assessment.Repository, snapshots snapshot.Repository) *MaturityService {
	return &MaturityService{
		catalog:     c,
		assessments: assessments,
		snapshots:   snapshots,
		now:         time.Now,
	}
}

func (s *MaturityService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *MaturityService) ListAssessments(ctx context.Context) ([]assessment.Assessment, error) {
	if err := authorizeMaturity(ctx, AssessmentsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.assessments.List(ctx)
}

func (s *MaturityService) UpsertAssessment(ctx context.Context, requirementID string, dto *assessment.DTO) (assessment.Assessment, error) {
	if err := authorizeMaturity(ctx, AssessmentsAuthzObject, "update"); err != nil {
		return assessment.Assessment{}, err
	}
	if _, ok := s.catalog.Requirement(requirementID); !ok {
		return assessment.Assessment{}, assessment.ErrUnknownRequirement
	}
	if errs, ok := dto.Ok(); !ok {
		return assessment.Assessment{}, errs
	}
	return s.assessments.Upsert(ctx, assessment.New(requirementID, *dto, composables.UseActorID(ctx), s.now()))
}

// TakeSnapshot scores the current assessments and stores the result.
func (s *MaturityService) TakeSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	if err := authorizeMaturity(ctx, SnapshotsAuthzObject, "create"); err != nil {
		return snapshot.Snapshot{}, err
	}
	items, err := s.assessments.List(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return s.snapshots.Create(ctx, snapshot.Compute(s.catalog, items, s.now()))
}

// Current scores the assessments without persisting a snapshot.
func (s *MaturityService) Current(ctx context.Context) (snapshot.Snapshot, error) {
	if err := authorizeMaturity(ctx, SnapshotsAuthzObject, "view"); err != nil {
		return snapshot.Snapshot{}, err
	}
	items, err := s.assessments.List(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Compute(s.catalog, items, s.now()), nil
}

func (s *MaturityService) ListSnapshots(ctx context.Context, limit int) ([]snapshot.Snapshot, error) {
	if err := authorizeMaturity(ctx, SnapshotsAuthzObject, "list"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 12
	}
	return s.snapshots.List(ctx, limit)
}

// Trend compares the two most recent snapshots.
func (s *MaturityService) Trend(ctx context.Context) (snapshot.Trend, error) {
	items, err := s.ListSnapshots(ctx, 2)
	if err != nil {
		return snapshot.Trend{}, err
	}
	if len(items) == 0 {
		return snapshot.Trend{}, snapshot.ErrNoSnapshots
	}
	var previous *snapshot.Snapshot
	if len(items) > 1 {
		previous = &items[1]
	}
	return snapshot.CompareTrend(items[0], previous), nil
}

func (s *MaturityService) Now() time.Time {
	return s.now()
}
