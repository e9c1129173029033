package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type memoryAssessments struct {
	items map[string]assessment.Assessment
}

func (m *memoryAssessments) List(ctx context.Context) ([]assessment.Assessment, error) {
	out := make([]assessment.Assessment, 0, len(m.items))
	for _, a := range m.items {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryAssessments) Upsert(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	m.items[a.RequirementID()] = a
	return a, nil
}

type memorySnapshots struct {
	items []snapshot.Snapshot
}

func (m *memorySnapshots) Create(ctx context.Context, s snapshot.Snapshot) (snapshot.Snapshot, error) {
	saved := snapshot.New(s.TakenAt(), s.Overall(), s.Pillars(), snapshot.WithID(uuid.New()))
	m.items = append(m.items, saved)
	return saved, nil
}

func (m *memorySnapshots) List(ctx context.Context, limit int) ([]snapshot.Snapshot, error) {
	out := append([]snapshot.Snapshot(nil), m.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt().After(out[j].TakenAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeMaturityFn
	authorizeMaturityFn = func(context.Context, string, string) error { return nil }
	t.Cleanup(func() { authorizeMaturityFn = prev })
}

const testCatalog = `
pillars:
  - key: ict_risk_management
    title: ICT risk management
    requirements:
      - {id: RM-1, article: "Art. 5", title: Governance, weight: 1}
  - key: incident_reporting
    title: Incident reporting
    requirements:
      - {id: IR-1, article: "Art. 17", title: Process, weight: 1}
`

func newService(t *testing.T) (*MaturityService, *time.Time) {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewMaturityService(c, &memoryAssessments{items: map[string]assessment.Assessment{}}, &memorySnapshots{})
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestMaturityService_UpsertAssessment(t *testing.T) {
	allowAll(t)
	svc, _ := newService(t)
	ctx := itf.NewTestContext().AsRole("editor").Context()

	_, err := svc.UpsertAssessment(ctx, "XX-1", &assessment.DTO{Status: "implemented"})
	require.ErrorIs(t, err, assessment.ErrUnknownRequirement)

	_, err = svc.UpsertAssessment(ctx, "RM-1", &assessment.DTO{Status: "done"})
	require.Error(t, err)

	saved, err := svc.UpsertAssessment(ctx, "RM-1", &assessment.DTO{Status: " partial ", Note: "policy drafted"})
	require.NoError(t, err)
	require.Equal(t, assessment.StatusPartial, saved.Status())
	require.Equal(t, "user-editor", saved.UpdatedBy())
}

func TestMaturityService_SnapshotsAndTrend(t *testing.T) {
	allowAll(t)
	svc, clock := newService(t)
	ctx := itf.NewTestContext().Context()

	_, err := svc.Trend(ctx)
	require.ErrorIs(t, err, snapshot.ErrNoSnapshots)

	_, err = svc.UpsertAssessment(ctx, "RM-1", &assessment.DTO{Status: "partial"})
	require.NoError(t, err)
	first, err := svc.TakeSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "25", first.Overall().String())

	trend, err := svc.Trend(ctx)
	require.NoError(t, err)
	require.Nil(t, trend.Overall.Previous)
	require.True(t, trend.Overall.Delta.IsZero())

	*clock = clock.AddDate(0, 1, 0)
	_, err = svc.UpsertAssessment(ctx, "IR-1", &assessment.DTO{Status: "implemented"})
	require.NoError(t, err)
	_, err = svc.TakeSnapshot(ctx)
	require.NoError(t, err)

	trend, err = svc.Trend(ctx)
	require.NoError(t, err)
	require.Equal(t, "75", trend.Overall.Current.String())
	require.Equal(t, "50", trend.Overall.Delta.String())
	for _, p := range trend.Pillars {
		if p.Pillar == catalog.PillarIncidentReporting {
			require.Equal(t, "100", p.Delta.String())
		}
	}

	list, err := svc.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.True(t, list[0].TakenAt().After(list[1].TakenAt()))
}
