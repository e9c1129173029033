package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type memoryAssessments struct {
	items map[uuid.UUID]esgassessment.Assessment
	order []uuid.UUID
}

func (m *memoryAssessments) List(ctx context.Context, params *esgassessment.FindParams) ([]esgassessment.Assessment, error) {
	out := []esgassessment.Assessment{}
	for _, id := range m.order {
		if a, ok := m.items[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAssessments) Count(ctx context.Context, params *esgassessment.FindParams) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memoryAssessments) GetByID(ctx context.Context, id uuid.UUID) (esgassessment.Assessment, error) {
	a, ok := m.items[id]
	if !ok {
		return esgassessment.Assessment{}, esgassessment.ErrNotFound
	}
	return a, nil
}

// Latest keeps the assessment with the newest assessed date per subject.
func (m *memoryAssessments) Latest(ctx context.Context) ([]esgassessment.Assessment, error) {
	newest := map[uuid.UUID]esgassessment.Assessment{}
	for _, a := range m.items {
		key := uuid.Nil
		if a.VendorID() != nil {
			key = *a.VendorID()
		}
		if cur, ok := newest[key]; !ok || a.AssessedAt().After(cur.AssessedAt()) {
			newest[key] = a
		}
	}
	out := []esgassessment.Assessment{}
	for _, a := range newest {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryAssessments) Create(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	saved := esgassessment.New(a.ToDTO(), esgassessment.WithID(uuid.New()))
	m.items[saved.ID()] = saved
	m.order = append(m.order, saved.ID())
	return saved, nil
}

func (m *memoryAssessments) Update(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	m.items[a.ID()] = a
	return a, nil
}

func (m *memoryAssessments) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return esgassessment.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type knownVendors map[uuid.UUID]bool

func (k knownVendors) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	if !k[id] {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return vendor.New(vendor.DTO{Name: "Known"}, vendor.WithID(id)), nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeESGFn
	authorizeESGFn = func(context.Context, string) error { return nil }
	t.Cleanup(func() { authorizeESGFn = prev })
}

func TestAssessmentService_CreateChecksVendor(t *testing.T) {
	allowAll(t)
	cloud := uuid.New()
	svc := NewAssessmentService(&memoryAssessments{items: map[uuid.UUID]esgassessment.Assessment{}}, knownVendors{cloud: true})
	ctx := itf.NewTestContext().Context()

	stranger := uuid.New()
	_, err := svc.Create(ctx, &esgassessment.DTO{VendorID: &stranger, Environmental: 50, Social: 50, Governance: 50, AssessedAt: "2025-02-01"})
	require.ErrorIs(t, err, esgassessment.ErrUnknownVendor)

	created, err := svc.Create(ctx, &esgassessment.DTO{VendorID: &cloud, Environmental: 50, Social: 50, Governance: 50, AssessedAt: "2025-02-01"})
	require.NoError(t, err)
	require.Equal(t, esgassessment.RatingC, created.Rating())

	_, err = svc.Update(ctx, uuid.New(), &esgassessment.DTO{AssessedAt: "2025-02-01"})
	require.ErrorIs(t, err, esgassessment.ErrNotFound)
}

func TestAssessmentService_LatestAndRatings(t *testing.T) {
	allowAll(t)
	cloud, telco := uuid.New(), uuid.New()
	svc := NewAssessmentService(&memoryAssessments{items: map[uuid.UUID]esgassessment.Assessment{}}, knownVendors{cloud: true, telco: true})
	ctx := itf.NewTestContext().Context()

	for _, dto := range []esgassessment.DTO{
		{VendorID: &cloud, Environmental: 30, Social: 30, Governance: 30, AssessedAt: "2024-02-01"},
		{VendorID: &cloud, Environmental: 90, Social: 85, Governance: 80, AssessedAt: "2025-02-01"},
		{VendorID: &telco, Environmental: 60, Social: 70, Governance: 70, AssessedAt: "2025-01-10"},
		{Environmental: 20, Social: 20, Governance: 20, AssessedAt: "2025-01-10"},
	} {
		_, err := svc.Create(ctx, &dto)
		require.NoError(t, err)
	}

	latest, err := svc.LatestByVendor(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	require.Equal(t, "2025-02-01", latest[cloud].ToDTO().AssessedAt)
	require.True(t, latest[uuid.Nil].IsOrganization())

	ratings, err := svc.Ratings(ctx)
	require.NoError(t, err)
	require.Equal(t, map[esgassessment.Rating]int{
		esgassessment.RatingA: 1,
		esgassessment.RatingB: 1,
		esgassessment.RatingC: 0,
		esgassessment.RatingD: 0,
		esgassessment.RatingE: 0,
	}, ratings)
}
