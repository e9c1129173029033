package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type memoryIncidents struct {
	items map[uuid.UUID]incident.Incident
}

func newMemoryIncidents() *memoryIncidents {
	return &memoryIncidents{items: map[uuid.UUID]incident.Incident{}}
}

func (m *memoryIncidents) matches(i incident.Incident, params *incident.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Major != nil && i.Major() != *params.Major {
		return false
	}
	if params.Open && !i.IsOpen() {
		return false
	}
	if params.DetectedFrom != nil && i.DetectedAt().Before(*params.DetectedFrom) {
		return false
	}
	return true
}

func (m *memoryIncidents) List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, error) {
	out := []incident.Incident{}
	for _, i := range m.items {
		if m.matches(i, params) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memoryIncidents) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	items, _ := m.List(ctx, params)
	return int64(len(items)), nil
}

func (m *memoryIncidents) GetByID(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	i, ok := m.items[id]
	if !ok {
		return incident.Incident{}, incident.ErrNotFound
	}
	return i, nil
}

func (m *memoryIncidents) Create(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	saved := incident.New(i.ToDTO(),
		incident.WithID(uuid.New()),
		incident.WithState(i.Status(), i.Major(), i.ClassifiedAt(), i.InitialAt(), i.IntermediateAt(), i.FinalAt()),
	)
	m.items[saved.ID()] = saved
	return saved, nil
}

func (m *memoryIncidents) Update(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	m.items[i.ID()] = i
	return i, nil
}

func (m *memoryIncidents) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return incident.ErrNotFound
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
	prev := authorizeIncidentsFn
	authorizeIncidentsFn = func(context.Context, string) error { return nil }
	t.Cleanup(func() { authorizeIncidentsFn = prev })
}

var clock = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newService(vendors knownVendors) (*IncidentService, *memoryIncidents) {
	store := newMemoryIncidents()
	svc := NewIncidentService(store, vendors)
	svc.now = func() time.Time { return clock }
	return svc, store
}

func majorDTO(ref string, detected time.Time) *incident.DTO {
	return &incident.DTO{
		Reference:  ref,
		Title:      "Card processing outage",
		DetectedAt: detected,
		Criteria: incident.Criteria{
			CriticalServicesAffected: true,
			ClientsAffected:          150000,
			DowntimeHours:            3,
		},
	}
}

func TestIncidentService_CreateChecksVendor(t *testing.T) {
	allowAll(t)
	vendorID := uuid.New()
	svc, _ := newService(knownVendors{vendorID: true})
	ctx := itf.NewTestContext().Context()

	d := majorDTO("INC-1", clock.Add(-time.Hour))
	unknown := uuid.New()
	d.VendorID = &unknown
	_, err := svc.Create(ctx, d)
	require.ErrorIs(t, err, incident.ErrUnknownVendor)

	d.VendorID = &vendorID
	created, err := svc.Create(ctx, d)
	require.NoError(t, err)
	require.Equal(t, incident.StatusDetected, created.Status())
	require.False(t, created.Major())
}

func TestIncidentService_ReportingLifecycle(t *testing.T) {
	allowAll(t)
	svc, _ := newService(nil)
	ctx := itf.NewTestContext().Context()

	created, err := svc.Create(ctx, majorDTO("INC-1", clock.Add(-time.Hour)))
	require.NoError(t, err)

	_, err = svc.RecordNotification(ctx, created.ID(), incident.NotificationInitial)
	require.ErrorIs(t, err, incident.ErrNotClassified)

	classified, err := svc.Classify(ctx, created.ID())
	require.NoError(t, err)
	require.True(t, classified.Major())
	require.Equal(t, incident.StatusClassified, classified.Status())

	_, err = svc.RecordNotification(ctx, created.ID(), incident.NotificationFinal)
	require.ErrorIs(t, err, incident.ErrNotificationOrder)

	_, err = svc.RecordNotification(ctx, created.ID(), "weekly")
	require.ErrorIs(t, err, incident.ErrUnknownNotification)

	_, err = svc.Close(ctx, created.ID())
	require.ErrorIs(t, err, incident.ErrFinalReportMissing)

	for _, kind := range incident.NotificationKinds {
		_, err = svc.RecordNotification(ctx, created.ID(), kind)
		require.NoError(t, err)
	}
	closed, err := svc.Close(ctx, created.ID())
	require.NoError(t, err)
	require.Equal(t, incident.StatusClosed, closed.Status())
	require.NotNil(t, closed.ResolvedAt())

	_, err = svc.Update(ctx, created.ID(), majorDTO("INC-1", clock.Add(-time.Hour)))
	require.ErrorIs(t, err, incident.ErrClosed)
}

func TestIncidentService_ListOverdue(t *testing.T) {
	allowAll(t)
	svc, _ := newService(nil)
	ctx := itf.NewTestContext().Context()

	late, err := svc.Create(ctx, majorDTO("INC-LATE", clock.Add(-30*time.Hour)))
	require.NoError(t, err)
	_, err = svc.Classify(ctx, late.ID())
	require.NoError(t, err)

	fresh, err := svc.Create(ctx, majorDTO("INC-NEW", clock.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = svc.Classify(ctx, fresh.ID())
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(ctx, clock)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, "INC-LATE", overdue[0].Reference())

	open, err := svc.CountOpen(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), open)
}

func TestIncidentService_MajorByMonth(t *testing.T) {
	allowAll(t)
	svc, _ := newService(nil)
	ctx := itf.NewTestContext().Context()

	for i, detected := range []time.Time{
		time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	} {
		created, err := svc.Create(ctx, majorDTO("INC-"+string(rune('A'+i)), detected))
		require.NoError(t, err)
		_, err = svc.Classify(ctx, created.ID())
		require.NoError(t, err)
	}

	months, err := svc.MajorByMonth(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []MonthCount{
		{Month: "2025-04", Count: 2},
		{Month: "2025-05", Count: 0},
		{Month: "2025-06", Count: 1},
	}, months)
}
