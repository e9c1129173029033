package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type memoryContracts struct {
	items map[uuid.UUID]contract.Contract
}

func newMemoryContracts() *memoryContracts {
	return &memoryContracts{items: map[uuid.UUID]contract.Contract{}}
}

func (m *memoryContracts) List(ctx context.Context, params *contract.FindParams) ([]contract.Contract, error) {
	out := []contract.Contract{}
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryContracts) Count(ctx context.Context, params *contract.FindParams) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memoryContracts) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	c, ok := m.items[id]
	if !ok {
		return contract.Contract{}, contract.ErrNotFound
	}
	return c, nil
}

func (m *memoryContracts) ListEndingBetween(ctx context.Context, from, to time.Time) ([]contract.Contract, error) {
	out := []contract.Contract{}
	for _, c := range m.items {
		if end := c.EndDate(); end != nil && c.TerminatedAt() == nil && !end.Before(from.Truncate(24*time.Hour)) && !end.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryContracts) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	for _, existing := range m.items {
		if existing.Reference() == c.Reference() {
			return contract.Contract{}, contract.ErrReferenceTaken
		}
	}
	saved := contract.New(c.ToDTO(), contract.WithID(uuid.New()), contract.WithTimestamps(time.Now(), time.Now()))
	m.items[saved.ID()] = saved
	return saved, nil
}

func (m *memoryContracts) Update(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	m.items[c.ID()] = c
	return c, nil
}

func (m *memoryContracts) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return contract.ErrNotFound
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
	prev := authorizeContractsFn
	authorizeContractsFn = func(context.Context, string) error { return nil }
	t.Cleanup(func() { authorizeContractsFn = prev })
}

func newService(vendorID uuid.UUID) (*ContractService, *memoryContracts) {
	store := newMemoryContracts()
	svc := NewContractService(store, knownVendors{vendorID: true})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func dto(ref string, vendorID uuid.UUID, end string) *contract.DTO {
	return &contract.DTO{
		Reference:       ref,
		VendorID:        vendorID,
		ArrangementType: "standalone",
		ServiceType:     "S01",
		FunctionName:    "Payments",
		StartDate:       "2024-01-01",
		EndDate:         end,
	}
}

func TestContractService_CreateChecksVendor(t *testing.T) {
	allowAll(t)
	vendorID := uuid.New()
	svc, _ := newService(vendorID)
	ctx := itf.NewTestContext().Context()

	_, err := svc.Create(ctx, dto("CA-1", uuid.New(), ""))
	require.ErrorIs(t, err, contract.ErrUnknownVendor)

	created, err := svc.Create(ctx, dto("CA-1", vendorID, ""))
	require.NoError(t, err)
	require.Equal(t, vendorID, created.VendorID())

	_, err = svc.Create(ctx, dto("CA-1", vendorID, ""))
	require.ErrorIs(t, err, contract.ErrReferenceTaken)
}

func TestContractService_UpdateAndTerminate(t *testing.T) {
	allowAll(t)
	vendorID := uuid.New()
	svc, _ := newService(vendorID)
	ctx := itf.NewTestContext().Context()

	created, err := svc.Create(ctx, dto("CA-1", vendorID, "2025-07-01"))
	require.NoError(t, err)
	require.Equal(t, contract.StatusExpiring, created.Status(svc.Now()))

	_, err = svc.Update(ctx, created.ID(), dto("CA-1", uuid.New(), "2027-01-01"))
	require.ErrorIs(t, err, contract.ErrUnknownVendor)

	updated, err := svc.Update(ctx, created.ID(), dto("CA-1", vendorID, "2027-01-01"))
	require.NoError(t, err)
	require.Equal(t, contract.StatusActive, updated.Status(svc.Now()))

	terminated, err := svc.Terminate(ctx, created.ID())
	require.NoError(t, err)
	require.Equal(t, contract.StatusTerminated, terminated.Status(svc.Now()))
}

func TestContractService_ListExpiringAndCounts(t *testing.T) {
	allowAll(t)
	vendorID := uuid.New()
	svc, _ := newService(vendorID)
	ctx := itf.NewTestContext().Context()

	for ref, end := range map[string]string{"A": "2025-06-20", "B": "2025-12-31", "C": "2025-01-01", "D": ""} {
		_, err := svc.Create(ctx, dto(ref, vendorID, end))
		require.NoError(t, err)
	}

	soon, err := svc.ListExpiring(ctx, 30)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	require.Equal(t, "A", soon[0].Reference())

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts[contract.StatusExpiring])
	require.Equal(t, 2, counts[contract.StatusActive])
	require.Equal(t, 1, counts[contract.StatusExpired])
	require.Equal(t, 0, counts[contract.StatusDraft])
}
