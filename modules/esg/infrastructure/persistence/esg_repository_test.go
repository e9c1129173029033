package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/pkg/itf"
)

func assessmentRow(id, tenantID uuid.UUID, vendorID *string) []any {
	now := time.Now()
	assessed := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return []any{
		id.String(), tenantID.String(), vendorID, 80, 70, 90,
		"0.400", "0.300", "0.300", "80.00", "A", assessed, "", now, now,
	}
}

func TestAssessmentRepository_ListFilters(t *testing.T) {
	tenantID, id, vendorID := uuid.New(), uuid.New(), uuid.New()
	vid := vendorID.String()
	tx := &itf.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return itf.NewRows(assessmentRow(id, tenantID, &vid)), nil
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()

	items, err := NewAssessmentRepository().List(ctx, &esgassessment.FindParams{VendorID: &vendorID, Rating: esgassessment.RatingA, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, vendorID, *items[0].VendorID())
	require.Equal(t, "80", items[0].Overall().String())
	require.Equal(t, "2025-03-31", items[0].ToDTO().AssessedAt)

	call, ok := tx.LastCall("FROM esg_assessments a")
	require.True(t, ok)
	require.Contains(t, call.SQL, "a.vendor_id = $2")
	require.Contains(t, call.SQL, "a.rating = $3")
	require.Equal(t, []any{tenantID, vendorID, "A"}, call.Args)
}

func TestAssessmentRepository_OrganizationFilter(t *testing.T) {
	tx := &itf.StubTx{}
	ctx := itf.NewTestContext().WithTx(tx).Context()
	vendorID := uuid.New()

	_, err := NewAssessmentRepository().List(ctx, &esgassessment.FindParams{Organization: true, VendorID: &vendorID})
	require.NoError(t, err)
	call, ok := tx.LastCall("FROM esg_assessments a")
	require.True(t, ok)
	require.Contains(t, call.SQL, "a.vendor_id IS NULL")
	require.Len(t, call.Args, 1)
}

func TestAssessmentRepository_LatestPerSubject(t *testing.T) {
	tenantID := uuid.New()
	tx := &itf.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return itf.NewRows(assessmentRow(uuid.New(), tenantID, nil)), nil
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()

	items, err := NewAssessmentRepository().Latest(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].IsOrganization())

	call, ok := tx.LastCall("DISTINCT ON (a.vendor_id)")
	require.True(t, ok)
	require.Equal(t, []any{tenantID}, call.Args)
}

func TestAssessmentRepository_CreateStoresComputedScore(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Values: []any{id.String(), now, now}}
		},
	}
	ctx := itf.NewTestContext().WithTx(tx).Context()

	saved, err := NewAssessmentRepository().Create(ctx, esgassessment.New(esgassessment.DTO{
		Environmental: 64, Social: 65, Governance: 65, AssessedAt: "2025-01-15",
	}))
	require.NoError(t, err)
	require.Equal(t, id, saved.ID())

	call, ok := tx.LastCall("INSERT INTO esg_assessments")
	require.True(t, ok)
	require.Equal(t, "64.60", call.Args[8])
	require.Equal(t, "C", call.Args[9])
}

func TestAssessmentRepository_ConstraintMapping(t *testing.T) {
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Err: &pgconn.PgError{Code: "23503"}}
		},
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	ctx := itf.NewTestContext().WithTx(tx).Context()
	repo := NewAssessmentRepository()
	vendorID := uuid.New()

	_, err := repo.Create(ctx, esgassessment.New(esgassessment.DTO{VendorID: &vendorID, AssessedAt: "2025-01-15"}))
	require.ErrorIs(t, err, esgassessment.ErrUnknownVendor)

	_, err = repo.Update(ctx, esgassessment.New(esgassessment.DTO{AssessedAt: "2025-01-15"}, esgassessment.WithID(uuid.New())))
	require.ErrorIs(t, err, esgassessment.ErrUnknownVendor)

	require.ErrorIs(t, repo.Delete(ctx, uuid.New()), esgassessment.ErrNotFound)
}
