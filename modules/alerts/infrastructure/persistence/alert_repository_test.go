package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/pkg/itf"
)

func alertRow(id, tenantID uuid.UUID, acknowledged *time.Time) []any {
	return []any{
		id.String(), tenantID.String(), "tlpt_due", "warning", "organization", tenantID.String(),
		"TLPT is due", "tlpt_due:2025-01-01", time.Now(), acknowledged, "",
	}
}

func TestAlertRepository_ListUnacknowledged(t *testing.T) {
	tenantID, id := uuid.New(), uuid.New()
	tx := &itf.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return itf.NewRows(alertRow(id, tenantID, nil)), nil
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()

	items, err := NewAlertRepository().List(ctx, &alert.FindParams{Unacknowledged: true, Kind: alert.KindTLPTDue, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ID())
	require.False(t, items[0].IsAcknowledged())

	call, ok := tx.LastCall("FROM alerts a")
	require.True(t, ok)
	require.Contains(t, call.SQL, "a.acknowledged_at IS NULL")
	require.Contains(t, call.SQL, "a.kind = $2")
	require.Equal(t, []any{tenantID, "tlpt_due"}, call.Args)
}

func TestAlertRepository_InsertDuplicateIsSkipped(t *testing.T) {
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Err: pgx.ErrNoRows}
		},
	}
	ctx := itf.NewTestContext().WithTx(tx).Context()
	a := alert.New(alert.Notice{Kind: alert.KindTLPTDue, Severity: alert.SeverityWarning, Message: "m", DedupeKey: "k"})

	_, created, err := NewAlertRepository().Insert(ctx, a)
	require.NoError(t, err)
	require.False(t, created)

	call, ok := tx.LastCall("INSERT INTO alerts")
	require.True(t, ok)
	require.Contains(t, call.SQL, "ON CONFLICT (tenant_id, dedupe_key) DO NOTHING")
}

func TestAlertRepository_InsertCreated(t *testing.T) {
	tenantID, id := uuid.New(), uuid.New()
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Values: []any{id.String(), created}}
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()
	a := alert.New(alert.Notice{Kind: alert.KindFindingOverdue, Severity: alert.SeverityCritical, Message: "m", DedupeKey: "k"})

	saved, ok, err := NewAlertRepository().Insert(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, saved.ID())
	require.Equal(t, tenantID, saved.TenantID())
	require.Equal(t, created, saved.CreatedAt())
}

func TestAlertRepository_AcknowledgeMissing(t *testing.T) {
	tx := &itf.StubTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	ctx := itf.NewTestContext().WithTx(tx).Context()
	a := alert.New(alert.Notice{}, alert.WithID(uuid.New())).Acknowledge("alice", time.Now())

	_, err := NewAlertRepository().Acknowledge(ctx, a)
	require.ErrorIs(t, err, alert.ErrNotFound)
}
