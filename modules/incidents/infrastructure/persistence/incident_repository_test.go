package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/pkg/itf"
)

func incidentRow(id, tenantID uuid.UUID, classifiedAt any) []any {
	detected := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return []any{
		id.String(), tenantID.String(), "INC-1", "Payments outage", "", detected, nil,
		classifiedAt, nil, "classified", []byte(`{"clients_affected":150000,"downtime_hours":3,"data_loss":"none"}`), true,
		nil, nil, nil, "", nil, detected, detected,
	}
}

func TestIncidentRepository_ListFilters(t *testing.T) {
	tenantID := uuid.New()
	classified := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tx := &itf.StubTx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return itf.NewRows(incidentRow(uuid.New(), tenantID, classified)), nil
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()
	major := true

	items, err := NewIncidentRepository().List(ctx, &incident.FindParams{Major: &major, Open: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Major())
	require.Equal(t, incident.StatusClassified, items[0].Status())
	require.Equal(t, int64(150000), items[0].Criteria().ClientsAffected)
	require.Equal(t, classified, *items[0].ClassifiedAt())

	call, ok := tx.LastCall("FROM incidents i")
	require.True(t, ok)
	require.Contains(t, call.SQL, "i.major = $2")
	require.Contains(t, call.SQL, "i.status <> 'closed'")
	require.Contains(t, call.SQL, "ORDER BY i.detected_at DESC")
	require.Equal(t, []any{tenantID, true}, call.Args)
}

func TestIncidentRepository_CreateMapsConstraintErrors(t *testing.T) {
	for code, want := range map[string]error{
		"23505": incident.ErrReferenceTaken,
		"23503": incident.ErrUnknownVendor,
	} {
		tx := &itf.StubTx{
			QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return itf.Row{Err: &pgconn.PgError{Code: code}}
			},
		}
		ctx := itf.NewTestContext().WithTx(tx).Context()
		_, err := NewIncidentRepository().Create(ctx, incident.New(incident.DTO{Reference: "INC-1", DetectedAt: time.Now()}))
		require.ErrorIs(t, err, want)
	}
}

func TestIncidentRepository_UpdateNotFound(t *testing.T) {
	ctx := itf.NewTestContext().WithTx(&itf.StubTx{}).Context()
	_, err := NewIncidentRepository().Update(ctx, incident.New(incident.DTO{Reference: "INC-1"}, incident.WithID(uuid.New())))
	require.ErrorIs(t, err, incident.ErrNotFound)
}

func TestIncidentRepository_DeleteNotFound(t *testing.T) {
	tx := &itf.StubTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	ctx := itf.NewTestContext().WithTx(tx).Context()
	require.ErrorIs(t, NewIncidentRepository().Delete(ctx, uuid.New()), incident.ErrNotFound)
}
