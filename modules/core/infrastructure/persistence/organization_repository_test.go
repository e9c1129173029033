package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/pkg/itf"
)

func TestOrganizationRepository_GetNotFound(t *testing.T) {
	tx := &itf.StubTx{}
	ctx := itf.NewTestContext().WithTx(tx).Context()

	_, err := NewOrganizationRepository().Get(ctx)
	require.ErrorIs(t, err, organization.ErrNotFound)
}

func TestOrganizationRepository_GetHydrates(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Values: []any{
				tenantID.String(), "Acme Bank", "5493001KJTIIGC8Y1R12", "credit_institution", "DE", "BaFin",
				"large", "", []string{"profile", "entities"}, []byte(`{"entities":{"entities":[]}}`), false, now, now,
			}}
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()

	org, err := NewOrganizationRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, tenantID, org.ID())
	require.Equal(t, organization.EntityCreditInstitution, org.EntityType())
	require.Equal(t, organization.StepICTServices, org.Onboarding().Current())
	require.JSONEq(t, `{"entities":[]}`, string(org.Onboarding().Data[organization.StepEntities]))

	call, ok := tx.LastCall("FROM organizations")
	require.True(t, ok)
	require.Equal(t, []any{tenantID}, call.Args)
}

func TestOrganizationRepository_SaveRejectsForeignTenant(t *testing.T) {
	ctx := itf.NewTestContext().WithTx(&itf.StubTx{}).Context()
	_, err := NewOrganizationRepository().Save(ctx, organization.New(uuid.New()))
	require.ErrorIs(t, err, organization.ErrNotFound)
}

func TestOrganizationRepository_Save(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Values: []any{now, now}}
		},
	}
	ctx := itf.NewTestContext().WithTenant(tenantID).WithTx(tx).Context()

	ob := organization.Onboarding{}.Submit(organization.StepProfile, json.RawMessage(`{"name":"Acme"}`))
	org := organization.New(tenantID).ApplyProfile(organization.ProfileDTO{Name: "Acme", LEI: "5493001KJTIIGC8Y1R12"}).WithOnboarding(ob)

	saved, err := NewOrganizationRepository().Save(ctx, org)
	require.NoError(t, err)
	require.True(t, saved.IsPersisted())

	call, ok := tx.LastCall("INSERT INTO organizations")
	require.True(t, ok)
	require.Equal(t, tenantID, call.Args[0])
	require.Equal(t, []string{"profile"}, call.Args[8])
}
