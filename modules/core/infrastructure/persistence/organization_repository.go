package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
)

const organizationColumns = `id, name, COALESCE(lei, ''), entity_type, COALESCE(country, ''), competent_authority,
	size, COALESCE(parent_lei, ''), onboarding_steps, onboarding_data, onboarding_finished, created_at, updated_at`

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) Get(ctx context.Context) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	var row models.Organization
	err = tx.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, tenantID).Scan(
		&row.ID,
		&row.Name,
		&row.LEI,
		&row.EntityType,
		&row.Country,
		&row.CompetentAuthority,
		&row.Size,
		&row.ParentLEI,
		&row.OnboardingSteps,
		&row.OnboardingData,
		&row.OnboardingFinished,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrNotFound
		}
		return organization.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return toDomainOrganization(row)
}

// Save upserts the organization of the tenant in ctx.
func (r *OrganizationRepository) Save(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	if o.ID() != tenantID {
		return organization.Organization{}, organization.ErrNotFound
	}
	row, err := toDBOrganization(o)
	if err != nil {
		return organization.Organization{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (
			id, name, lei, entity_type, country, competent_authority, size, parent_lei,
			onboarding_steps, onboarding_data, onboarding_finished
		) VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			lei = EXCLUDED.lei,
			entity_type = EXCLUDED.entity_type,
			country = EXCLUDED.country,
			competent_authority = EXCLUDED.competent_authority,
			size = EXCLUDED.size,
			parent_lei = EXCLUDED.parent_lei,
			onboarding_steps = EXCLUDED.onboarding_steps,
			onboarding_data = EXCLUDED.onboarding_data,
			onboarding_finished = EXCLUDED.onboarding_finished,
			updated_at = now()
		RETURNING created_at, updated_at`,
		tenantID,
		row.Name,
		row.LEI,
		row.EntityType,
		row.Country,
		row.CompetentAuthority,
		row.Size,
		row.ParentLEI,
		row.OnboardingSteps,
		row.OnboardingData,
		row.OnboardingFinished,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return organization.Organization{}, fmt.Errorf("save organization: %w", err)
	}
	return toDomainOrganization(row)
}

func (r *OrganizationRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT id FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
