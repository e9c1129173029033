package persistence

import (
	"context"
	"fmt"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	selectAssessmentsQuery = `
		SELECT tenant_id, requirement_id, status, note, updated_by, updated_at
		FROM maturity_assessments WHERE tenant_id = $1 ORDER BY requirement_id`

	upsertAssessmentQuery = `
		INSERT INTO maturity_assessments (tenant_id, requirement_id, status, note, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, requirement_id) DO UPDATE SET
			status = EXCLUDED.status, note = EXCLUDED.note,
			updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	insertSnapshotQuery = `
		INSERT INTO maturity_snapshots (tenant_id, taken_at, overall, pillars)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING id`

	selectSnapshotsQuery = `
		SELECT id, tenant_id, taken_at, overall::text, pillars
		FROM maturity_snapshots WHERE tenant_id = $1 ORDER BY taken_at DESC, id`
)

type AssessmentRepository struct{}

func NewAssessmentRepository() assessment.Repository {
	return &AssessmentRepository{}
}

func (r *AssessmentRepository) List(ctx context.Context) ([]assessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAssessmentsQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		var row models.Assessment
		if err := rows.Scan(&row.TenantID, &row.RequirementID, &row.Status, &row.Note, &row.UpdatedBy, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a, err := toDomainAssessment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssessmentRepository) Upsert(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assessment.Assessment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assessment.Assessment{}, err
	}
	updatedAt := a.UpdatedAt()
	if err := tx.QueryRow(ctx, upsertAssessmentQuery,
		tenantID,
		a.RequirementID(),
		string(a.Status()),
		a.Note(),
		a.UpdatedBy(),
		updatedAt,
	).Scan(&updatedAt); err != nil {
		return assessment.Assessment{}, fmt.Errorf("upsert assessment: %w", err)
	}
	return assessment.Restore(tenantID, a.RequirementID(), a.Status(), a.Note(), a.UpdatedBy(), updatedAt), nil
}

type SnapshotRepository struct{}

func NewSnapshotRepository() snapshot.Repository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Create(ctx context.Context, s snapshot.Snapshot) (snapshot.Snapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	row, err := toDBSnapshot(s)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	row.TenantID = tenantID.String()
	if err := tx.QueryRow(ctx, insertSnapshotQuery, tenantID, row.TakenAt, row.Overall, row.Pillars).Scan(&row.ID); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	return toDomainSnapshot(row)
}

func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]snapshot.Snapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, repo.Join(selectSnapshotsQuery, repo.FormatLimitOffset(limit, 0)), tenantID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]snapshot.Snapshot, 0)
	for rows.Next() {
		var row models.Snapshot
		if err := rows.Scan(&row.ID, &row.TenantID, &row.TakenAt, &row.Overall, &row.Pillars); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s, err := toDomainSnapshot(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
