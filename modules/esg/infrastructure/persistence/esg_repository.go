package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/esg/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	assessmentColumns = `a.id, a.tenant_id, a.vendor_id::text, a.environmental, a.social, a.governance,
	a.weight_environmental::text, a.weight_social::text, a.weight_governance::text, a.overall::text, a.rating,
	a.assessed_at, a.notes, a.created_at, a.updated_at`

	selectAssessmentsQuery = `SELECT ` + assessmentColumns + ` FROM esg_assessments a`
	countAssessmentsQuery  = `SELECT COUNT(*) FROM esg_assessments a`

	selectLatestQuery = `
		SELECT DISTINCT ON (a.vendor_id) ` + assessmentColumns + `
		FROM esg_assessments a
		WHERE a.tenant_id = $1
		ORDER BY a.vendor_id NULLS FIRST, a.assessed_at DESC, a.created_at DESC`

	insertAssessmentQuery = `
		INSERT INTO esg_assessments (
			tenant_id, vendor_id, environmental, social, governance,
			weight_environmental, weight_social, weight_governance, overall, rating, assessed_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	updateAssessmentQuery = `
		UPDATE esg_assessments SET
			vendor_id = $3, environmental = $4, social = $5, governance = $6,
			weight_environmental = $7::numeric, weight_social = $8::numeric, weight_governance = $9::numeric,
			overall = $10::numeric, rating = $11, assessed_at = $12, notes = $13, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteAssessmentQuery = `DELETE FROM esg_assessments WHERE id = $1 AND tenant_id = $2`
)

var assessmentSortFields = map[string]string{
	"assessed_at": "a.assessed_at",
	"overall":     "a.overall",
	"rating":      "a.rating",
	"created_at":  "a.created_at",
}

type AssessmentRepository struct{}

func NewAssessmentRepository() esgassessment.Repository {
	return &AssessmentRepository{}
}

func (r *AssessmentRepository) buildFilters(ctx context.Context, params *esgassessment.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("a.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	switch {
	case params.Organization:
		f.AddRaw("a.vendor_id IS NULL")
	case params.VendorID != nil:
		f.Add("a.vendor_id = ?", *params.VendorID)
	}
	if params.Rating != "" {
		f.Add("a.rating = ?", string(params.Rating))
	}
	return f, nil
}

func (r *AssessmentRepository) List(ctx context.Context, params *esgassessment.FindParams) ([]esgassessment.Assessment, error) {
	if params == nil {
		params = &esgassessment.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectAssessmentsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, assessmentSortFields, "a.assessed_at DESC, a.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *AssessmentRepository) Count(ctx context.Context, params *esgassessment.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countAssessmentsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count esg assessments: %w", err)
	}
	return count, nil
}

func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (esgassessment.Assessment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	items, err := r.query(ctx, selectAssessmentsQuery+` WHERE a.id = $1 AND a.tenant_id = $2`, id, tenantID)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	if len(items) == 0 {
		return esgassessment.Assessment{}, esgassessment.ErrNotFound
	}
	return items[0], nil
}

func (r *AssessmentRepository) Latest(ctx context.Context) ([]esgassessment.Assessment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, selectLatestQuery, tenantID)
}

func (r *AssessmentRepository) Create(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	row := toDBAssessment(a)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertAssessmentQuery,
		tenantID,
		row.VendorID,
		row.Environmental,
		row.Social,
		row.Governance,
		row.WeightEnvironmental,
		row.WeightSocial,
		row.WeightGovernance,
		row.Overall,
		row.Rating,
		row.AssessedAt,
		row.Notes,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if repo.IsForeignKeyViolation(err) {
			return esgassessment.Assessment{}, esgassessment.ErrUnknownVendor
		}
		return esgassessment.Assessment{}, fmt.Errorf("create esg assessment: %w", err)
	}
	return toDomainAssessment(row)
}

func (r *AssessmentRepository) Update(ctx context.Context, a esgassessment.Assessment) (esgassessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	row := toDBAssessment(a)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateAssessmentQuery,
		a.ID(),
		tenantID,
		row.VendorID,
		row.Environmental,
		row.Social,
		row.Governance,
		row.WeightEnvironmental,
		row.WeightSocial,
		row.WeightGovernance,
		row.Overall,
		row.Rating,
		row.AssessedAt,
		row.Notes,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return esgassessment.Assessment{}, esgassessment.ErrNotFound
		}
		if repo.IsForeignKeyViolation(err) {
			return esgassessment.Assessment{}, esgassessment.ErrUnknownVendor
		}
		return esgassessment.Assessment{}, fmt.Errorf("update esg assessment: %w", err)
	}
	return toDomainAssessment(row)
}

func (r *AssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteAssessmentQuery, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete esg assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return esgassessment.ErrNotFound
	}
	return nil
}

func (r *AssessmentRepository) query(ctx context.Context, query string, args ...any) ([]esgassessment.Assessment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query esg assessments: %w", err)
	}
	defer rows.Close()

	items := make([]esgassessment.Assessment, 0)
	for rows.Next() {
		var row models.Assessment
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.VendorID,
			&row.Environmental,
			&row.Social,
			&row.Governance,
			&row.WeightEnvironmental,
			&row.WeightSocial,
			&row.WeightGovernance,
			&row.Overall,
			&row.Rating,
			&row.AssessedAt,
			&row.Notes,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan esg assessment: %w", err)
		}
		a, err := toDomainAssessment(row)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
