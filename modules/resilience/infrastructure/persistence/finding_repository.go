package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	selectFindingsQuery = `SELECT f.id, f.tenant_id, f.test_id, f.title, f.description, f.severity, f.status,
		f.owner, f.due_date, f.remediated_at, f.created_at, f.updated_at
		FROM resilience_findings f`
	countFindingsQuery = `SELECT COUNT(*) FROM resilience_findings f`

	insertFindingQuery = `
		INSERT INTO resilience_findings (
			tenant_id, test_id, title, description, severity, status, owner, due_date, remediated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	updateFindingQuery = `
		UPDATE resilience_findings SET
			test_id = $3, title = $4, description = $5, severity = $6, status = $7, owner = $8,
			due_date = $9, remediated_at = $10, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteFindingQuery = `DELETE FROM resilience_findings WHERE id = $1 AND tenant_id = $2`
)

// severityRank orders findings from critical down to info.
const severityRank = `CASE f.severity WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END`

var findingSortFields = map[string]string{
	"title":      "f.title",
	"severity":   severityRank,
	"status":     "f.status",
	"due_date":   "f.due_date",
	"created_at": "f.created_at",
}

type FindingRepository struct{}

func NewFindingRepository() finding.Repository {
	return &FindingRepository{}
}

func (r *FindingRepository) buildFilters(ctx context.Context, params *finding.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("f.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Q != "" {
		f.Add("f.title ILIKE ?", "%"+params.Q+"%")
	}
	if params.TestID != nil {
		f.Add("f.test_id = ?", *params.TestID)
	}
	if params.Severity != "" {
		f.Add("f.severity = ?", string(params.Severity))
	}
	if params.Status != "" {
		f.Add("f.status = ?", string(params.Status))
	}
	if params.Overdue {
		f.AddRaw("f.status IN ('open', 'in_progress') AND f.due_date < CURRENT_DATE")
	}
	return f, nil
}

func (r *FindingRepository) List(ctx context.Context, params *finding.FindParams) ([]finding.Finding, error) {
	if params == nil {
		params = &finding.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectFindingsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, findingSortFields, severityRank+", f.due_date NULLS LAST, f.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *FindingRepository) Count(ctx context.Context, params *finding.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countFindingsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count findings: %w", err)
	}
	return count, nil
}

func (r *FindingRepository) GetByID(ctx context.Context, id uuid.UUID) (finding.Finding, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return finding.Finding{}, err
	}
	findings, err := r.query(ctx, selectFindingsQuery+` WHERE f.id = $1 AND f.tenant_id = $2`, id, tenantID)
	if err != nil {
		return finding.Finding{}, err
	}
	if len(findings) == 0 {
		return finding.Finding{}, finding.ErrNotFound
	}
	return findings[0], nil
}

func (r *FindingRepository) Create(ctx context.Context, fnd finding.Finding) (finding.Finding, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return finding.Finding{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return finding.Finding{}, err
	}
	row := toDBFinding(fnd)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertFindingQuery,
		tenantID,
		fnd.TestID(),
		row.Title,
		row.Description,
		row.Severity,
		row.Status,
		row.Owner,
		row.DueDate,
		row.RemediatedAt,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return finding.Finding{}, mapFindingWriteError("create finding", err)
	}
	return toDomainFinding(row)
}

func (r *FindingRepository) Update(ctx context.Context, fnd finding.Finding) (finding.Finding, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return finding.Finding{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return finding.Finding{}, err
	}
	row := toDBFinding(fnd)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateFindingQuery,
		fnd.ID(),
		tenantID,
		fnd.TestID(),
		row.Title,
		row.Description,
		row.Severity,
		row.Status,
		row.Owner,
		row.DueDate,
		row.RemediatedAt,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finding.Finding{}, finding.ErrNotFound
		}
		return finding.Finding{}, mapFindingWriteError("update finding", err)
	}
	return toDomainFinding(row)
}

func (r *FindingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteFindingQuery, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete finding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finding.ErrNotFound
	}
	return nil
}

func mapFindingWriteError(op string, err error) error {
	if repo.IsForeignKeyViolation(err) {
		return finding.ErrUnknownTest
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *FindingRepository) query(ctx context.Context, query string, args ...any) ([]finding.Finding, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	findings := make([]finding.Finding, 0)
	for rows.Next() {
		var row models.Finding
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.TestID,
			&row.Title,
			&row.Description,
			&row.Severity,
			&row.Status,
			&row.Owner,
			&row.DueDate,
			&row.RemediatedAt,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		fnd, err := toDomainFinding(row)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fnd)
	}
	return findings, rows.Err()
}
