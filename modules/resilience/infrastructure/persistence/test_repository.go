package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/resilience/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	selectTestsQuery = `SELECT t.id, t.tenant_id, t.name, t.test_type, t.scope, t.tester, t.planned_date,
		t.executed_date, t.status, t.critical_functions, t.created_at, t.updated_at
		FROM resilience_tests t`
	countTestsQuery = `SELECT COUNT(*) FROM resilience_tests t`

	insertTestQuery = `
		INSERT INTO resilience_tests (
			tenant_id, name, test_type, scope, tester, planned_date, executed_date, status, critical_functions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	updateTestQuery = `
		UPDATE resilience_tests SET
			name = $3, test_type = $4, scope = $5, tester = $6, planned_date = $7, executed_date = $8,
			status = $9, critical_functions = $10, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteTestQuery = `DELETE FROM resilience_tests WHERE id = $1 AND tenant_id = $2`
)

var testSortFields = map[string]string{
	"name":          "t.name",
	"type":          "t.test_type",
	"planned_date":  "t.planned_date",
	"executed_date": "t.executed_date",
	"created_at":    "t.created_at",
}

type TestRepository struct{}

func NewTestRepository() resiliencetest.Repository {
	return &TestRepository{}
}

func (r *TestRepository) buildFilters(ctx context.Context, params *resiliencetest.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("t.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Q != "" {
		f.Add("t.name ILIKE ?", "%"+params.Q+"%")
	}
	if params.Type != "" {
		f.Add("t.test_type = ?", string(params.Type))
	}
	if params.Status != "" {
		f.Add("t.status = ?", string(params.Status))
	}
	return f, nil
}

func (r *TestRepository) List(ctx context.Context, params *resiliencetest.FindParams) ([]resiliencetest.Test, error) {
	if params == nil {
		params = &resiliencetest.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectTestsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, testSortFields, "t.planned_date DESC NULLS LAST, t.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *TestRepository) Count(ctx context.Context, params *resiliencetest.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countTestsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resilience tests: %w", err)
	}
	return count, nil
}

func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (resiliencetest.Test, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	tests, err := r.query(ctx, selectTestsQuery+` WHERE t.id = $1 AND t.tenant_id = $2`, id, tenantID)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	if len(tests) == 0 {
		return resiliencetest.Test{}, resiliencetest.ErrNotFound
	}
	return tests[0], nil
}

func (r *TestRepository) Create(ctx context.Context, t resiliencetest.Test) (resiliencetest.Test, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	row := toDBTest(t)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertTestQuery,
		tenantID,
		row.Name,
		row.Type,
		row.Scope,
		row.Tester,
		row.PlannedDate,
		row.ExecutedDate,
		row.Status,
		row.CriticalFunctions,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return resiliencetest.Test{}, fmt.Errorf("create resilience test: %w", err)
	}
	return toDomainTest(row)
}

func (r *TestRepository) Update(ctx context.Context, t resiliencetest.Test) (resiliencetest.Test, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return resiliencetest.Test{}, err
	}
	row := toDBTest(t)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateTestQuery,
		t.ID(),
		tenantID,
		row.Name,
		row.Type,
		row.Scope,
		row.Tester,
		row.PlannedDate,
		row.ExecutedDate,
		row.Status,
		row.CriticalFunctions,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resiliencetest.Test{}, resiliencetest.ErrNotFound
		}
		return resiliencetest.Test{}, fmt.Errorf("update resilience test: %w", err)
	}
	return toDomainTest(row)
}

func (r *TestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteTestQuery, id, tenantID)
	if err != nil {
		if repo.IsForeignKeyViolation(err) {
			return resiliencetest.ErrHasFindings
		}
		return fmt.Errorf("delete resilience test: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return resiliencetest.ErrNotFound
	}
	return nil
}

func (r *TestRepository) query(ctx context.Context, query string, args ...any) ([]resiliencetest.Test, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resilience tests: %w", err)
	}
	defer rows.Close()

	tests := make([]resiliencetest.Test, 0)
	for rows.Next() {
		var row models.Test
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Name,
			&row.Type,
			&row.Scope,
			&row.Tester,
			&row.PlannedDate,
			&row.ExecutedDate,
			&row.Status,
			&row.CriticalFunctions,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan resilience test: %w", err)
		}
		t, err := toDomainTest(row)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
