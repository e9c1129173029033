package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	selectActionLogsQuery = `
		SELECT id, tenant_id, user_id, kind, method, path, before, after, user_agent, ip, created_at
		FROM action_logs`

	countActionLogsQuery = `SELECT COUNT(*) FROM action_logs`

	insertActionLogQuery = `
		INSERT INTO action_logs (tenant_id, user_id, kind, method, path, before, after, user_agent, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
)

type ActionLogRepository struct{}

func NewActionLogRepository() actionlog.Repository {
	return &ActionLogRepository{}
}

func (r *ActionLogRepository) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f, err := buildActionLogFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	query := repo.Join(selectActionLogsQuery, f.Where(), "ORDER BY created_at DESC, id DESC")
	if params != nil {
		query = repo.Join(query, repo.FormatLimitOffset(params.Limit, params.Offset))
	}

	rows, err := tx.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query action logs: %w", err)
	}
	defer rows.Close()

	results := make([]*actionlog.ActionLog, 0)
	for rows.Next() {
		var row models.ActionLog
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.UserID,
			&row.Kind,
			&row.Method,
			&row.Path,
			&row.Before,
			&row.After,
			&row.UserAgent,
			&row.IP,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan action log: %w", err)
		}
		results = append(results, toDomainActionLog(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ActionLogRepository) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := buildActionLogFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countActionLogsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count action logs: %w", err)
	}
	return count, nil
}

// Create stores log under the tenant in ctx and fills in ID and CreatedAt.
func (r *ActionLogRepository) Create(ctx context.Context, log *actionlog.ActionLog) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	log.TenantID = tenantID

	dbRow := toDBActionLog(log)
	if dbRow.CreatedAt.IsZero() {
		dbRow.CreatedAt = time.Now()
	}
	return tx.QueryRow(
		ctx,
		insertActionLogQuery,
		tenantID,
		dbRow.UserID,
		dbRow.Kind,
		dbRow.Method,
		dbRow.Path,
		dbRow.Before,
		dbRow.After,
		dbRow.UserAgent,
		dbRow.IP,
		dbRow.CreatedAt,
	).Scan(&log.ID, &log.CreatedAt)
}

func buildActionLogFilters(ctx context.Context, params *actionlog.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if userID := strings.TrimSpace(params.UserID); userID != "" {
		f.Add("user_id = ?", userID)
	}
	if params.Kind != "" {
		f.Add("kind = ?", string(params.Kind))
	}
	if method := strings.TrimSpace(params.Method); method != "" {
		f.Add("method = ?", strings.ToUpper(method))
	}
	if path := strings.TrimSpace(params.Path); path != "" {
		f.Add("path ILIKE ?", "%"+path+"%")
	}
	if params.From != nil && !params.From.IsZero() {
		f.Add("created_at >= ?", *params.From)
	}
	if params.To != nil && !params.To.IsZero() {
		f.Add("created_at <= ?", *params.To)
	}
	return f, nil
}
