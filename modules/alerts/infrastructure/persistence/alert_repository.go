package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	alertColumns = `a.id, a.tenant_id, a.kind, a.severity, a.subject_type, a.subject_id,
	a.message, a.dedupe_key, a.created_at, a.acknowledged_at, a.acknowledged_by`

	selectAlertsQuery = `SELECT ` + alertColumns + ` FROM alerts a`
	countAlertsQuery  = `SELECT COUNT(*) FROM alerts a`

	insertAlertQuery = `
		INSERT INTO alerts (tenant_id, kind, severity, subject_type, subject_id, message, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, dedupe_key) DO NOTHING
		RETURNING id, created_at`

	acknowledgeAlertQuery = `
		UPDATE alerts SET acknowledged_at = $3, acknowledged_by = $4
		WHERE id = $1 AND tenant_id = $2`
)

type AlertRepository struct{}

func NewAlertRepository() alert.Repository {
	return &AlertRepository{}
}

func (r *AlertRepository) buildFilters(ctx context.Context, params *alert.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("a.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Unacknowledged {
		f.AddRaw("a.acknowledged_at IS NULL")
	}
	if params.Kind != "" {
		f.Add("a.kind = ?", string(params.Kind))
	}
	if params.Severity != "" {
		f.Add("a.severity = ?", string(params.Severity))
	}
	return f, nil
}

func (r *AlertRepository) List(ctx context.Context, params *alert.FindParams) ([]alert.Alert, error) {
	if params == nil {
		params = &alert.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectAlertsQuery,
		f.Where(),
		"ORDER BY a.created_at DESC, a.id",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *AlertRepository) Count(ctx context.Context, params *alert.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countAlertsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return count, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return alert.Alert{}, err
	}
	items, err := r.query(ctx, selectAlertsQuery+` WHERE a.id = $1 AND a.tenant_id = $2`, id, tenantID)
	if err != nil {
		return alert.Alert{}, err
	}
	if len(items) == 0 {
		return alert.Alert{}, alert.ErrNotFound
	}
	return items[0], nil
}

func (r *AlertRepository) Insert(ctx context.Context, a alert.Alert) (alert.Alert, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return alert.Alert{}, false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return alert.Alert{}, false, err
	}
	row := toDBAlert(a)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertAlertQuery,
		tenantID,
		row.Kind,
		row.Severity,
		row.SubjectType,
		row.SubjectID,
		row.Message,
		row.DedupeKey,
	).Scan(&row.ID, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, false, nil
	}
	if err != nil {
		return alert.Alert{}, false, fmt.Errorf("insert alert: %w", err)
	}
	saved, err := toDomainAlert(row)
	if err != nil {
		return alert.Alert{}, false, err
	}
	return saved, true, nil
}

func (r *AlertRepository) Acknowledge(ctx context.Context, a alert.Alert) (alert.Alert, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return alert.Alert{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return alert.Alert{}, err
	}
	tag, err := tx.Exec(ctx, acknowledgeAlertQuery, a.ID(), tenantID, a.AcknowledgedAt(), a.AcknowledgedBy())
	if err != nil {
		return alert.Alert{}, fmt.Errorf("acknowledge alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return alert.Alert{}, alert.ErrNotFound
	}
	return a, nil
}

func (r *AlertRepository) query(ctx context.Context, query string, args ...any) ([]alert.Alert, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	items := make([]alert.Alert, 0)
	for rows.Next() {
		var row models.Alert
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Kind,
			&row.Severity,
			&row.SubjectType,
			&row.SubjectID,
			&row.Message,
			&row.DedupeKey,
			&row.CreatedAt,
			&row.AcknowledgedAt,
			&row.AcknowledgedBy,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a, err := toDomainAlert(row)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return items, nil
}
