package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	selectDashboardsQuery = `SELECT d.id, d.tenant_id, d.name, d.is_default, d.created_at, d.updated_at FROM dashboards d`
	countDashboardsQuery  = `SELECT COUNT(*) FROM dashboards d WHERE d.tenant_id = $1`

	insertDashboardQuery = `
		INSERT INTO dashboards (tenant_id, name, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	updateDashboardQuery = `
		UPDATE dashboards SET name = $3, is_default = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteDashboardQuery = `DELETE FROM dashboards WHERE id = $1 AND tenant_id = $2`

	clearDefaultQuery = `UPDATE dashboards SET is_default = false, updated_at = now() WHERE tenant_id = $1 AND id <> $2 AND is_default`

	selectWidgetsQuery = `
		SELECT w.id, w.tenant_id, w.dashboard_id, w.title, w.kind, w.source,
			w.pos_x, w.pos_y, w.width, w.height, w.config, w.created_at, w.updated_at
		FROM dashboard_widgets w
		WHERE w.tenant_id = $1 AND w.dashboard_id = ANY($2::uuid[])
		ORDER BY w.pos_y, w.pos_x`

	insertWidgetQuery = `
		INSERT INTO dashboard_widgets (id, tenant_id, dashboard_id, title, kind, source, pos_x, pos_y, width, height, config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	updateWidgetQuery = `
		UPDATE dashboard_widgets SET
			title = $4, kind = $5, source = $6, pos_x = $7, pos_y = $8, width = $9, height = $10,
			config = $11, updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND dashboard_id = $3
		RETURNING created_at, updated_at`

	deleteWidgetQuery = `DELETE FROM dashboard_widgets WHERE id = $1 AND tenant_id = $2 AND dashboard_id = $3`
)

var dashboardSortFields = map[string]string{
	"name":       "d.name",
	"created_at": "d.created_at",
}

type DashboardRepository struct{}

func NewDashboardRepository() dashboard.Repository {
	return &DashboardRepository{}
}

func (r *DashboardRepository) List(ctx context.Context, params *dashboard.FindParams) ([]dashboard.Dashboard, error) {
	if params == nil {
		params = &dashboard.FindParams{}
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectDashboardsQuery,
		"WHERE d.tenant_id = $1",
		repo.OrderBy(params.SortBy, dashboardSortFields, "d.is_default DESC, d.name"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, tenantID)
}

func (r *DashboardRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countDashboardsQuery, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count dashboards: %w", err)
	}
	return count, nil
}

func (r *DashboardRepository) GetByID(ctx context.Context, id uuid.UUID) (dashboard.Dashboard, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	return r.one(ctx, selectDashboardsQuery+` WHERE d.id = $1 AND d.tenant_id = $2`, id, tenantID)
}

func (r *DashboardRepository) GetDefault(ctx context.Context) (dashboard.Dashboard, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	return r.one(ctx, selectDashboardsQuery+` WHERE d.tenant_id = $1 AND d.is_default`, tenantID)
}

func (r *DashboardRepository) Create(ctx context.Context, d dashboard.Dashboard) (dashboard.Dashboard, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	row := toDBDashboard(d)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertDashboardQuery, tenantID, row.Name, row.IsDefault).
		Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return dashboard.Dashboard{}, dashboard.ErrDuplicateName
		}
		return dashboard.Dashboard{}, fmt.Errorf("create dashboard: %w", err)
	}
	return toDomainDashboard(row, nil)
}

func (r *DashboardRepository) Update(ctx context.Context, d dashboard.Dashboard) (dashboard.Dashboard, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	row := toDBDashboard(d)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateDashboardQuery, d.ID(), tenantID, row.Name, row.IsDefault).
		Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dashboard.Dashboard{}, dashboard.ErrNotFound
		}
		if repo.IsUniqueViolation(err) {
			return dashboard.Dashboard{}, dashboard.ErrDuplicateName
		}
		return dashboard.Dashboard{}, fmt.Errorf("update dashboard: %w", err)
	}
	return toDomainDashboard(row, d.Widgets())
}

func (r *DashboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, deleteDashboardQuery, dashboard.ErrNotFound, "delete dashboard", id)
}

func (r *DashboardRepository) ClearDefault(ctx context.Context, keep uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, clearDefaultQuery, tenantID, keep); err != nil {
		return fmt.Errorf("clear default dashboard: %w", err)
	}
	return nil
}

func (r *DashboardRepository) CreateWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	return r.saveWidget(ctx, insertWidgetQuery, w)
}

func (r *DashboardRepository) UpdateWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	return r.saveWidget(ctx, updateWidgetQuery, w)
}

func (r *DashboardRepository) DeleteWidget(ctx context.Context, dashboardID, widgetID uuid.UUID) error {
	return r.exec(ctx, deleteWidgetQuery, dashboard.ErrWidgetNotFound, "delete widget", widgetID, dashboardID)
}

func (r *DashboardRepository) saveWidget(ctx context.Context, query string, w dashboard.Widget) (dashboard.Widget, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return dashboard.Widget{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return dashboard.Widget{}, err
	}
	row := toDBWidget(w)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, query,
		w.ID(),
		tenantID,
		w.DashboardID(),
		row.Title,
		row.Kind,
		row.Source,
		row.PosX,
		row.PosY,
		row.Width,
		row.Height,
		row.Config,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dashboard.Widget{}, dashboard.ErrWidgetNotFound
		}
		if repo.IsForeignKeyViolation(err) {
			return dashboard.Widget{}, dashboard.ErrNotFound
		}
		return dashboard.Widget{}, fmt.Errorf("save widget: %w", err)
	}
	return toDomainWidget(row)
}

func (r *DashboardRepository) exec(ctx context.Context, query string, notFound error, op string, id uuid.UUID, extra ...any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	args := append([]any{id, tenantID}, extra...)
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func (r *DashboardRepository) one(ctx context.Context, query string, args ...any) (dashboard.Dashboard, error) {
	items, err := r.query(ctx, query, args...)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	if len(items) == 0 {
		return dashboard.Dashboard{}, dashboard.ErrNotFound
	}
	return items[0], nil
}

// query loads dashboards, then their widgets in one round trip.
func (r *DashboardRepository) query(ctx context.Context, query string, args ...any) ([]dashboard.Dashboard, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dashboards: %w", err)
	}
	var dashboards []models.Dashboard
	for rows.Next() {
		var row models.Dashboard
		if err := rows.Scan(&row.ID, &row.TenantID, &row.Name, &row.IsDefault, &row.CreatedAt, &row.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan dashboard: %w", err)
		}
		dashboards = append(dashboards, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]dashboard.Dashboard, 0, len(dashboards))
	if len(dashboards) == 0 {
		return items, nil
	}
	widgets, err := r.widgets(ctx, dashboards)
	if err != nil {
		return nil, err
	}
	for _, row := range dashboards {
		d, err := toDomainDashboard(row, widgets[row.ID])
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}

func (r *DashboardRepository) widgets(ctx context.Context, dashboards []models.Dashboard) (map[string][]dashboard.Widget, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(dashboards))
	for i, d := range dashboards {
		ids[i] = d.ID
	}
	rows, err := tx.Query(ctx, selectWidgetsQuery, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("query widgets: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]dashboard.Widget, len(dashboards))
	for rows.Next() {
		var row models.Widget
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.DashboardID,
			&row.Title,
			&row.Kind,
			&row.Source,
			&row.PosX,
			&row.PosY,
			&row.Width,
			&row.Height,
			&row.Config,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		w, err := toDomainWidget(row)
		if err != nil {
			return nil, err
		}
		out[row.DashboardID] = append(out[row.DashboardID], w)
	}
	return out, rows.Err()
}
