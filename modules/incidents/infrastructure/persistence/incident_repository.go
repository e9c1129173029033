package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/incidents/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	incidentColumns = `i.id, i.tenant_id, i.reference, i.title, i.description, i.detected_at, i.occurred_at,
	i.classified_at, i.resolved_at, i.status, i.criteria, i.major, i.initial_notified_at,
	i.intermediate_notified_at, i.final_notified_at, i.root_cause, i.vendor_id, i.created_at, i.updated_at`

	selectIncidentsQuery = `SELECT ` + incidentColumns + ` FROM incidents i`
	countIncidentsQuery  = `SELECT COUNT(*) FROM incidents i`

	insertIncidentQuery = `
		INSERT INTO incidents (
			tenant_id, reference, title, description, detected_at, occurred_at, classified_at, resolved_at,
			status, criteria, major, initial_notified_at, intermediate_notified_at, final_notified_at,
			root_cause, vendor_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	updateIncidentQuery = `
		UPDATE incidents SET
			reference = $3, title = $4, description = $5, detected_at = $6, occurred_at = $7,
			classified_at = $8, resolved_at = $9, status = $10, criteria = $11, major = $12,
			initial_notified_at = $13, intermediate_notified_at = $14, final_notified_at = $15,
			root_cause = $16, vendor_id = $17, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteIncidentQuery = `DELETE FROM incidents WHERE id = $1 AND tenant_id = $2`
)

var incidentSortFields = map[string]string{
	"reference":   "i.reference",
	"detected_at": "i.detected_at",
	"status":      "i.status",
	"created_at":  "i.created_at",
	"updated_at":  "i.updated_at",
}

type IncidentRepository struct{}

func NewIncidentRepository() incident.Repository {
	return &IncidentRepository{}
}

func (r *IncidentRepository) buildFilters(ctx context.Context, params *incident.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("i.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Q != "" {
		f.Add("(i.reference || ' ' || i.title) ILIKE ?", "%"+params.Q+"%")
	}
	if params.Status != "" {
		f.Add("i.status = ?", string(params.Status))
	}
	if params.Major != nil {
		f.Add("i.major = ?", *params.Major)
	}
	if params.Open {
		f.AddRaw("i.status <> 'closed'")
	}
	if params.VendorID != nil {
		f.Add("i.vendor_id = ?", *params.VendorID)
	}
	if params.DetectedFrom != nil {
		f.Add("i.detected_at >= ?", *params.DetectedFrom)
	}
	return f, nil
}

func (r *IncidentRepository) List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, error) {
	if params == nil {
		params = &incident.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectIncidentsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, incidentSortFields, "i.detected_at DESC, i.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *IncidentRepository) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countIncidentsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return count, nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return incident.Incident{}, err
	}
	incidents, err := r.query(ctx, selectIncidentsQuery+` WHERE i.id = $1 AND i.tenant_id = $2`, id, tenantID)
	if err != nil {
		return incident.Incident{}, err
	}
	if len(incidents) == 0 {
		return incident.Incident{}, incident.ErrNotFound
	}
	return incidents[0], nil
}

func (r *IncidentRepository) Create(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return incident.Incident{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return incident.Incident{}, err
	}
	row, err := toDBIncident(i)
	if err != nil {
		return incident.Incident{}, err
	}
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertIncidentQuery,
		tenantID,
		row.Reference,
		row.Title,
		row.Description,
		row.DetectedAt,
		row.OccurredAt,
		row.ClassifiedAt,
		row.ResolvedAt,
		row.Status,
		row.Criteria,
		row.Major,
		row.InitialAt,
		row.IntermediateAt,
		row.FinalAt,
		row.RootCause,
		i.VendorID(),
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return incident.Incident{}, mapWriteError("create incident", err)
	}
	return toDomainIncident(row)
}

func (r *IncidentRepository) Update(ctx context.Context, i incident.Incident) (incident.Incident, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return incident.Incident{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return incident.Incident{}, err
	}
	row, err := toDBIncident(i)
	if err != nil {
		return incident.Incident{}, err
	}
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateIncidentQuery,
		i.ID(),
		tenantID,
		row.Reference,
		row.Title,
		row.Description,
		row.DetectedAt,
		row.OccurredAt,
		row.ClassifiedAt,
		row.ResolvedAt,
		row.Status,
		row.Criteria,
		row.Major,
		row.InitialAt,
		row.IntermediateAt,
		row.FinalAt,
		row.RootCause,
		i.VendorID(),
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incident.Incident{}, incident.ErrNotFound
		}
		return incident.Incident{}, mapWriteError("update incident", err)
	}
	return toDomainIncident(row)
}

func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteIncidentQuery, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return incident.ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case repo.IsUniqueViolation(err):
		return incident.ErrReferenceTaken
	case repo.IsForeignKeyViolation(err):
		return incident.ErrUnknownVendor
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r *IncidentRepository) query(ctx context.Context, query string, args ...any) ([]incident.Incident, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]incident.Incident, 0)
	for rows.Next() {
		var row models.Incident
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Reference,
			&row.Title,
			&row.Description,
			&row.DetectedAt,
			&row.OccurredAt,
			&row.ClassifiedAt,
			&row.ResolvedAt,
			&row.Status,
			&row.Criteria,
			&row.Major,
			&row.InitialAt,
			&row.IntermediateAt,
			&row.FinalAt,
			&row.RootCause,
			&row.VendorID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		i, err := toDomainIncident(row)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, i)
	}
	return incidents, rows.Err()
}
