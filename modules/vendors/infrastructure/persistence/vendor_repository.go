package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	vendorColumns = `v.id, v.tenant_id, v.name, COALESCE(v.lei, ''), COALESCE(v.other_id, ''), COALESCE(v.other_id_type, ''),
	v.person_type, v.hq_country, COALESCE(v.parent_lei, ''), COALESCE(v.ultimate_parent_lei, ''), v.criticality,
	v.substitutability, v.supports_critical_function, v.annual_expense_amount, COALESCE(v.annual_expense_currency, ''),
	v.status, v.notes, v.created_at, v.updated_at`

	selectVendorsQuery = `SELECT ` + vendorColumns + ` FROM vendors v`
	countVendorsQuery  = `SELECT COUNT(*) FROM vendors v`

	insertVendorQuery = `
		INSERT INTO vendors (
			tenant_id, name, lei, other_id, other_id_type, person_type, hq_country, parent_lei, ultimate_parent_lei,
			criticality, substitutability, supports_critical_function, annual_expense_amount, annual_expense_currency,
			status, notes
		) VALUES (
			$1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, ''), NULLIF($9, ''),
			$10, $11, $12, $13, NULLIF($14, ''), $15, $16
		) RETURNING id, created_at, updated_at`

	updateVendorQuery = `
		UPDATE vendors SET
			name = $3, lei = NULLIF($4, ''), other_id = NULLIF($5, ''), other_id_type = NULLIF($6, ''),
			person_type = $7, hq_country = $8, parent_lei = NULLIF($9, ''), ultimate_parent_lei = NULLIF($10, ''),
			criticality = $11, substitutability = $12, supports_critical_function = $13,
			annual_expense_amount = $14, annual_expense_currency = NULLIF($15, ''), status = $16, notes = $17,
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteVendorQuery = `DELETE FROM vendors WHERE id = $1 AND tenant_id = $2`
)

var vendorSortFields = map[string]string{
	"name":        "v.name",
	"criticality": "v.criticality",
	"country":     "v.hq_country",
	"status":      "v.status",
	"created_at":  "v.created_at",
	"updated_at":  "v.updated_at",
}

type VendorRepository struct{}

func NewVendorRepository() vendor.Repository {
	return &VendorRepository{}
}

func (r *VendorRepository) buildFilters(ctx context.Context, params *vendor.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("v.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Q != "" {
		f.Add("(v.name || ' ' || COALESCE(v.lei, '') || ' ' || COALESCE(v.other_id, '')) ILIKE ?", "%"+params.Q+"%")
	}
	if params.Criticality != "" {
		f.Add("v.criticality = ?", params.Criticality)
	}
	if params.Country != "" {
		f.Add("v.hq_country = ?", params.Country)
	}
	if params.Status != "" {
		f.Add("v.status = ?", params.Status)
	}
	if len(params.IDs) > 0 {
		f.Add("v.id = ANY(?)", params.IDs)
	}
	return f, nil
}

func (r *VendorRepository) List(ctx context.Context, params *vendor.FindParams) ([]vendor.Vendor, error) {
	if params == nil {
		params = &vendor.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectVendorsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, vendorSortFields, "v.name, v.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *VendorRepository) Count(ctx context.Context, params *vendor.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countVendorsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return count, nil
}

func (r *VendorRepository) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}
	vendors, err := r.query(ctx, selectVendorsQuery+` WHERE v.id = $1 AND v.tenant_id = $2`, id, tenantID)
	if err != nil {
		return vendor.Vendor{}, err
	}
	if len(vendors) == 0 {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return vendors[0], nil
}

func (r *VendorRepository) Create(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}
	row := toDBVendor(v)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertVendorQuery,
		tenantID,
		row.Name,
		row.LEI,
		row.OtherID,
		row.OtherIDType,
		row.PersonType,
		row.HQCountry,
		row.ParentLEI,
		row.UltimateParentLEI,
		row.Criticality,
		row.Substitutability,
		row.SupportsCriticalFunction,
		row.AnnualExpenseAmount,
		row.AnnualExpenseCurrency,
		row.Status,
		row.Notes,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return vendor.Vendor{}, vendor.ErrDuplicateLEI
		}
		return vendor.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return toDomainVendor(row)
}

func (r *VendorRepository) Update(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}
	row := toDBVendor(v)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateVendorQuery,
		v.ID(),
		tenantID,
		row.Name,
		row.LEI,
		row.OtherID,
		row.OtherIDType,
		row.PersonType,
		row.HQCountry,
		row.ParentLEI,
		row.UltimateParentLEI,
		row.Criticality,
		row.Substitutability,
		row.SupportsCriticalFunction,
		row.AnnualExpenseAmount,
		row.AnnualExpenseCurrency,
		row.Status,
		row.Notes,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vendor.Vendor{}, vendor.ErrNotFound
		}
		if repo.IsUniqueViolation(err) {
			return vendor.Vendor{}, vendor.ErrDuplicateLEI
		}
		return vendor.Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return toDomainVendor(row)
}

func (r *VendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteVendorQuery, id, tenantID)
	if err != nil {
		if repo.IsForeignKeyViolation(err) {
			return vendor.ErrHasContracts
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) query(ctx context.Context, query string, args ...any) ([]vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]vendor.Vendor, 0)
	for rows.Next() {
		var row models.Vendor
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Name,
			&row.LEI,
			&row.OtherID,
			&row.OtherIDType,
			&row.PersonType,
			&row.HQCountry,
			&row.ParentLEI,
			&row.UltimateParentLEI,
			&row.Criticality,
			&row.Substitutability,
			&row.SupportsCriticalFunction,
			&row.AnnualExpenseAmount,
			&row.AnnualExpenseCurrency,
			&row.Status,
			&row.Notes,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		v, err := toDomainVendor(row)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}
