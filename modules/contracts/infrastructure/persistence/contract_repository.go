package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/contracts/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	contractColumns = `c.id, c.tenant_id, c.reference, c.vendor_id, c.arrangement_type, c.service_type, c.function_name,
	c.supports_critical_function, c.start_date, c.end_date, c.notice_entity_days, c.notice_provider_days,
	COALESCE(c.governing_law, ''), c.data_storage, COALESCE(c.data_location, ''), COALESCE(c.data_sensitivity, ''),
	COALESCE(c.reliance_level, ''), c.annual_cost_amount, COALESCE(c.annual_cost_currency, ''), c.terminated_at,
	c.created_at, c.updated_at`

	selectContractsQuery = `SELECT ` + contractColumns + ` FROM contracts c`
	countContractsQuery  = `SELECT COUNT(*) FROM contracts c`

	insertContractQuery = `
		INSERT INTO contracts (
			tenant_id, reference, vendor_id, arrangement_type, service_type, function_name, supports_critical_function,
			start_date, end_date, notice_entity_days, notice_provider_days, governing_law, data_storage, data_location,
			data_sensitivity, reliance_level, annual_cost_amount, annual_cost_currency, terminated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, NULLIF($14, ''),
			NULLIF($15, ''), NULLIF($16, ''), $17, NULLIF($18, ''), $19
		) RETURNING id, created_at, updated_at`

	updateContractQuery = `
		UPDATE contracts SET
			reference = $3, vendor_id = $4, arrangement_type = $5, service_type = $6, function_name = $7,
			supports_critical_function = $8, start_date = $9, end_date = $10, notice_entity_days = $11,
			notice_provider_days = $12, governing_law = NULLIF($13, ''), data_storage = $14,
			data_location = NULLIF($15, ''), data_sensitivity = NULLIF($16, ''), reliance_level = NULLIF($17, ''),
			annual_cost_amount = $18, annual_cost_currency = NULLIF($19, ''), terminated_at = $20, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	deleteContractQuery = `DELETE FROM contracts WHERE id = $1 AND tenant_id = $2`
)

// statusExpression mirrors contract.Contract.Status in SQL.
var statusExpression = `CASE
	WHEN c.terminated_at IS NOT NULL THEN 'terminated'
	WHEN c.start_date IS NULL THEN 'draft'
	WHEN c.end_date IS NULL THEN 'active'
	WHEN c.end_date < CURRENT_DATE THEN 'expired'
	WHEN c.end_date <= CURRENT_DATE + ` + strconv.Itoa(contract.ExpiringWindowDays) + ` THEN 'expiring'
	ELSE 'active' END`

var contractSortFields = map[string]string{
	"reference":  "c.reference",
	"start_date": "c.start_date",
	"end_date":   "c.end_date",
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

type ContractRepository struct{}

func NewContractRepository() contract.Repository {
	return &ContractRepository{}
}

func (r *ContractRepository) buildFilters(ctx context.Context, params *contract.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("c.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.Q != "" {
		f.Add("(c.reference || ' ' || c.function_name) ILIKE ?", "%"+params.Q+"%")
	}
	if params.VendorID != nil {
		f.Add("c.vendor_id = ?", *params.VendorID)
	}
	if params.Status != "" {
		f.Add("("+statusExpression+") = ?", string(params.Status))
	}
	if params.ServiceType != "" {
		f.Add("c.service_type = ?", params.ServiceType)
	}
	if params.ExpiringWithinDays > 0 {
		f.AddRaw("c.terminated_at IS NULL AND c.end_date >= CURRENT_DATE")
		f.Add("c.end_date <= CURRENT_DATE + ?::int", params.ExpiringWithinDays)
	}
	return f, nil
}

func (r *ContractRepository) List(ctx context.Context, params *contract.FindParams) ([]contract.Contract, error) {
	if params == nil {
		params = &contract.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectContractsQuery,
		f.Where(),
		repo.OrderBy(params.SortBy, contractSortFields, "c.reference, c.id"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *ContractRepository) Count(ctx context.Context, params *contract.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countContractsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contracts: %w", err)
	}
	return count, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	contracts, err := r.query(ctx, selectContractsQuery+` WHERE c.id = $1 AND c.tenant_id = $2`, id, tenantID)
	if err != nil {
		return contract.Contract{}, err
	}
	if len(contracts) == 0 {
		return contract.Contract{}, contract.ErrNotFound
	}
	return contracts[0], nil
}

func (r *ContractRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]contract.Contract, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, selectContractsQuery+`
		WHERE c.tenant_id = $1 AND c.terminated_at IS NULL AND c.end_date BETWEEN $2::date AND $3::date
		ORDER BY c.end_date, c.reference`,
		tenantID, from, to,
	)
}

func (r *ContractRepository) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	row := toDBContract(c)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertContractQuery,
		tenantID,
		row.Reference,
		c.VendorID(),
		row.ArrangementType,
		row.ServiceType,
		row.FunctionName,
		row.SupportsCriticalFunction,
		row.StartDate,
		row.EndDate,
		row.NoticeEntityDays,
		row.NoticeProviderDays,
		row.GoverningLaw,
		row.DataStorage,
		row.DataLocation,
		row.DataSensitivity,
		row.RelianceLevel,
		row.AnnualCostAmount,
		row.AnnualCostCurrency,
		row.TerminatedAt,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return contract.Contract{}, mapWriteError("create contract", err)
	}
	return toDomainContract(row)
}

func (r *ContractRepository) Update(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	row := toDBContract(c)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, updateContractQuery,
		c.ID(),
		tenantID,
		row.Reference,
		c.VendorID(),
		row.ArrangementType,
		row.ServiceType,
		row.FunctionName,
		row.SupportsCriticalFunction,
		row.StartDate,
		row.EndDate,
		row.NoticeEntityDays,
		row.NoticeProviderDays,
		row.GoverningLaw,
		row.DataStorage,
		row.DataLocation,
		row.DataSensitivity,
		row.RelianceLevel,
		row.AnnualCostAmount,
		row.AnnualCostCurrency,
		row.TerminatedAt,
	).Scan(&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contract.Contract{}, contract.ErrNotFound
		}
		return contract.Contract{}, mapWriteError("update contract", err)
	}
	return toDomainContract(row)
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteContractQuery, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case repo.IsUniqueViolation(err):
		return contract.ErrReferenceTaken
	case repo.IsForeignKeyViolation(err):
		return contract.ErrUnknownVendor
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r *ContractRepository) query(ctx context.Context, query string, args ...any) ([]contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	contracts := make([]contract.Contract, 0)
	for rows.Next() {
		var row models.Contract
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Reference,
			&row.VendorID,
			&row.ArrangementType,
			&row.ServiceType,
			&row.FunctionName,
			&row.SupportsCriticalFunction,
			&row.StartDate,
			&row.EndDate,
			&row.NoticeEntityDays,
			&row.NoticeProviderDays,
			&row.GoverningLaw,
			&row.DataStorage,
			&row.DataLocation,
			&row.DataSensitivity,
			&row.RelianceLevel,
			&row.AnnualCostAmount,
			&row.AnnualCostCurrency,
			&row.TerminatedAt,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		c, err := toDomainContract(row)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}
