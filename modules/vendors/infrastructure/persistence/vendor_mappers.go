package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

func toDBVendor(v vendor.Vendor) models.Vendor {
	row := models.Vendor{
		ID:                       v.ID().String(),
		TenantID:                 v.TenantID().String(),
		Name:                     v.Name(),
		LEI:                      v.LEI(),
		OtherID:                  v.OtherID(),
		OtherIDType:              v.OtherIDType(),
		PersonType:               string(v.PersonType()),
		HQCountry:                v.HQCountry(),
		ParentLEI:                v.ParentLEI(),
		UltimateParentLEI:        v.UltimateParentLEI(),
		Criticality:              string(v.Criticality()),
		Substitutability:         string(v.Substitutability()),
		SupportsCriticalFunction: v.SupportsCriticalFunction(),
		Status:                   string(v.Status()),
		Notes:                    v.Notes(),
		CreatedAt:                v.CreatedAt(),
		UpdatedAt:                v.UpdatedAt(),
	}
	if exp := v.AnnualExpense(); exp != nil {
		amount := exp.Amount
		row.AnnualExpenseAmount = &amount
		row.AnnualExpenseCurrency = exp.Currency
	}
	return row
}

func toDomainVendor(row models.Vendor) (vendor.Vendor, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return vendor.Vendor{}, fmt.Errorf("parse vendor id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return vendor.Vendor{}, fmt.Errorf("parse vendor tenant id: %w", err)
	}
	dto := vendor.DTO{
		Name:                     row.Name,
		LEI:                      row.LEI,
		OtherID:                  row.OtherID,
		OtherIDType:              row.OtherIDType,
		PersonType:               row.PersonType,
		HQCountry:                row.HQCountry,
		ParentLEI:                row.ParentLEI,
		UltimateParentLEI:        row.UltimateParentLEI,
		Criticality:              row.Criticality,
		Substitutability:         row.Substitutability,
		SupportsCriticalFunction: row.SupportsCriticalFunction,
		Status:                   row.Status,
		Notes:                    row.Notes,
	}
	if row.AnnualExpenseAmount != nil && row.AnnualExpenseCurrency != "" {
		dto.AnnualExpense = &monetary.Amount{Amount: *row.AnnualExpenseAmount, Currency: row.AnnualExpenseCurrency}
	}
	return vendor.New(dto,
		vendor.WithID(id),
		vendor.WithTenantID(tenantID),
		vendor.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}
