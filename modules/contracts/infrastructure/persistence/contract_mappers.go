package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/contracts/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

func toDBContract(c contract.Contract) models.Contract {
	row := models.Contract{
		ID:                       c.ID().String(),
		TenantID:                 c.TenantID().String(),
		Reference:                c.Reference(),
		VendorID:                 c.VendorID().String(),
		ArrangementType:          string(c.ArrangementType()),
		ServiceType:              c.ServiceType(),
		FunctionName:             c.FunctionName(),
		SupportsCriticalFunction: c.SupportsCriticalFunction(),
		StartDate:                c.StartDate(),
		EndDate:                  c.EndDate(),
		NoticeEntityDays:         c.NoticeEntityDays(),
		NoticeProviderDays:       c.NoticeProviderDays(),
		GoverningLaw:             c.GoverningLaw(),
		DataStorage:              c.DataStorage(),
		DataLocation:             c.DataLocation(),
		DataSensitivity:          c.DataSensitivity(),
		RelianceLevel:            c.RelianceLevel(),
		TerminatedAt:             c.TerminatedAt(),
		CreatedAt:                c.CreatedAt(),
		UpdatedAt:                c.UpdatedAt(),
	}
	if cost := c.AnnualCost(); cost != nil {
		amount := cost.Amount
		row.AnnualCostAmount = &amount
		row.AnnualCostCurrency = cost.Currency
	}
	return row
}

func toDomainContract(row models.Contract) (contract.Contract, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("parse contract id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("parse contract tenant id: %w", err)
	}
	vendorID, err := uuid.Parse(row.VendorID)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("parse contract vendor id: %w", err)
	}
	dto := contract.DTO{
		Reference:                row.Reference,
		VendorID:                 vendorID,
		ArrangementType:          row.ArrangementType,
		ServiceType:              row.ServiceType,
		FunctionName:             row.FunctionName,
		SupportsCriticalFunction: row.SupportsCriticalFunction,
		NoticeEntityDays:         row.NoticeEntityDays,
		NoticeProviderDays:       row.NoticeProviderDays,
		GoverningLaw:             row.GoverningLaw,
		DataStorage:              row.DataStorage,
		DataLocation:             row.DataLocation,
		DataSensitivity:          row.DataSensitivity,
		RelianceLevel:            row.RelianceLevel,
	}
	if row.StartDate != nil {
		dto.StartDate = row.StartDate.Format(contract.DateLayout)
	}
	if row.EndDate != nil {
		dto.EndDate = row.EndDate.Format(contract.DateLayout)
	}
	if row.AnnualCostAmount != nil && row.AnnualCostCurrency != "" {
		dto.AnnualCost = &monetary.Amount{Amount: *row.AnnualCostAmount, Currency: row.AnnualCostCurrency}
	}
	return contract.New(dto,
		contract.WithID(id),
		contract.WithTenantID(tenantID),
		contract.WithTerminatedAt(row.TerminatedAt),
		contract.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}
