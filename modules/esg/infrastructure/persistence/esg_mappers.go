package persistence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/esg/infrastructure/persistence/models"
)

func toDBAssessment(a esgassessment.Assessment) models.Assessment {
	w := a.Weights()
	row := models.Assessment{
		ID:                  a.ID().String(),
		TenantID:            a.TenantID().String(),
		Environmental:       a.Environmental(),
		Social:              a.Social(),
		Governance:          a.Governance(),
		WeightEnvironmental: w.Environmental.String(),
		WeightSocial:        w.Social.String(),
		WeightGovernance:    w.Governance.String(),
		Overall:             a.Overall().StringFixed(2),
		Rating:              string(a.Rating()),
		AssessedAt:          a.AssessedAt(),
		Notes:               a.Notes(),
		CreatedAt:           a.CreatedAt(),
		UpdatedAt:           a.UpdatedAt(),
	}
	if id := a.VendorID(); id != nil {
		s := id.String()
		row.VendorID = &s
	}
	return row
}

func toDomainAssessment(row models.Assessment) (esgassessment.Assessment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return esgassessment.Assessment{}, fmt.Errorf("parse esg assessment id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return esgassessment.Assessment{}, fmt.Errorf("parse esg assessment tenant id: %w", err)
	}
	var w esgassessment.Weights
	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{row.WeightEnvironmental, &w.Environmental},
		{row.WeightSocial, &w.Social},
		{row.WeightGovernance, &w.Governance},
	} {
		if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
			return esgassessment.Assessment{}, fmt.Errorf("parse esg weight: %w", err)
		}
	}
	dto := esgassessment.DTO{
		Environmental: row.Environmental,
		Social:        row.Social,
		Governance:    row.Governance,
		Weights:       &w,
		AssessedAt:    row.AssessedAt.Format(esgassessment.DateLayout),
		Notes:         row.Notes,
	}
	if row.VendorID != nil {
		vendorID, err := uuid.Parse(*row.VendorID)
		if err != nil {
			return esgassessment.Assessment{}, fmt.Errorf("parse esg vendor id: %w", err)
		}
		dto.VendorID = &vendorID
	}
	return esgassessment.New(dto,
		esgassessment.WithID(id),
		esgassessment.WithTenantID(tenantID),
		esgassessment.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}
