package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/incidents/infrastructure/persistence/models"
)

func toDBIncident(i incident.Incident) (models.Incident, error) {
	criteria, err := json.Marshal(i.Criteria())
	if err != nil {
		return models.Incident{}, fmt.Errorf("marshal incident criteria: %w", err)
	}
	row := models.Incident{
		ID:             i.ID().String(),
		TenantID:       i.TenantID().String(),
		Reference:      i.Reference(),
		Title:          i.Title(),
		Description:    i.Description(),
		DetectedAt:     i.DetectedAt(),
		OccurredAt:     i.OccurredAt(),
		ClassifiedAt:   i.ClassifiedAt(),
		ResolvedAt:     i.ResolvedAt(),
		Status:         string(i.Status()),
		Criteria:       criteria,
		Major:          i.Major(),
		InitialAt:      i.InitialAt(),
		IntermediateAt: i.IntermediateAt(),
		FinalAt:        i.FinalAt(),
		RootCause:      i.RootCause(),
		CreatedAt:      i.CreatedAt(),
		UpdatedAt:      i.UpdatedAt(),
	}
	if v := i.VendorID(); v != nil {
		s := v.String()
		row.VendorID = &s
	}
	return row, nil
}

func toDomainIncident(row models.Incident) (incident.Incident, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return incident.Incident{}, fmt.Errorf("parse incident id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return incident.Incident{}, fmt.Errorf("parse incident tenant id: %w", err)
	}
	var criteria incident.Criteria
	if len(row.Criteria) > 0 {
		if err := json.Unmarshal(row.Criteria, &criteria); err != nil {
			return incident.Incident{}, fmt.Errorf("unmarshal incident criteria: %w", err)
		}
	}
	dto := incident.DTO{
		Reference:   row.Reference,
		Title:       row.Title,
		Description: row.Description,
		DetectedAt:  row.DetectedAt,
		OccurredAt:  row.OccurredAt,
		ResolvedAt:  row.ResolvedAt,
		Criteria:    criteria,
		RootCause:   row.RootCause,
	}
	if row.VendorID != nil {
		vendorID, err := uuid.Parse(*row.VendorID)
		if err != nil {
			return incident.Incident{}, fmt.Errorf("parse incident vendor id: %w", err)
		}
		dto.VendorID = &vendorID
	}
	return incident.New(dto,
		incident.WithID(id),
		incident.WithTenantID(tenantID),
		incident.WithState(incident.Status(row.Status), row.Major, row.ClassifiedAt, row.InitialAt, row.IntermediateAt, row.FinalAt),
		incident.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}
