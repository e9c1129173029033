package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/resilience/infrastructure/persistence/models"
)

func toDBTest(t resiliencetest.Test) models.Test {
	functions := t.CriticalFunctions()
	if functions == nil {
		functions = []string{}
	}
	return models.Test{
		ID:                t.ID().String(),
		TenantID:          t.TenantID().String(),
		Name:              t.Name(),
		Type:              string(t.Type()),
		Scope:             t.Scope(),
		Tester:            string(t.Tester()),
		PlannedDate:       t.PlannedDate(),
		ExecutedDate:      t.ExecutedDate(),
		Status:            string(t.Status()),
		CriticalFunctions: functions,
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
}

func toDomainTest(row models.Test) (resiliencetest.Test, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return resiliencetest.Test{}, fmt.Errorf("parse test id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return resiliencetest.Test{}, fmt.Errorf("parse test tenant id: %w", err)
	}
	dto := resiliencetest.DTO{
		Name:              row.Name,
		Type:              row.Type,
		Scope:             row.Scope,
		Tester:            row.Tester,
		Status:            row.Status,
		CriticalFunctions: row.CriticalFunctions,
	}
	if row.PlannedDate != nil {
		dto.PlannedDate = row.PlannedDate.Format(resiliencetest.DateLayout)
	}
	if row.ExecutedDate != nil {
		dto.ExecutedDate = row.ExecutedDate.Format(resiliencetest.DateLayout)
	}
	return resiliencetest.New(dto,
		resiliencetest.WithID(id),
		resiliencetest.WithTenantID(tenantID),
		resiliencetest.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}

func toDBFinding(f finding.Finding) models.Finding {
	return models.Finding{
		ID:           f.ID().String(),
		TenantID:     f.TenantID().String(),
		TestID:       f.TestID().String(),
		Title:        f.Title(),
		Description:  f.Description(),
		Severity:     string(f.Severity()),
		Status:       string(f.Status()),
		Owner:        f.Owner(),
		DueDate:      f.DueDate(),
		RemediatedAt: f.RemediatedAt(),
		CreatedAt:    f.CreatedAt(),
		UpdatedAt:    f.UpdatedAt(),
	}
}

func toDomainFinding(row models.Finding) (finding.Finding, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return finding.Finding{}, fmt.Errorf("parse finding id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return finding.Finding{}, fmt.Errorf("parse finding tenant id: %w", err)
	}
	testID, err := uuid.Parse(row.TestID)
	if err != nil {
		return finding.Finding{}, fmt.Errorf("parse finding test id: %w", err)
	}
	dto := finding.DTO{
		TestID:      testID,
		Title:       row.Title,
		Description: row.Description,
		Severity:    row.Severity,
		Status:      row.Status,
		Owner:       row.Owner,
	}
	if row.DueDate != nil {
		dto.DueDate = row.DueDate.Format(finding.DateLayout)
	}
	return finding.New(dto,
		finding.WithID(id),
		finding.WithTenantID(tenantID),
		finding.WithRemediatedAt(row.RemediatedAt),
		finding.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}
