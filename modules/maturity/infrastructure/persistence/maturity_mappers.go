package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/modules/maturity/infrastructure/persistence/models"
)

func toDomainAssessment(row models.Assessment) (assessment.Assessment, error) {
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("parse assessment tenant id: %w", err)
	}
	return assessment.Restore(tenantID, row.RequirementID, assessment.Status(row.Status), row.Note, row.UpdatedBy, row.UpdatedAt), nil
}

func toDBSnapshot(s snapshot.Snapshot) (models.Snapshot, error) {
	pillars := make(map[string]string, len(catalog.Pillars))
	for p, v := range s.Pillars() {
		pillars[string(p)] = v.StringFixed(2)
	}
	raw, err := json.Marshal(pillars)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("marshal snapshot pillars: %w", err)
	}
	return models.Snapshot{
		ID:       s.ID().String(),
		TenantID: s.TenantID().String(),
		TakenAt:  s.TakenAt(),
		Overall:  s.Overall().StringFixed(2),
		Pillars:  raw,
	}, nil
}

func toDomainSnapshot(row models.Snapshot) (snapshot.Snapshot, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("parse snapshot id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("parse snapshot tenant id: %w", err)
	}
	overall, err := decimal.NewFromString(row.Overall)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("parse snapshot overall: %w", err)
	}
	var raw map[string]string
	if len(row.Pillars) > 0 {
		if err := json.Unmarshal(row.Pillars, &raw); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("unmarshal snapshot pillars: %w", err)
		}
	}
	pillars := make(map[catalog.Pillar]decimal.Decimal, len(raw))
	for k, v := range raw {
		score, err := decimal.NewFromString(v)
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("parse pillar %s score: %w", k, err)
		}
		pillars[catalog.Pillar(k)] = score
	}
	return snapshot.New(row.TakenAt, overall, pillars, snapshot.WithID(id), snapshot.WithTenantID(tenantID)), nil
}
