package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/infrastructure/persistence/models"
)

func toDBAlert(a alert.Alert) models.Alert {
	return models.Alert{
		ID:             a.ID().String(),
		TenantID:       a.TenantID().String(),
		Kind:           string(a.Kind()),
		Severity:       string(a.Severity()),
		SubjectType:    a.SubjectType(),
		SubjectID:      a.SubjectID(),
		Message:        a.Message(),
		DedupeKey:      a.DedupeKey(),
		CreatedAt:      a.CreatedAt(),
		AcknowledgedAt: a.AcknowledgedAt(),
		AcknowledgedBy: a.AcknowledgedBy(),
	}
}

func toDomainAlert(row models.Alert) (alert.Alert, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return alert.Alert{}, fmt.Errorf("parse alert id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return alert.Alert{}, fmt.Errorf("parse alert tenant id: %w", err)
	}
	opts := []alert.Option{
		alert.WithID(id),
		alert.WithTenantID(tenantID),
		alert.WithCreatedAt(row.CreatedAt),
	}
	if row.AcknowledgedAt != nil {
		opts = append(opts, alert.WithAcknowledgement(*row.AcknowledgedAt, row.AcknowledgedBy))
	}
	return alert.New(alert.Notice{
		Kind:        alert.Kind(row.Kind),
		Severity:    alert.Severity(row.Severity),
		SubjectType: row.SubjectType,
		SubjectID:   row.SubjectID,
		Message:     row.Message,
		DedupeKey:   row.DedupeKey,
	}, opts...), nil
}
