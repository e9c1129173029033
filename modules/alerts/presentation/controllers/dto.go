package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
)

type AlertResponse struct {
	ID             string         `json:"id"`
	Kind           alert.Kind     `json:"kind"`
	Severity       alert.Severity `json:"severity"`
	SubjectType    string         `json:"subject_type"`
	SubjectID      string         `json:"subject_id"`
	Message        string         `json:"message"`
	CreatedAt      time.Time      `json:"created_at"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at"`
	AcknowledgedBy string         `json:"acknowledged_by,omitempty"`
}

func toAlertResponse(a alert.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID().String(),
		Kind:           a.Kind(),
		Severity:       a.Severity(),
		SubjectType:    a.SubjectType(),
		SubjectID:      a.SubjectID(),
		Message:        a.Message(),
		CreatedAt:      a.CreatedAt(),
		AcknowledgedAt: a.AcknowledgedAt(),
		AcknowledgedBy: a.AcknowledgedBy(),
	}
}

func toAlertResponses(items []alert.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAlertResponse(a))
	}
	return out
}

type alertListQuery struct {
	Unacknowledged bool   `form:"unacknowledged"`
	Kind           string `form:"kind"`
	Severity       string `form:"severity"`
}
