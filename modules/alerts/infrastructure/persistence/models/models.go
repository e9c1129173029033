package models

import "time"

type Alert struct {
	ID             string
	TenantID       string
	Kind           string
	Severity       string
	SubjectType    string
	SubjectID      string
	Message        string
	DedupeKey      string
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string
}
