package models

import "time"

type Incident struct {
	ID             string
	TenantID       string
	Reference      string
	Title          string
	Description    string
	DetectedAt     time.Time
	OccurredAt     *time.Time
	ClassifiedAt   *time.Time
	ResolvedAt     *time.Time
	Status         string
	Criteria       []byte
	Major          bool
	InitialAt      *time.Time
	IntermediateAt *time.Time
	FinalAt        *time.Time
	RootCause      string
	VendorID       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
