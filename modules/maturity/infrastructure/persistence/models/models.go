package models

import "time"

type Assessment struct {
	TenantID      string
	RequirementID string
	Status        string
	Note          string
	UpdatedBy     string
	UpdatedAt     time.Time
}

type Snapshot struct {
	ID       string
	TenantID string
	TakenAt  time.Time
	Overall  string
	Pillars  []byte
}
