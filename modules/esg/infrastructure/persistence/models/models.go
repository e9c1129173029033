package models

import "time"

type Assessment struct {
	ID                  string
	TenantID            string
	VendorID            *string
	Environmental       int
	Social              int
	Governance          int
	WeightEnvironmental string
	WeightSocial        string
	WeightGovernance    string
	Overall             string
	Rating              string
	AssessedAt          time.Time
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
