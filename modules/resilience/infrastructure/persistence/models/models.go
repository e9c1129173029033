package models

import "time"

type Test struct {
	ID                string
	TenantID          string
	Name              string
	Type              string
	Scope             string
	Tester            string
	PlannedDate       *time.Time
	ExecutedDate      *time.Time
	Status            string
	CriticalFunctions []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Finding struct {
	ID           string
	TenantID     string
	TestID       string
	Title        string
	Description  string
	Severity     string
	Status       string
	Owner        string
	DueDate      *time.Time
	RemediatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
