package models

import "time"

type Contract struct {
	ID                       string
	TenantID                 string
	Reference                string
	VendorID                 string
	ArrangementType          string
	ServiceType              string
	FunctionName             string
	SupportsCriticalFunction bool
	StartDate                *time.Time
	EndDate                  *time.Time
	NoticeEntityDays         int
	NoticeProviderDays       int
	GoverningLaw             string
	DataStorage              bool
	DataLocation             string
	DataSensitivity          string
	RelianceLevel            string
	AnnualCostAmount         *int64
	AnnualCostCurrency       string
	TerminatedAt             *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
