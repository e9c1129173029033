package models

import "time"

type Vendor struct {
	ID                       string
	TenantID                 string
	Name                     string
	LEI                      string
	OtherID                  string
	OtherIDType              string
	PersonType               string
	HQCountry                string
	ParentLEI                string
	UltimateParentLEI        string
	Criticality              string
	Substitutability         string
	SupportsCriticalFunction bool
	AnnualExpenseAmount      *int64
	AnnualExpenseCurrency    string
	Status                   string
	Notes                    string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
