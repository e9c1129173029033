package roi

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/core/domain/value_objects/lei"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding of the pre-submission check.
type Issue struct {
	Template TemplateCode `json:"template"`
	RowRef   string       `json:"row_ref"`
	Column   string       `json:"column,omitempty"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
}

// Report summarises validation. Completeness is the percentage of rows
// with no error, rounded to two places; a register with no rows is 0.
type Report struct {
	Issues       []Issue         `json:"issues"`
	RowCount     int             `json:"row_count"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Completeness decimal.Decimal `json:"completeness"`
}

func (r Report) Valid() bool {
	return r.ErrorCount == 0
}

type checker struct {
	issues []Issue
	failed map[string]struct{}
}

func (v *checker) add(t TemplateCode, ref, column string, sev Severity, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Template: t,
		RowRef:   ref,
		Column:   column,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
	if sev == SeverityError {
		v.failed[string(t)+"/"+ref] = struct{}{}
	}
}

func (v *checker) required(t TemplateCode, ref string, c Column, value string) {
	if value == "" {
		v.add(t, ref, c.Code, SeverityError, "%s is mandatory", c.Header)
	}
}

func (v *checker) lei(t TemplateCode, ref string, c Column, value string) {
	if value != "" && !lei.Valid(value) {
		v.add(t, ref, c.Code, SeverityError, "%s %q is not a valid LEI", c.Header, value)
	}
}

// Validate checks the register built from in. now decides which
// arrangements have already expired.
func Validate(in Input, now time.Time) Report {
	reg := Build(in, now)
	v := &checker{failed: map[string]struct{}{}}

	org := in.Organization
	ref := org.ID().String()
	v.required(TemplateEntity, ref, entityColumns[0], org.LEI())
	v.lei(TemplateEntity, ref, entityColumns[0], org.LEI())
	v.required(TemplateEntity, ref, entityColumns[1], org.Name())
	v.required(TemplateEntity, ref, entityColumns[2], org.Country())
	v.required(TemplateEntity, ref, entityColumns[3], string(org.EntityType()))
	v.required(TemplateEntity, ref, entityColumns[4], org.CompetentAuthority())

	vendorsByID := make(map[uuid.UUID]vendor.Vendor, len(in.Vendors))
	for _, p := range in.Vendors {
		vendorsByID[p.ID()] = p
		validateProvider(v, p)
	}
	for _, c := range in.Contracts {
		validateContract(v, c, vendorsByID, now)
	}

	sort.SliceStable(v.issues, func(i, j int) bool {
		a, b := v.issues[i], v.issues[j]
		if a.Severity != b.Severity {
			return a.Severity == SeverityError
		}
		if a.Template != b.Template {
			return a.Template < b.Template
		}
		return a.RowRef < b.RowRef
	})

	report := Report{Issues: v.issues, RowCount: reg.RowCount(), Completeness: decimal.Zero}
	if report.Issues == nil {
		report.Issues = []Issue{}
	}
	for _, is := range v.issues {
		if is.Severity == SeverityError {
			report.ErrorCount++
		} else {
			report.WarningCount++
		}
	}
	if report.RowCount > 0 {
		clean := report.RowCount - len(v.failed)
		report.Completeness = decimal.NewFromInt(int64(clean)).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(int64(report.RowCount)), 2)
	}
	return report
}

func validateProvider(v *checker, p vendor.Vendor) {
	ref := p.Name()
	code, kind := p.Identifier()
	v.required(TemplateProviders, ref, providerColumns[0], code)
	v.required(TemplateProviders, ref, providerColumns[1], kind)
	if kind == "LEI" {
		v.lei(TemplateProviders, ref, providerColumns[0], code)
	}
	v.required(TemplateProviders, ref, providerColumns[3], string(p.PersonType()))
	v.required(TemplateProviders, ref, providerColumns[4], p.HQCountry())
	v.lei(TemplateProviders, ref, providerColumns[7], p.ParentLEI())
	v.lei(TemplateProviders, ref, providerColumns[8], p.UltimateParentLEI())
	if p.SupportsCriticalFunction() {
		v.required(TemplateProviders, ref, providerColumns[9], string(p.Substitutability()))
	}
}

func validateContract(v *checker, c contract.Contract, vendorsByID map[uuid.UUID]vendor.Vendor, now time.Time) {
	ref := c.Reference()
	v.required(TemplateContracts, ref, contractColumns[1], string(c.ArrangementType()))
	v.required(TemplateContracts, ref, contractColumns[5], c.ServiceType())
	v.required(TemplateContracts, ref, contractColumns[10], c.GoverningLaw())
	if c.StartDate() == nil {
		v.add(TemplateContracts, ref, contractColumns[6].Code, SeverityError, "%s is mandatory", contractColumns[6].Header)
	}
	if c.DataStorage() {
		v.required(TemplateContracts, ref, contractColumns[12], c.DataLocation())
	}
	if c.StartDate() != nil && c.EndDate() != nil && c.EndDate().Before(*c.StartDate()) {
		v.add(TemplateContracts, ref, contractColumns[7].Code, SeverityError, "end date %s is before start date %s",
			c.EndDate().Format(dateLayout), c.StartDate().Format(dateLayout))
	}

	p, ok := vendorsByID[c.VendorID()]
	if !ok {
		v.add(TemplateContracts, ref, contractColumns[2].Code, SeverityError, "arrangement is not linked to a known ICT third-party service provider")
	} else if c.SupportsCriticalFunction() && p.Criticality() != vendor.CriticalityCritical {
		v.add(TemplateContracts, ref, contractColumns[2].Code, SeverityError,
			"arrangement supports a critical function but provider %q is classified %s", p.Name(), p.Criticality())
	}

	if c.Status(now) == contract.StatusExpired {
		v.add(TemplateContracts, ref, contractColumns[7].Code, SeverityWarning, "arrangement expired on %s and is still listed",
			c.EndDate().Format(dateLayout))
	}
}
