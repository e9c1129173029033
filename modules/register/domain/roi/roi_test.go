package roi

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

const validLEI = "5493001KJTIIGC8Y1R12"

var now = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

func testOrganization() organization.Organization {
	return organization.New(uuid.New()).ApplyProfile(organization.ProfileDTO{
		Name:               "Acme Bank",
		LEI:                validLEI,
		EntityType:         "credit_institution",
		Country:            "DE",
		CompetentAuthority: "BaFin",
	})
}

func testVendor(name string, criticality vendor.Criticality) vendor.Vendor {
	return vendor.New(vendor.DTO{
		Name:             name,
		OtherID:          "HRB-" + name,
		OtherIDType:      "CRN",
		PersonType:       "legal",
		HQCountry:        "IE",
		Criticality:      string(criticality),
		Substitutability: "medium",
		AnnualExpense:    &monetary.Amount{Amount: 1250050, Currency: "EUR"},
	}, vendor.WithID(uuid.New()))
}

func testContract(ref string, vendorID uuid.UUID, critical bool, start, end string) contract.Contract {
	return contract.New(contract.DTO{
		Reference:                ref,
		VendorID:                 vendorID,
		ArrangementType:          "standalone",
		ServiceType:              "S01",
		FunctionName:             "Payments",
		SupportsCriticalFunction: critical,
		StartDate:                start,
		EndDate:                  end,
		GoverningLaw:             "DE",
	}, contract.WithID(uuid.New()))
}

func TestBuild_LaysOutTemplates(t *testing.T) {
	cloud := testVendor("Cloudy", vendor.CriticalityCritical)
	crm := testVendor("Acrm", vendor.CriticalityStandard)
	in := Input{
		Organization: testOrganization(),
		Vendors:      []vendor.Vendor{cloud, crm},
		Contracts: []contract.Contract{
			testContract("C-2", crm.ID(), false, "2025-01-01", ""),
			testContract("C-1", cloud.ID(), true, "2024-01-01", "2027-01-01"),
		},
	}

	reg := Build(in, now)
	require.Len(t, reg.Sheets, len(Templates))
	require.Equal(t, 6, reg.RowCount())

	entity, ok := reg.Sheet(TemplateEntity)
	require.True(t, ok)
	require.Equal(t, "B_01.01.0010", entity.Columns[0].Code)
	require.Equal(t, validLEI, entity.Rows[0].Values[0])
	require.Equal(t, "2026-06-30", entity.Rows[0].Values[5])

	contracts, _ := reg.Sheet(TemplateContracts)
	require.Equal(t, "C-1", contracts.Rows[0].Ref)
	require.Equal(t, "HRB-Cloudy", contracts.Rows[0].Values[2])
	require.Len(t, contracts.Rows[0].Values, len(contracts.Columns))

	providers, _ := reg.Sheet(TemplateProviders)
	require.Equal(t, "Acrm", providers.Rows[0].Ref)
	require.Equal(t, "EUR", providers.Rows[0].Values[5])
	require.Equal(t, "12500.5", providers.Rows[0].Values[6])

	functions, _ := reg.Sheet(TemplateFunctions)
	require.Len(t, functions.Rows, 1)
	require.Equal(t, []string{"F001", "Payments", "true", "C-1; C-2"}, functions.Rows[0].Values)
}

func TestValidate_CleanRegister(t *testing.T) {
	cloud := testVendor("Cloudy", vendor.CriticalityCritical)
	report := Validate(Input{
		Organization: testOrganization(),
		Vendors:      []vendor.Vendor{cloud},
		Contracts:    []contract.Contract{testContract("C-1", cloud.ID(), true, "2024-01-01", "2027-01-01")},
	}, now)

	require.True(t, report.Valid())
	require.Empty(t, report.Issues)
	require.Equal(t, 4, report.RowCount)
	require.Equal(t, "100", report.Completeness.String())
}

func TestValidate_Rules(t *testing.T) {
	standard := testVendor("Standard", vendor.CriticalityStandard)
	org := organization.New(uuid.New()).ApplyProfile(organization.ProfileDTO{
		Name:       "Acme Bank",
		LEI:        "5493001KJTIIGC8Y1R13",
		EntityType: "credit_institution",
		Country:    "DE",
	})
	in := Input{
		Organization: org,
		Vendors:      []vendor.Vendor{standard},
		Contracts: []contract.Contract{
			testContract("C-CRIT", standard.ID(), true, "2024-01-01", ""),
			testContract("C-ORPHAN", uuid.New(), false, "2024-01-01", ""),
			testContract("C-BACKWARDS", standard.ID(), false, "2027-06-01", "2027-01-01"),
			testContract("C-OLD", standard.ID(), false, "2020-01-01", "2021-01-01"),
		},
	}

	report := Validate(in, now)
	require.False(t, report.Valid())

	messages := map[string][]Issue{}
	for _, is := range report.Issues {
		messages[is.RowRef] = append(messages[is.RowRef], is)
	}
	entity := messages[org.ID().String()]
	require.Len(t, entity, 2)
	require.Contains(t, entity[0].Message+entity[1].Message, "not a valid LEI")
	require.Contains(t, entity[0].Message+entity[1].Message, "Competent authority is mandatory")

	require.Contains(t, messages["C-CRIT"][0].Message, "critical function")
	require.Contains(t, messages["C-ORPHAN"][0].Message, "not linked")
	require.Contains(t, messages["C-BACKWARDS"][0].Message, "before start date")
	require.Equal(t, SeverityWarning, messages["C-OLD"][0].Severity)

	require.Equal(t, 5, report.ErrorCount)
	require.Equal(t, 1, report.WarningCount)
	require.Equal(t, SeverityError, report.Issues[0].Severity)
	require.Equal(t, SeverityWarning, report.Issues[len(report.Issues)-1].Severity)

	// Seven rows: entity, four contracts, one provider, one function. The
	// entity and three contracts carry errors.
	require.Equal(t, 7, report.RowCount)
	require.Equal(t, "42.86", report.Completeness.StringFixed(2))
}

func TestValidate_OrganizationOnly(t *testing.T) {
	report := Validate(Input{Organization: testOrganization()}, now)
	require.Equal(t, 1, report.RowCount)
	require.NotNil(t, report.Issues)
	require.Equal(t, "100", report.Completeness.String())
}
