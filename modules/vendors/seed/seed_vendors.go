package seed

import (
	"context"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

var demoVendors = []vendor.DTO{
	{
		Name:                     "Nimbus Cloud Services Ltd",
		LEI:                      "529900T8BM49AURSDO55",
		PersonType:               string(vendor.PersonLegal),
		HQCountry:                "IE",
		Criticality:              string(vendor.CriticalityCritical),
		Substitutability:         string(vendor.HighlyComplex),
		SupportsCriticalFunction: true,
		AnnualExpense:            &monetary.Amount{Amount: 48000000, Currency: "EUR"},
	},
	{
		Name:             "Kontor Payments GmbH",
		OtherID:          "HRB 123456",
		OtherIDType:      "CRN",
		PersonType:       string(vendor.PersonLegal),
		HQCountry:        "DE",
		Criticality:      string(vendor.CriticalityImportant),
		Substitutability: string(vendor.MediumComplexity),
		AnnualExpense:    &monetary.Amount{Amount: 12000000, Currency: "EUR"},
	},
	{
		Name:             "Helpdesk Partners BV",
		OtherID:          "NL001234567B01",
		OtherIDType:      "VAT",
		PersonType:       string(vendor.PersonLegal),
		HQCountry:        "NL",
		Criticality:      string(vendor.CriticalityStandard),
		Substitutability: string(vendor.Easy),
		AnnualExpense:    &monetary.Amount{Amount: 3500000, Currency: "EUR"},
	},
}

// CreateDemoVendors stores a few providers for the demo tenant when it has none.
func CreateDemoVendors(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewVendorRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	count, err := repo.Count(ctx, &vendor.FindParams{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("Demo vendors already exist")
		return nil
	}
	for _, dto := range demoVendors {
		d := dto
		if errs, ok := d.Ok(); !ok {
			return errs
		}
		if _, err := repo.Create(ctx, vendor.New(d)); err != nil {
			return err
		}
	}
	logger.Infof("Created %d demo vendors", len(demoVendors))
	return nil
}
