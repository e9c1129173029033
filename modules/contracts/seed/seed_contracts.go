package seed

import (
	"context"
	"time"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/contracts/infrastructure/persistence"
	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	vendorpersistence "github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

// CreateDemoContracts links one arrangement to each demo vendor. The first
// one ends soon so the expiry alerts have something to show.
func CreateDemoContracts(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewContractRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	count, err := repo.Count(ctx, &contract.FindParams{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("Demo contracts already exist")
		return nil
	}
	vendors, err := vendorpersistence.NewVendorRepository().List(ctx, &vendor.FindParams{})
	if err != nil {
		return err
	}

	services := []string{"S01", "S05", "S17"}
	today := time.Now().UTC()
	for i, v := range vendors {
		dto := contract.DTO{
			Reference:                "CA-DEMO-" + string(rune('A'+i)),
			VendorID:                 v.ID(),
			ArrangementType:          string(contract.ArrangementStandalone),
			ServiceType:              services[i%len(services)],
			FunctionName:             v.Name() + " services",
			SupportsCriticalFunction: v.SupportsCriticalFunction(),
			StartDate:                today.AddDate(-2, 0, 0).Format(contract.DateLayout),
			EndDate:                  today.AddDate(0, 0, 45+365*i).Format(contract.DateLayout),
			NoticeEntityDays:         90,
			NoticeProviderDays:       180,
			GoverningLaw:             v.HQCountry(),
			DataStorage:              true,
			DataLocation:             v.HQCountry(),
			DataSensitivity:          "medium",
			RelianceLevel:            "material",
		}
		if exp := v.AnnualExpense(); exp != nil {
			dto.AnnualCost = &monetary.Amount{Amount: exp.Amount, Currency: exp.Currency}
		}
		if errs, ok := dto.Ok(); !ok {
			return errs
		}
		if _, err := repo.Create(ctx, contract.New(dto)); err != nil {
			return err
		}
	}
	logger.Infof("Created %d demo contracts", len(vendors))
	return nil
}
