package contracts

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/contracts/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/contracts/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/contracts/seed"
	"github.com/iota-uz/dora-register/modules/contracts/services"
	vendorservices "github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register expects the vendors module to be registered first.
func (m *Module) Register(app application.Application) error {
	vendorService := app.Service(vendorservices.VendorService{}).(*vendorservices.VendorService)

	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewContractService(persistence.NewContractRepository(), vendorService),
	)
	app.RegisterControllers(
		controllers.NewContractController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoContracts)
	return nil
}

func (m *Module) Name() string {
	return "contracts"
}
