package vendors

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/vendors/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/vendors/seed"
	"github.com/iota-uz/dora-register/modules/vendors/services"
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

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewVendorService(persistence.NewVendorRepository()),
	)
	app.RegisterControllers(
		controllers.NewVendorController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoVendors)
	return nil
}

func (m *Module) Name() string {
	return "vendors"
}
