package resilience

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/resilience/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/resilience/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/resilience/seed"
	"github.com/iota-uz/dora-register/modules/resilience/services"
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
	testRepo := persistence.NewTestRepository()

	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewTestService(testRepo),
		services.NewFindingService(persistence.NewFindingRepository(), testRepo),
	)
	app.RegisterControllers(
		controllers.NewTestController(app),
		controllers.NewFindingController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoTests)
	return nil
}

func (m *Module) Name() string {
	return "resilience"
}
