package core

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/core/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/core/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/core/services"
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
		services.NewOrganizationService(persistence.NewOrganizationRepository()),
	)
	app.RegisterControllers(
		controllers.NewOrganizationController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoOrganization)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
