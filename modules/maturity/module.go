package maturity

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/modules/maturity/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/maturity/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/maturity/seed"
	"github.com/iota-uz/dora-register/modules/maturity/services"
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
	c, err := catalog.Default()
	if err != nil {
		return err
	}

	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewMaturityService(c, persistence.NewAssessmentRepository(), persistence.NewSnapshotRepository()),
	)
	app.RegisterControllers(
		controllers.NewMaturityController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoAssessments)
	return nil
}

func (m *Module) Name() string {
	return "maturity"
}
