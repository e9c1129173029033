package esg

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/esg/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/esg/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/esg/seed"
	"github.com/iota-uz/dora-register/modules/esg/services"
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
		services.NewAssessmentService(persistence.NewAssessmentRepository(), vendorService),
	)
	app.RegisterControllers(
		controllers.NewAssessmentController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDemoAssessments)
	return nil
}

func (m *Module) Name() string {
	return "esg"
}
