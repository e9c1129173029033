package dashboards

import (
	"embed"

	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/modules/dashboards/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/dashboards/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/dashboards/providers"
	"github.com/iota-uz/dora-register/modules/dashboards/seed"
	"github.com/iota-uz/dora-register/modules/dashboards/services"
	esgservices "github.com/iota-uz/dora-register/modules/esg/services"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	maturityservices "github.com/iota-uz/dora-register/modules/maturity/services"
	registerservices "github.com/iota-uz/dora-register/modules/register/services"
	resilienceservices "github.com/iota-uz/dora-register/modules/resilience/services"
	vendorservices "github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register builds the widget data registry from the reporting modules'
// services, so every one of them must be registered first.
func (m *Module) Register(app application.Application) error {
	registry := widgetdata.NewRegistry()
	registry.Register(providers.Vendors(app.Service(vendorservices.VendorService{}).(*vendorservices.VendorService))...)
	registry.Register(providers.Contracts(app.Service(contractservices.ContractService{}).(*contractservices.ContractService))...)
	registry.Register(providers.Incidents(app.Service(incidentservices.IncidentService{}).(*incidentservices.IncidentService))...)
	registry.Register(providers.Findings(app.Service(resilienceservices.FindingService{}).(*resilienceservices.FindingService))...)
	registry.Register(providers.Maturity(app.Service(maturityservices.MaturityService{}).(*maturityservices.MaturityService))...)
	registry.Register(providers.Register(app.Service(registerservices.RegisterService{}).(*registerservices.RegisterService))...)
	registry.Register(providers.ESG(app.Service(esgservices.AssessmentService{}).(*esgservices.AssessmentService))...)

	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewDashboardService(persistence.NewDashboardRepository(), registry, configuration.Use().Logger()),
	)
	app.RegisterControllers(
		controllers.NewDashboardController(app),
	)
	app.RegisterNavItems(NavItems...)
	app.Seeder().Register(seed.CreateDefaultDashboard)
	return nil
}

func (m *Module) Name() string {
	return "dashboards"
}
