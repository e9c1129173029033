package alerts

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/alerts/handlers"
	"github.com/iota-uz/dora-register/modules/alerts/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/alerts/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/alerts/scheduler"
	"github.com/iota-uz/dora-register/modules/alerts/services"
	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	coreservices "github.com/iota-uz/dora-register/modules/core/services"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	maturityservices "github.com/iota-uz/dora-register/modules/maturity/services"
	resilienceservices "github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/outbox"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register owns the compliance outbox table as well as the alerts. The
// scanned modules must be registered first.
func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema("outbox", &outbox.MigrationFiles)
	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewAlertService(persistence.NewAlertRepository(), configuration.Use().Logger()),
	)
	app.RegisterControllers(
		controllers.NewAlertController(app),
	)
	app.RegisterNavItems(NavItems...)
	handlers.RegisterOutboxHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "alerts"
}

// NewScheduler wires the compliance scans to the services of a fully
// registered application.
func NewScheduler(app application.Application) *scheduler.Scheduler {
	conf := configuration.Use()
	scanner := services.NewScanner(
		app.Service(contractservices.ContractService{}).(*contractservices.ContractService),
		app.Service(incidentservices.IncidentService{}).(*incidentservices.IncidentService),
		app.Service(resilienceservices.FindingService{}).(*resilienceservices.FindingService),
		app.Service(resilienceservices.TestService{}).(*resilienceservices.TestService),
		conf.Scheduler.ContractExpiryDays,
	)
	return scheduler.New(
		conf.Scheduler,
		app.Service(coreservices.OrganizationService{}).(*coreservices.OrganizationService),
		scanner,
		app.Service(maturityservices.MaturityService{}).(*maturityservices.MaturityService),
		outbox.NewPublisher(outbox.DefaultTable),
		conf.Logger(),
	)
}
