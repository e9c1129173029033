package grid

import (
	"embed"

	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	"github.com/iota-uz/dora-register/modules/grid/domain/history"
	"github.com/iota-uz/dora-register/modules/grid/infrastructure/historystore"
	"github.com/iota-uz/dora-register/modules/grid/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/grid/services"
	"github.com/iota-uz/dora-register/modules/grid/sources"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	resilienceservices "github.com/iota-uz/dora-register/modules/resilience/services"
	vendorservices "github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func newStore(opts configuration.GridOptions) (history.Store, error) {
	if opts.Store == "redis" {
		return historystore.NewRedisStoreFromURL(opts.RedisURL, opts.UndoDepth, opts.TTL)
	}
	return historystore.NewMemoryStore(opts.UndoDepth), nil
}

// Register edits records through the owning modules' services, so vendors,
// contracts, resilience and incidents must be registered first.
func (m *Module) Register(app application.Application) error {
	store, err := newStore(configuration.Use().Grid)
	if err != nil {
		return err
	}
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewGridService(
			store,
			app.EventPublisher(),
			sources.Vendors(app.Service(vendorservices.VendorService{}).(*vendorservices.VendorService)),
			sources.Contracts(app.Service(contractservices.ContractService{}).(*contractservices.ContractService)),
			sources.Findings(app.Service(resilienceservices.FindingService{}).(*resilienceservices.FindingService)),
			sources.Incidents(app.Service(incidentservices.IncidentService{}).(*incidentservices.IncidentService)),
		),
	)
	app.RegisterControllers(
		controllers.NewGridController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "grid"
}
