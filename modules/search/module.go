package search

import (
	"embed"

	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	resilienceservices "github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/modules/search/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/search/services"
	vendorservices "github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/spotlight"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register indexes pages from the navigation registered so far, so it
// belongs after every module that contributes nav items.
func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewSearchService(
			configuration.Use().Logger(),
			services.Vendors(app.Service(vendorservices.VendorService{}).(*vendorservices.VendorService)),
			services.Contracts(app.Service(contractservices.ContractService{}).(*contractservices.ContractService)),
			services.Incidents(app.Service(incidentservices.IncidentService{}).(*incidentservices.IncidentService)),
			services.Tests(app.Service(resilienceservices.TestService{}).(*resilienceservices.TestService)),
			spotlight.NewQuickLinks(app.NavItems(nil)...),
		),
	)
	app.RegisterControllers(
		controllers.NewSearchController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "search"
}
