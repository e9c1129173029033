package register

import (
	"embed"

	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	coreservices "github.com/iota-uz/dora-register/modules/core/services"
	"github.com/iota-uz/dora-register/modules/register/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/register/services"
	vendorservices "github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register expects core, vendors and contracts to be registered first.
func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewRegisterService(
			app.Service(coreservices.OrganizationService{}).(*coreservices.OrganizationService),
			app.Service(vendorservices.VendorService{}).(*vendorservices.VendorService),
			app.Service(contractservices.ContractService{}).(*contractservices.ContractService),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewRegisterController(app),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}

func (m *Module) Name() string {
	return "register"
}
