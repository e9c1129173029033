package modules

import (
	"github.com/iota-uz/dora-register/modules/alerts"
	"github.com/iota-uz/dora-register/modules/contracts"
	"github.com/iota-uz/dora-register/modules/core"
	"github.com/iota-uz/dora-register/modules/dashboards"
	"github.com/iota-uz/dora-register/modules/esg"
	"github.com/iota-uz/dora-register/modules/evidence"
	"github.com/iota-uz/dora-register/modules/grid"
	"github.com/iota-uz/dora-register/modules/incidents"
	"github.com/iota-uz/dora-register/modules/logging"
	"github.com/iota-uz/dora-register/modules/maturity"
	"github.com/iota-uz/dora-register/modules/register"
	"github.com/iota-uz/dora-register/modules/resilience"
	"github.com/iota-uz/dora-register/modules/search"
	"github.com/iota-uz/dora-register/modules/vendors"
	"github.com/iota-uz/dora-register/pkg/application"
)

// BuiltInModules is ordered by dependency: a module resolves the services
// of the ones registered before it.
var BuiltInModules = []application.Module{
	core.NewModule(),
	vendors.NewModule(),
	contracts.NewModule(),
	incidents.NewModule(),
	resilience.NewModule(),
	maturity.NewModule(),
	esg.NewModule(),
	register.NewModule(),
	dashboards.NewModule(),
	grid.NewModule(),
	alerts.NewModule(),
	evidence.NewModule(),
	logging.NewModule(),
	search.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
