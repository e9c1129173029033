package seed

import (
	"context"
	"encoding/json"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

type demoWidget struct {
	title  string
	kind   dashboard.Kind
	source string
	pos    dashboard.Position
	config string
}

var demoWidgets = []demoWidget{
	{"Open incidents", dashboard.KindKPI, "incidents.open", dashboard.Position{X: 0, Y: 0, W: 3, H: 2}, `{}`},
	{"Register completeness", dashboard.KindProgress, "register.completeness", dashboard.Position{X: 3, Y: 0, W: 3, H: 2}, `{}`},
	{"Providers by criticality", dashboard.KindBar, "vendors.by_criticality", dashboard.Position{X: 6, Y: 0, W: 6, H: 3}, `{}`},
	{"Maturity by pillar", dashboard.KindBar, "maturity.pillars", dashboard.Position{X: 0, Y: 2, W: 6, H: 3}, `{}`},
	{"Expiring arrangements", dashboard.KindTable, "contracts.expiring", dashboard.Position{X: 0, Y: 5, W: 6, H: 4}, `{"days":90,"limit":10}`},
	{"Overdue critical findings", dashboard.KindTable, "findings.overdue", dashboard.Position{X: 6, Y: 5, W: 6, H: 4}, `{"filter":"severity == 'critical' || severity == 'high'"}`},
	{"Major incidents per month", dashboard.KindLine, "incidents.major_by_month", dashboard.Position{X: 0, Y: 9, W: 12, H: 3}, `{"months":12}`},
}

// CreateDefaultDashboard gives the demo tenant a default board.
func CreateDefaultDashboard(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewDashboardRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	if _, err := repo.GetDefault(ctx); err == nil {
		logger.Infof("Default dashboard already exists")
		return nil
	}
	d, err := repo.Create(ctx, dashboard.New(dashboard.DTO{Name: "DORA overview", IsDefault: true}))
	if err != nil {
		return err
	}
	for _, dw := range demoWidgets {
		pos := dw.pos
		w := dashboard.NewWidget(d.ID(), dashboard.WidgetDTO{
			Title:    dw.title,
			Kind:     string(dw.kind),
			Source:   dw.source,
			Position: &pos,
			Config:   json.RawMessage(dw.config),
		})
		var placed dashboard.Widget
		if d, placed, err = d.AddWidget(w, false); err != nil {
			return err
		}
		if _, err := repo.CreateWidget(ctx, placed); err != nil {
			return err
		}
	}
	logger.Infof("Seeded default dashboard with %d widgets", len(demoWidgets))
	return nil
}
