package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/infrastructure/persistence/models"
)

func toDBDashboard(d dashboard.Dashboard) models.Dashboard {
	return models.Dashboard{
		ID:        d.ID().String(),
		TenantID:  d.TenantID().String(),
		Name:      d.Name(),
		IsDefault: d.IsDefault(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

func toDomainDashboard(row models.Dashboard, widgets []dashboard.Widget) (dashboard.Dashboard, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return dashboard.Dashboard{}, fmt.Errorf("parse dashboard id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return dashboard.Dashboard{}, fmt.Errorf("parse dashboard tenant id: %w", err)
	}
	return dashboard.New(
		dashboard.DTO{Name: row.Name, IsDefault: row.IsDefault},
		dashboard.WithID(id),
		dashboard.WithTenantID(tenantID),
		dashboard.WithWidgets(widgets),
		dashboard.WithTimestamps(row.CreatedAt, row.UpdatedAt),
	), nil
}

func toDBWidget(w dashboard.Widget) models.Widget {
	p := w.Position()
	return models.Widget{
		ID:          w.ID().String(),
		DashboardID: w.DashboardID().String(),
		Title:       w.Title(),
		Kind:        string(w.Kind()),
		Source:      w.Source(),
		PosX:        p.X,
		PosY:        p.Y,
		Width:       p.W,
		Height:      p.H,
		Config:      []byte(w.Config()),
		CreatedAt:   w.CreatedAt(),
		UpdatedAt:   w.UpdatedAt(),
	}
}

func toDomainWidget(row models.Widget) (dashboard.Widget, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return dashboard.Widget{}, fmt.Errorf("parse widget id: %w", err)
	}
	dashboardID, err := uuid.Parse(row.DashboardID)
	if err != nil {
		return dashboard.Widget{}, fmt.Errorf("parse widget dashboard id: %w", err)
	}
	return dashboard.NewWidget(dashboardID, dashboard.WidgetDTO{
		Title:    row.Title,
		Kind:     row.Kind,
		Source:   row.Source,
		Position: &dashboard.Position{X: row.PosX, Y: row.PosY, W: row.Width, H: row.Height},
		Config:   row.Config,
	}, dashboard.WithWidgetID(id), dashboard.WithWidgetTimestamps(row.CreatedAt, row.UpdatedAt)), nil
}
