package controllers

import (
	"encoding/json"
	"time"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/modules/dashboards/services"
)

type WidgetResponse struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Kind     dashboard.Kind     `json:"kind"`
	Source   string             `json:"source"`
	Position dashboard.Position `json:"position"`
	Config   json.RawMessage    `json:"config"`
}

type DashboardResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	IsDefault bool             `json:"is_default"`
	Widgets   []WidgetResponse `json:"widgets"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toWidgetResponse(w dashboard.Widget) WidgetResponse {
	return WidgetResponse{
		ID:       w.ID().String(),
		Title:    w.Title(),
		Kind:     w.Kind(),
		Source:   w.Source(),
		Position: w.Position(),
		Config:   w.Config(),
	}
}

func toDashboardResponse(d dashboard.Dashboard) DashboardResponse {
	widgets := d.Widgets()
	out := DashboardResponse{
		ID:        d.ID().String(),
		Name:      d.Name(),
		IsDefault: d.IsDefault(),
		Widgets:   make([]WidgetResponse, 0, len(widgets)),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
	for _, w := range widgets {
		out.Widgets = append(out.Widgets, toWidgetResponse(w))
	}
	return out
}

func toDashboardResponses(items []dashboard.Dashboard) []DashboardResponse {
	out := make([]DashboardResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDashboardResponse(d))
	}
	return out
}

type WidgetDataResponse struct {
	WidgetResponse
	Data  *widgetdata.Data      `json:"data"`
	Error *services.WidgetError `json:"error,omitempty"`
}

type RenderResponse struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	Widgets []WidgetDataResponse `json:"widgets"`
}

func toRenderResponse(d dashboard.Dashboard, results []services.WidgetResult) RenderResponse {
	out := RenderResponse{
		ID:      d.ID().String(),
		Name:    d.Name(),
		Widgets: make([]WidgetDataResponse, 0, len(results)),
	}
	for _, res := range results {
		out.Widgets = append(out.Widgets, WidgetDataResponse{
			WidgetResponse: toWidgetResponse(res.Widget),
			Data:           res.Data,
			Error:          res.Error,
		})
	}
	return out
}
