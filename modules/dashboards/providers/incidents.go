package providers

import (
	"context"
	"time"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
)

type IncidentStats interface {
	List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, int64, error)
	MajorByMonth(ctx context.Context, months int) ([]incidentservices.MonthCount, error)
	Now() time.Time
}

type FindingStats interface {
	ListOverdue(ctx context.Context, now time.Time) ([]finding.Finding, error)
	CountBySeverity(ctx context.Context) (map[finding.Severity]int, error)
	Now() time.Time
}

func Incidents(svc IncidentStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "incidents.open",
			Label:       "Open incidents",
			Description: "Count of open ICT incidents with the next reporting deadline of each.",
			Shape:       widgetdata.ShapeValue,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				items, total, err := svc.List(ctx, &incident.FindParams{Open: true})
				if err != nil {
					return widgetdata.Data{}, err
				}
				now := svc.Now()
				rows := make([]map[string]any, 0, len(items))
				for _, i := range items {
					row := map[string]any{
						"reference":     i.Reference(),
						"title":         i.Title(),
						"status":        string(i.Status()),
						"major":         i.Major(),
						"detected_at":   i.DetectedAt().Format(time.RFC3339),
						"next_deadline": nil,
						"overdue":       i.IsOverdue(now),
					}
					if d, ok := i.NextDeadline(now); ok {
						row["next_deadline"] = d.Due.Format(time.RFC3339)
					}
					rows = append(rows, row)
				}
				data := widgetdata.ValueData(float64(total), "")
				data.Columns = []string{"reference", "title", "status", "major", "detected_at", "next_deadline", "overdue"}
				data.Rows = rows
				return data, nil
			},
		},
		{
			Key:         "incidents.major_by_month",
			Label:       "Major incidents per month",
			Description: "Major incidents by detection month; config: months (default 12).",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				months, err := svc.MajorByMonth(ctx, cfg.MonthsOr(12))
				if err != nil {
					return widgetdata.Data{}, err
				}
				points := make([]widgetdata.Point, 0, len(months))
				for _, m := range months {
					points = append(points, widgetdata.Point{Label: m.Month, Value: float64(m.Count)})
				}
				return widgetdata.Data{Series: []widgetdata.Series{{Name: "major incidents", Points: points}}}, nil
			},
		},
	}
}

func Findings(svc FindingStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "findings.by_severity",
			Label:       "Findings by severity",
			Description: "Open and closed resilience test findings per severity.",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				counts, err := svc.CountBySeverity(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				return widgetdata.Data{Series: countSeries("findings", finding.Severities, counts)}, nil
			},
		},
		{
			Key:         "findings.overdue",
			Label:       "Overdue findings",
			Description: "Findings past their remediation due date.",
			Shape:       widgetdata.ShapeRows,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				now := svc.Now()
				items, err := svc.ListOverdue(ctx, now)
				if err != nil {
					return widgetdata.Data{}, err
				}
				rows := make([]map[string]any, 0, len(items))
				for _, f := range items {
					overdue := 0
					if f.DueDate() != nil {
						overdue = daysBetween(*f.DueDate(), now)
					}
					rows = append(rows, map[string]any{
						"title":        f.Title(),
						"severity":     string(f.Severity()),
						"owner":        f.Owner(),
						"due_date":     dateCell(f.DueDate()),
						"days_overdue": overdue,
					})
				}
				return widgetdata.Data{
					Columns: []string{"title", "severity", "owner", "due_date", "days_overdue"},
					Rows:    rows,
				}, nil
			},
		},
	}
}
