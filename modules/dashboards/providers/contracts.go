package providers

import (
	"context"
	"time"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
)

type ContractStats interface {
	ListExpiring(ctx context.Context, within int) ([]contract.Contract, error)
	CountByStatus(ctx context.Context) (map[contract.Status]int, error)
	Now() time.Time
}

func Contracts(svc ContractStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "contracts.expiring",
			Label:       "Expiring arrangements",
			Description: "Contractual arrangements ending within the configured days (default 90).",
			Shape:       widgetdata.ShapeRows,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				items, err := svc.ListExpiring(ctx, cfg.DaysOr(contract.ExpiringWindowDays))
				if err != nil {
					return widgetdata.Data{}, err
				}
				now := svc.Now()
				rows := make([]map[string]any, 0, len(items))
				for _, c := range items {
					days, _ := c.DaysUntilEnd(now)
					rows = append(rows, map[string]any{
						"reference": c.Reference(),
						"function":  c.FunctionName(),
						"critical":  c.SupportsCriticalFunction(),
						"end_date":  dateCell(c.EndDate()),
						"days_left": days,
					})
				}
				return widgetdata.Data{
					Columns: []string{"reference", "function", "critical", "end_date", "days_left"},
					Rows:    rows,
				}, nil
			},
		},
		{
			Key:         "contracts.by_status",
			Label:       "Arrangements by status",
			Description: "Number of contractual arrangements per lifecycle status.",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				counts, err := svc.CountByStatus(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				return widgetdata.Data{Series: countSeries("arrangements", contract.Statuses, counts)}, nil
			},
		},
	}
}
