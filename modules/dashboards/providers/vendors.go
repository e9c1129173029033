package providers

import (
	"context"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type VendorStats interface {
	CountByCriticality(ctx context.Context) (map[vendor.Criticality]int, error)
	Concentration(ctx context.Context, opts vendor.ConcentrationOptions) (vendor.Concentration, error)
}

func Vendors(svc VendorStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "vendors.by_criticality",
			Label:       "Providers by criticality",
			Description: "Number of ICT third-party providers per criticality class.",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				counts, err := svc.CountByCriticality(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				return widgetdata.Data{Series: countSeries("providers", vendor.Criticalities, counts)}, nil
			},
		},
		{
			Key:         "vendors.concentration",
			Label:       "Provider concentration",
			Description: "Share of annual ICT spend per provider; config: currency, limit.",
			Shape:       widgetdata.ShapeRows,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				c, err := svc.Concentration(ctx, vendor.ConcentrationOptions{
					Currency: cfg.Get("currency").String(),
					TopN:     cfg.Limit,
				})
				if err != nil {
					return widgetdata.Data{}, err
				}
				flagged := make(map[string]bool, len(c.Flagged))
				for _, s := range c.Flagged {
					flagged[s.Key] = true
				}
				rows := make([]map[string]any, 0, len(c.ByVendor))
				for _, s := range c.ByVendor {
					rows = append(rows, map[string]any{
						"vendor":   s.Label,
						"amount":   s.Amount.Money().AsMajorUnits(),
						"currency": s.Amount.Currency,
						"percent":  s.Percent.InexactFloat64(),
						"flagged":  flagged[s.Key],
					})
				}
				hhi := c.HHI.InexactFloat64()
				return widgetdata.Data{
					Value:   &hhi,
					Unit:    "HHI",
					Columns: []string{"vendor", "amount", "currency", "percent", "flagged"},
					Rows:    rows,
				}, nil
			},
		},
	}
}
