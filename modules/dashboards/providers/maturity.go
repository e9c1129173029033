package providers

import (
	"context"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/modules/register/domain/roi"
)

type MaturityStats interface {
	Current(ctx context.Context) (snapshot.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]snapshot.Snapshot, error)
}

type RegisterStats interface {
	Validate(ctx context.Context) (roi.Report, error)
}

type ESGStats interface {
	Ratings(ctx context.Context) (map[esgassessment.Rating]int, error)
}

func Maturity(svc MaturityStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "maturity.pillars",
			Label:       "Maturity by pillar",
			Description: "Current maturity score of each DORA pillar, 0 to 100.",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				s, err := svc.Current(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				points := make([]widgetdata.Point, 0, len(catalog.Pillars))
				for _, p := range catalog.Pillars {
					points = append(points, widgetdata.Point{Label: string(p), Value: s.Pillar(p).InexactFloat64()})
				}
				data := widgetdata.ValueData(s.Overall().InexactFloat64(), "%")
				data.Series = []widgetdata.Series{{Name: "score", Points: points}}
				return data, nil
			},
		},
		{
			Key:         "maturity.trend",
			Label:       "Maturity trend",
			Description: "Overall maturity of the stored snapshots, oldest first; config: limit (default 12).",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				limit := cfg.Limit
				if limit == 0 {
					limit = 12
				}
				snaps, err := svc.ListSnapshots(ctx, limit)
				if err != nil {
					return widgetdata.Data{}, err
				}
				points := make([]widgetdata.Point, len(snaps))
				for i, s := range snaps {
					points[len(snaps)-1-i] = widgetdata.Point{Label: s.TakenAt().Format(dateLayout), Value: s.Overall().InexactFloat64()}
				}
				return widgetdata.Data{Series: []widgetdata.Series{{Name: "overall", Points: points}}}, nil
			},
		},
	}
}

func Register(svc RegisterStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "register.completeness",
			Label:       "Register completeness",
			Description: "Share of Register of Information rows without validation errors.",
			Shape:       widgetdata.ShapeValue,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				report, err := svc.Validate(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				data := widgetdata.ValueData(report.Completeness.InexactFloat64(), "%")
				limit := 100.0
				data.Max = &limit
				data.Columns = []string{"template", "row_ref", "column", "severity", "message"}
				data.Rows = make([]map[string]any, 0, len(report.Issues))
				for _, is := range report.Issues {
					data.Rows = append(data.Rows, map[string]any{
						"template": string(is.Template),
						"row_ref":  is.RowRef,
						"column":   is.Column,
						"severity": string(is.Severity),
						"message":  is.Message,
					})
				}
				return data, nil
			},
		},
	}
}

func ESG(svc ESGStats) []widgetdata.Provider {
	return []widgetdata.Provider{
		{
			Key:         "esg.ratings",
			Label:       "ESG ratings",
			Description: "Providers per latest ESG rating, A to E.",
			Shape:       widgetdata.ShapeSeries,
			Fetch: func(ctx context.Context, cfg widgetdata.Config) (widgetdata.Data, error) {
				counts, err := svc.Ratings(ctx)
				if err != nil {
					return widgetdata.Data{}, err
				}
				return widgetdata.Data{Series: countSeries("providers", esgassessment.Ratings, counts)}, nil
			},
		},
	}
}
