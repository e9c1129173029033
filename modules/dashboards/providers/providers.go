// Package providers adapts the reporting modules' services into widget
// data providers.
package providers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
)

const dateLayout = "2006-01-02"

// countSeries turns a count map into one series, keeping keys in order so
// empty buckets still render.
func countSeries[K ~string](name string, keys []K, counts map[K]int) []widgetdata.Series {
	points := make([]widgetdata.Point, 0, len(keys))
	for _, k := range keys {
		points = append(points, widgetdata.Point{Label: string(k), Value: float64(counts[k])})
	}
	return []widgetdata.Series{{Name: name, Points: points}}
}

func dateCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
