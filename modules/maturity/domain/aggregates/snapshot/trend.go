package snapshot

import (
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
)

type PillarDelta struct {
	Pillar   catalog.Pillar   `json:"pillar"`
	Current  decimal.Decimal  `json:"current"`
	Previous *decimal.Decimal `json:"previous,omitempty"`
	Delta    decimal.Decimal  `json:"delta"`
}

type Trend struct {
	Overall PillarDelta   `json:"overall"`
	Pillars []PillarDelta `json:"pillars"`
}

// overallKey labels the overall row of a trend.
const overallKey catalog.Pillar = "overall"

// CompareTrend reports the change from previous to latest. Without a
// previous snapshot every delta is zero.
func CompareTrend(latest Snapshot, previous *Snapshot) Trend {
	delta := func(p catalog.Pillar, cur decimal.Decimal, prev func(Snapshot) decimal.Decimal) PillarDelta {
		d := PillarDelta{Pillar: p, Current: cur, Delta: decimal.Zero}
		if previous != nil {
			pv := prev(*previous)
			d.Previous = &pv
			d.Delta = cur.Sub(pv)
		}
		return d
	}
	t := Trend{
		Overall: delta(overallKey, latest.Overall(), Snapshot.Overall),
		Pillars: make([]PillarDelta, 0, len(catalog.Pillars)),
	}
	for _, p := range catalog.Pillars {
		t.Pillars = append(t.Pillars, delta(p, latest.Pillar(p), func(s Snapshot) decimal.Decimal { return s.Pillar(p) }))
	}
	return t
}
