package snapshot

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
)

type Level string

const (
	LevelInitial    Level = "initial"
	LevelDeveloping Level = "developing"
	LevelDefined    Level = "defined"
	LevelManaged    Level = "managed"
	LevelOptimized  Level = "optimized"
)

type Band string

const (
	BandRed   Band = "red"
	BandAmber Band = "amber"
	BandGreen Band = "green"
)

var hundred = decimal.NewFromInt(100)

// LevelFor maps a 0-100 score onto the five maturity levels.
func LevelFor(score decimal.Decimal) Level {
	switch {
	case score.LessThan(decimal.NewFromInt(20)):
		return LevelInitial
	case score.LessThan(decimal.NewFromInt(40)):
		return LevelDeveloping
	case score.LessThan(decimal.NewFromInt(60)):
		return LevelDefined
	case score.LessThan(decimal.NewFromInt(80)):
		return LevelManaged
	default:
		return LevelOptimized
	}
}

// BandFor is the RAG colour of a progress bar.
func BandFor(score decimal.Decimal) Band {
	switch {
	case score.LessThan(decimal.NewFromInt(40)):
		return BandRed
	case score.LessThan(decimal.NewFromInt(70)):
		return BandAmber
	default:
		return BandGreen
	}
}

// Snapshot freezes the maturity scores of a tenant at one point in time.
type Snapshot struct {
	id      uuid.UUID
	tenant  uuid.UUID
	takenAt time.Time
	overall decimal.Decimal
	pillars map[catalog.Pillar]decimal.Decimal
}

type Option func(*Snapshot)

func WithID(id uuid.UUID) Option {
	return func(s *Snapshot) { s.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(s *Snapshot) { s.tenant = id }
}

func New(takenAt time.Time, overall decimal.Decimal, pillars map[catalog.Pillar]decimal.Decimal, opts ...Option) Snapshot {
	s := Snapshot{takenAt: takenAt, overall: overall, pillars: pillars}
	if s.pillars == nil {
		s.pillars = map[catalog.Pillar]decimal.Decimal{}
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Compute scores the assessments against the catalog. A requirement earns
// weight x credit; not applicable requirements leave both sides of the
// ratio, and unassessed ones count as not started.
func Compute(c *catalog.Catalog, assessments []assessment.Assessment, takenAt time.Time) Snapshot {
	byID := make(map[string]assessment.Status, len(assessments))
	for _, a := range assessments {
		byID[a.RequirementID()] = a.Status()
	}
	type tally struct{ earned, possible decimal.Decimal }
	totals := make(map[catalog.Pillar]*tally, len(catalog.Pillars))
	overall := &tally{}
	for _, r := range c.Requirements() {
		status, ok := byID[r.ID]
		if !ok {
			status = assessment.StatusNotStarted
		}
		if !status.Applicable() {
			continue
		}
		weight := decimal.NewFromInt(int64(r.Weight))
		t, ok := totals[r.Pillar]
		if !ok {
			t = &tally{}
			totals[r.Pillar] = t
		}
		earned := weight.Mul(status.Credit())
		t.earned = t.earned.Add(earned)
		t.possible = t.possible.Add(weight)
		overall.earned = overall.earned.Add(earned)
		overall.possible = overall.possible.Add(weight)
	}
	pillars := make(map[catalog.Pillar]decimal.Decimal, len(catalog.Pillars))
	for _, p := range catalog.Pillars {
		t, ok := totals[p]
		if !ok {
			pillars[p] = decimal.Zero
			continue
		}
		pillars[p] = percent(t.earned, t.possible)
	}
	return New(takenAt, percent(overall.earned, overall.possible), pillars)
}

func percent(earned, possible decimal.Decimal) decimal.Decimal {
	if possible.IsZero() {
		return decimal.Zero
	}
	return earned.Mul(hundred).Div(possible).Round(2)
}

func (s Snapshot) ID() uuid.UUID            { return s.id }
func (s Snapshot) TenantID() uuid.UUID      { return s.tenant }
func (s Snapshot) TakenAt() time.Time       { return s.takenAt }
func (s Snapshot) Overall() decimal.Decimal { return s.overall }
func (s Snapshot) Level() Level             { return LevelFor(s.overall) }

// Pillar returns the score of p, zero when it was not recorded.
func (s Snapshot) Pillar(p catalog.Pillar) decimal.Decimal {
	return s.pillars[p]
}

func (s Snapshot) Pillars() map[catalog.Pillar]decimal.Decimal {
	out := make(map[catalog.Pillar]decimal.Decimal, len(s.pillars))
	for k, v := range s.pillars {
		out[k] = v
	}
	return out
}
