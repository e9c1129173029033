// Package widgetdata resolves the data behind dashboard widgets from
// providers registered by the reporting modules.
package widgetdata

import (
	"context"
	"sort"
	"sync"

	"github.com/go-faster/errors"
)

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Data is what a widget renders. Providers fill the part matching their
// shape: Value for KPIs and progress, Series for charts, Rows for tables.
type Data struct {
	Value   *float64         `json:"value,omitempty"`
	Max     *float64         `json:"max,omitempty"`
	Unit    string           `json:"unit,omitempty"`
	Series  []Series         `json:"series,omitempty"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

func ValueData(v float64, unit string) Data {
	return Data{Value: &v, Unit: unit}
}

type FetchFunc func(ctx context.Context, cfg Config) (Data, error)

type Provider struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Shape       string    `json:"shape"`
	Fetch       FetchFunc `json:"-"`
}

const (
	ShapeValue  = "value"
	ShapeSeries = "series"
	ShapeRows   = "rows"
)

var ErrUnknownProvider = errors.New("unknown widget data provider")

type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds p, replacing any provider with the same key.
func (r *Registry) Register(providers ...Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range providers {
		r.providers[p.Key] = p
	}
}

func (r *Registry) Lookup(key string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[key]
	return p, ok
}

// List returns the providers sorted by key.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Resolve fetches key with cfg, then applies the row filter and limit.
func (r *Registry) Resolve(ctx context.Context, key string, cfg Config) (Data, error) {
	p, ok := r.Lookup(key)
	if !ok {
		return Data{}, errors.Wrap(ErrUnknownProvider, key)
	}
	data, err := p.Fetch(ctx, cfg)
	if err != nil {
		return Data{}, errors.Wrapf(err, "fetch %s", key)
	}
	if cfg.Filter != "" && data.Rows != nil {
		filter, err := CompileFilter(cfg.Filter, data.Columns)
		if err != nil {
			return Data{}, err
		}
		if data.Rows, err = filter.Apply(data.Rows); err != nil {
			return Data{}, err
		}
	}
	if cfg.Limit > 0 {
		if len(data.Rows) > cfg.Limit {
			data.Rows = data.Rows[:cfg.Limit]
		}
		for i, s := range data.Series {
			if len(s.Points) > cfg.Limit {
				data.Series[i].Points = s.Points[:cfg.Limit]
			}
		}
	}
	return data, nil
}
