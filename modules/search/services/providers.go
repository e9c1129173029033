package services

import (
	"context"
	"fmt"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/spotlight"
)

type VendorLister interface {
	All(ctx context.Context) ([]vendor.Vendor, error)
}

type ContractLister interface {
	All(ctx context.Context) ([]contract.Contract, error)
}

type IncidentLister interface {
	All(ctx context.Context) ([]incident.Incident, error)
}

type TestLister interface {
	All(ctx context.Context) ([]resiliencetest.Test, error)
}

// providerFunc adapts a listing service to spotlight.Provider.
type providerFunc[T any] struct {
	typ  string
	list func(context.Context) ([]T, error)
	doc  func(T) spotlight.Document
}

func (p providerFunc[T]) Type() string { return p.typ }

func (p providerFunc[T]) Documents(ctx context.Context) ([]spotlight.Document, error) {
	items, err := p.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]spotlight.Document, 0, len(items))
	for _, it := range items {
		d := p.doc(it)
		d.Type = p.typ
		out = append(out, d)
	}
	return out, nil
}

func Vendors(s VendorLister) spotlight.Provider {
	return providerFunc[vendor.Vendor]{typ: "vendor", list: s.All, doc: func(v vendor.Vendor) spotlight.Document {
		return spotlight.Document{
			ID:       v.ID().String(),
			Title:    v.Name(),
			Subtitle: v.LEI(),
			Link:     "/vendors/" + v.ID().String(),
			Terms:    []string{v.Name(), v.LEI()},
		}
	}}
}

func Contracts(s ContractLister) spotlight.Provider {
	return providerFunc[contract.Contract]{typ: "contract", list: s.All, doc: func(c contract.Contract) spotlight.Document {
		return spotlight.Document{
			ID:       c.ID().String(),
			Title:    c.Reference(),
			Subtitle: c.FunctionName(),
			Link:     "/contracts/" + c.ID().String(),
			Terms:    []string{c.Reference(), c.FunctionName()},
		}
	}}
}

func Incidents(s IncidentLister) spotlight.Provider {
	return providerFunc[incident.Incident]{typ: "incident", list: s.All, doc: func(i incident.Incident) spotlight.Document {
		return spotlight.Document{
			ID:       i.ID().String(),
			Title:    fmt.Sprintf("%s %s", i.Reference(), i.Title()),
			Subtitle: string(i.Status()),
			Link:     "/incidents/" + i.ID().String(),
			Terms:    []string{i.Reference(), i.Title()},
		}
	}}
}

func Tests(s TestLister) spotlight.Provider {
	return providerFunc[resiliencetest.Test]{typ: "test", list: s.All, doc: func(t resiliencetest.Test) spotlight.Document {
		return spotlight.Document{
			ID:       t.ID().String(),
			Title:    t.Name(),
			Subtitle: string(t.Type()),
			Link:     "/tests/" + t.ID().String(),
			Terms:    []string{t.Name()},
		}
	}}
}
