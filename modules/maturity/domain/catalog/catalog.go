package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

type Pillar string

const (
	PillarICTRiskManagement  Pillar = "ict_risk_management"
	PillarIncidentReporting  Pillar = "incident_reporting"
	PillarResilienceTesting  Pillar = "resilience_testing"
	PillarThirdPartyRisk     Pillar = "third_party_risk"
	PillarInformationSharing Pillar = "information_sharing"
)

// Pillars lists the five DORA pillars in regulation order.
var Pillars = []Pillar{
	PillarICTRiskManagement,
	PillarIncidentReporting,
	PillarResilienceTesting,
	PillarThirdPartyRisk,
	PillarInformationSharing,
}

type Requirement struct {
	ID      string `yaml:"id" json:"id"`
	Article string `yaml:"article" json:"article"`
	Title   string `yaml:"title" json:"title"`
	Weight  int    `yaml:"weight" json:"weight"`
	Pillar  Pillar `yaml:"-" json:"pillar"`
}

type PillarGroup struct {
	Key          Pillar        `yaml:"key" json:"key"`
	Title        string        `yaml:"title" json:"title"`
	Articles     string        `yaml:"articles" json:"articles"`
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

type Catalog struct {
	Pillars []PillarGroup `yaml:"pillars" json:"pillars"`
	byID    map[string]Requirement
}

//go:embed catalog.yaml
var catalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse maturity catalog: %w", err)
	}
	known := make(map[Pillar]bool, len(Pillars))
	for _, p := range Pillars {
		known[p] = true
	}
	c.byID = make(map[string]Requirement)
	for gi := range c.Pillars {
		g := &c.Pillars[gi]
		if !known[g.Key] {
			return nil, fmt.Errorf("maturity catalog: unknown pillar %q", g.Key)
		}
		for ri := range g.Requirements {
			r := &g.Requirements[ri]
			r.Pillar = g.Key
			if r.ID == "" {
				return nil, fmt.Errorf("maturity catalog: requirement without id in %s", g.Key)
			}
			if r.Weight <= 0 {
				return nil, fmt.Errorf("maturity catalog: requirement %s has weight %d", r.ID, r.Weight)
			}
			if _, dup := c.byID[r.ID]; dup {
				return nil, fmt.Errorf("maturity catalog: duplicate requirement %s", r.ID)
			}
			c.byID[r.ID] = *r
		}
	}
	return &c, nil
}

func (c *Catalog) Requirement(id string) (Requirement, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Requirements returns every requirement in catalog order.
func (c *Catalog) Requirements() []Requirement {
	out := make([]Requirement, 0, len(c.byID))
	for _, g := range c.Pillars {
		out = append(out, g.Requirements...)
	}
	return out
}
