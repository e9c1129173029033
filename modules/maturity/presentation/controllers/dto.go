package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
)

// AssessmentResponse is one catalog requirement with the tenant's status.
type AssessmentResponse struct {
	RequirementID string     `json:"requirement_id"`
	Pillar        string     `json:"pillar"`
	Article       string     `json:"article"`
	Title         string     `json:"title"`
	Weight        int        `json:"weight"`
	Status        string     `json:"status"`
	Note          string     `json:"note"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type PillarScore struct {
	Pillar string          `json:"pillar"`
	Score  decimal.Decimal `json:"score"`
	Level  string          `json:"level"`
	Band   string          `json:"band"`
}

type SnapshotResponse struct {
	ID      string          `json:"id"`
	TakenAt time.Time       `json:"taken_at"`
	Overall decimal.Decimal `json:"overall"`
	Level   string          `json:"level"`
	Band    string          `json:"band"`
	Pillars []PillarScore   `json:"pillars"`
}

func toAssessmentResponse(r catalog.Requirement, a *assessment.Assessment) AssessmentResponse {
	resp := AssessmentResponse{
		RequirementID: r.ID,
		Pillar:        string(r.Pillar),
		Article:       r.Article,
		Title:         r.Title,
		Weight:        r.Weight,
		Status:        string(assessment.StatusNotStarted),
	}
	if a != nil {
		updatedAt := a.UpdatedAt()
		resp.Status = string(a.Status())
		resp.Note = a.Note()
		resp.UpdatedBy = a.UpdatedBy()
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// toAssessmentResponses lists every catalog requirement; unassessed ones
// report not_started.
func toAssessmentResponses(c *catalog.Catalog, items []assessment.Assessment) []AssessmentResponse {
	byID := make(map[string]*assessment.Assessment, len(items))
	for i := range items {
		byID[items[i].RequirementID()] = &items[i]
	}
	reqs := c.Requirements()
	out := make([]AssessmentResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toAssessmentResponse(r, byID[r.ID]))
	}
	return out
}

func toSnapshotResponse(s snapshot.Snapshot) SnapshotResponse {
	pillars := make([]PillarScore, 0, len(catalog.Pillars))
	for _, p := range catalog.Pillars {
		score := s.Pillar(p)
		pillars = append(pillars, PillarScore{
			Pillar: string(p),
			Score:  score,
			Level:  string(snapshot.LevelFor(score)),
			Band:   string(snapshot.BandFor(score)),
		})
	}
	return SnapshotResponse{
		ID:      s.ID().String(),
		TakenAt: s.TakenAt(),
		Overall: s.Overall(),
		Level:   string(s.Level()),
		Band:    string(snapshot.BandFor(s.Overall())),
		Pillars: pillars,
	}
}

func toSnapshotResponses(items []snapshot.Snapshot) []SnapshotResponse {
	out := make([]SnapshotResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSnapshotResponse(s))
	}
	return out
}
