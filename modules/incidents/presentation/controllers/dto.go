package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
)

type IncidentResponse struct {
	incident.DTO
	ID             string               `json:"id"`
	Status         incident.Status      `json:"status"`
	Major          bool                 `json:"major"`
	CriteriaMet    []incident.Criterion `json:"criteria_met"`
	ClassifiedAt   *time.Time           `json:"classified_at,omitempty"`
	InitialAt      *time.Time           `json:"initial_notified_at,omitempty"`
	IntermediateAt *time.Time           `json:"intermediate_notified_at,omitempty"`
	FinalAt        *time.Time           `json:"final_notified_at,omitempty"`
	Deadlines      []incident.Deadline  `json:"deadlines"`
	Overdue        bool                 `json:"overdue"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toIncidentResponse(i incident.Incident, now time.Time) IncidentResponse {
	resp := IncidentResponse{
		DTO:            i.ToDTO(),
		ID:             i.ID().String(),
		Status:         i.Status(),
		Major:          i.Major(),
		CriteriaMet:    i.Criteria().Classify().Met,
		ClassifiedAt:   i.ClassifiedAt(),
		InitialAt:      i.InitialAt(),
		IntermediateAt: i.IntermediateAt(),
		FinalAt:        i.FinalAt(),
		Deadlines:      i.Deadlines(now),
		Overdue:        i.IsOverdue(now),
		CreatedAt:      i.CreatedAt(),
		UpdatedAt:      i.UpdatedAt(),
	}
	if resp.CriteriaMet == nil {
		resp.CriteriaMet = []incident.Criterion{}
	}
	if resp.Deadlines == nil {
		resp.Deadlines = []incident.Deadline{}
	}
	return resp
}

func toIncidentResponses(items []incident.Incident, now time.Time) []IncidentResponse {
	out := make([]IncidentResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toIncidentResponse(i, now))
	}
	return out
}

type incidentListQuery struct {
	Q        string `form:"q"`
	Status   string `form:"status"`
	Major    string `form:"major"`
	Open     bool   `form:"open"`
	VendorID string `form:"vendor_id"`
}
