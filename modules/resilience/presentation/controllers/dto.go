package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
)

type TestResponse struct {
	resiliencetest.DTO
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTestResponse(t resiliencetest.Test) TestResponse {
	return TestResponse{
		DTO:       t.ToDTO(),
		ID:        t.ID().String(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func toTestResponses(items []resiliencetest.Test) []TestResponse {
	out := make([]TestResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTestResponse(t))
	}
	return out
}

type FindingResponse struct {
	finding.DTO
	ID           string     `json:"id"`
	Overdue      bool       `json:"overdue"`
	RemediatedAt *time.Time `json:"remediated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toFindingResponse(f finding.Finding, now time.Time) FindingResponse {
	return FindingResponse{
		DTO:          f.ToDTO(),
		ID:           f.ID().String(),
		Overdue:      f.IsOverdue(now),
		RemediatedAt: f.RemediatedAt(),
		CreatedAt:    f.CreatedAt(),
		UpdatedAt:    f.UpdatedAt(),
	}
}

func toFindingResponses(items []finding.Finding, now time.Time) []FindingResponse {
	out := make([]FindingResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFindingResponse(f, now))
	}
	return out
}

type testListQuery struct {
	Q      string `form:"q"`
	Type   string `form:"type"`
	Status string `form:"status"`
}

type findingListQuery struct {
	Q        string `form:"q"`
	TestID   string `form:"test_id"`
	Severity string `form:"severity"`
	Status   string `form:"status"`
	Overdue  bool   `form:"overdue"`
}

type completeRequest struct {
	ExecutedDate string `json:"executed_date"`
}
