package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
)

type AssessmentResponse struct {
	esgassessment.DTO
	ID        string               `json:"id"`
	Overall   decimal.Decimal      `json:"overall"`
	Rating    esgassessment.Rating `json:"rating"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func toAssessmentResponse(a esgassessment.Assessment) AssessmentResponse {
	return AssessmentResponse{
		DTO:       a.ToDTO(),
		ID:        a.ID().String(),
		Overall:   a.Overall(),
		Rating:    a.Rating(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func toAssessmentResponses(items []esgassessment.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAssessmentResponse(a))
	}
	return out
}

type RatingCount struct {
	Rating esgassessment.Rating `json:"rating"`
	Count  int                  `json:"count"`
}

type assessmentListQuery struct {
	VendorID     string `form:"vendor_id"`
	Organization bool   `form:"organization"`
	Rating       string `form:"rating"`
}
