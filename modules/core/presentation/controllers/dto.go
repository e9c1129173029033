package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
)

type OrganizationResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	LEI                string            `json:"lei"`
	EntityType         string            `json:"entity_type"`
	Country            string            `json:"country"`
	CompetentAuthority string            `json:"competent_authority"`
	Size               string            `json:"size"`
	ParentLEI          string            `json:"parent_lei,omitempty"`
	OnboardingStep     organization.Step `json:"onboarding_step"`
	OnboardingProgress float64           `json:"onboarding_progress"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
}

func toOrganizationResponse(o organization.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		ID:                 o.ID().String(),
		Name:               o.Name(),
		LEI:                o.LEI(),
		EntityType:         string(o.EntityType()),
		Country:            o.Country(),
		CompetentAuthority: o.CompetentAuthority(),
		Size:               string(o.Size()),
		ParentLEI:          o.ParentLEI(),
		OnboardingStep:     o.Onboarding().Current(),
		OnboardingProgress: o.Onboarding().Progress(),
	}
	if o.IsPersisted() {
		created, updated := o.CreatedAt(), o.UpdatedAt()
		resp.CreatedAt = &created
		resp.UpdatedAt = &updated
	}
	return resp
}
