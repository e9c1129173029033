package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/core/infrastructure/persistence/models"
)

func toDBOrganization(o organization.Organization) (models.Organization, error) {
	ob := o.Onboarding()
	data, err := json.Marshal(ob.Data)
	if err != nil {
		return models.Organization{}, fmt.Errorf("marshal onboarding data: %w", err)
	}
	steps := make([]string, 0, len(ob.Completed))
	for _, s := range ob.Completed {
		steps = append(steps, string(s))
	}
	return models.Organization{
		ID:                 o.ID().String(),
		Name:               o.Name(),
		LEI:                o.LEI(),
		EntityType:         string(o.EntityType()),
		Country:            o.Country(),
		CompetentAuthority: o.CompetentAuthority(),
		Size:               string(o.Size()),
		ParentLEI:          o.ParentLEI(),
		OnboardingSteps:    steps,
		OnboardingData:     data,
		OnboardingFinished: ob.Finished,
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}, nil
}

func toDomainOrganization(m models.Organization) (organization.Organization, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return organization.Organization{}, fmt.Errorf("parse organization id: %w", err)
	}
	data := map[organization.Step]json.RawMessage{}
	if len(m.OnboardingData) > 0 {
		if err := json.Unmarshal(m.OnboardingData, &data); err != nil {
			return organization.Organization{}, fmt.Errorf("unmarshal onboarding data: %w", err)
		}
	}
	steps := make([]organization.Step, 0, len(m.OnboardingSteps))
	for _, s := range m.OnboardingSteps {
		steps = append(steps, organization.Step(s))
	}
	return organization.Hydrate(
		id,
		m.Name,
		m.LEI,
		organization.EntityType(m.EntityType),
		m.Country,
		m.CompetentAuthority,
		organization.Size(m.Size),
		m.ParentLEI,
		organization.Onboarding{Completed: steps, Data: data, Finished: m.OnboardingFinished},
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
