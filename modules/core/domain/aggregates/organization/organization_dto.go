package organization

import (
	"encoding/json"
	"strings"

	"github.com/iota-uz/dora-register/modules/core/domain/value_objects/lei"
	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type ProfileDTO struct {
	Name               string `json:"name" validate:"required,max=255"`
	LEI                string `json:"lei" validate:"required,lei"`
	EntityType         string `json:"entity_type" validate:"required,oneof=credit_institution investment_firm payment_institution e_money_institution insurance_undertaking crypto_asset_service_provider other"`
	Country            string `json:"country" validate:"required,iso3166_1_alpha2"`
	CompetentAuthority string `json:"competent_authority" validate:"max=255"`
	Size               string `json:"size" validate:"omitempty,oneof=micro small medium large"`
	ParentLEI          string `json:"parent_lei" validate:"omitempty,lei"`
}

func (d *ProfileDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.LEI = lei.Normalize(d.LEI)
	d.EntityType = strings.TrimSpace(d.EntityType)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.CompetentAuthority = strings.TrimSpace(d.CompetentAuthority)
	d.Size = strings.TrimSpace(d.Size)
	d.ParentLEI = lei.Normalize(d.ParentLEI)
}

func (d *ProfileDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Organization")
	if d.ParentLEI != "" && d.ParentLEI == d.LEI {
		if errs == nil {
			errs = serrors.ValidationErrors{}
		}
		errs.Add("ParentLEI", serrors.NewInvalidValueError("ParentLEI", "must differ from the entity LEI"))
	}
	return errs, len(errs) == 0
}

type Entity struct {
	Name    string `json:"name" validate:"required"`
	LEI     string `json:"lei" validate:"omitempty,lei"`
	Country string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// EntitiesDTO lists the entities within the scope of consolidation.
type EntitiesDTO struct {
	Entities []Entity `json:"entities" validate:"dive"`
}

type ICTServicesDTO struct {
	Services []string `json:"services" validate:"min=1,dive,required"`
}

type TeamMember struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin editor viewer"`
}

type TeamDTO struct {
	Members []TeamMember `json:"members" validate:"min=1,dive"`
}

type ReviewDTO struct {
	Confirmed bool `json:"confirmed" validate:"required"`
}

// DecodeStep parses and validates the payload of a non-profile step.
func DecodeStep(s Step, payload json.RawMessage) (serrors.ValidationErrors, error) {
	var dst any
	switch s {
	case StepEntities:
		dst = &EntitiesDTO{}
	case StepICTServices:
		dst = &ICTServicesDTO{}
	case StepTeam:
		dst = &TeamDTO{}
	case StepReview:
		dst = &ReviewDTO{}
	default:
		return nil, ErrUnknownStep
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return nil, ErrInvalidPayload
	}
	if entities, ok := dst.(*EntitiesDTO); ok {
		for i := range entities.Entities {
			entities.Entities[i].LEI = lei.Normalize(entities.Entities[i].LEI)
			entities.Entities[i].Country = strings.ToUpper(strings.TrimSpace(entities.Entities[i].Country))
		}
	}
	return serrors.ValidateStruct(constants.Validate, dst, "Organization.Onboarding"), nil
}
