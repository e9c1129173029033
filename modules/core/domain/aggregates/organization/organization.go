package organization

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/core/domain/value_objects/lei"
)

type EntityType string

const (
	EntityCreditInstitution    EntityType = "credit_institution"
	EntityInvestmentFirm       EntityType = "investment_firm"
	EntityPaymentInstitution   EntityType = "payment_institution"
	EntityEMoneyInstitution    EntityType = "e_money_institution"
	EntityInsuranceUndertaking EntityType = "insurance_undertaking"
	EntityCryptoAssetProvider  EntityType = "crypto_asset_service_provider"
	EntityOther                EntityType = "other"
)

type Size string

const (
	SizeMicro  Size = "micro"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Organization is the financial entity that owns a tenant. Its id is the tenant id.
type Organization struct {
	id                 uuid.UUID
	name               string
	lei                string
	entityType         EntityType
	country            string
	competentAuthority string
	size               Size
	parentLEI          string
	onboarding         Onboarding
	createdAt          time.Time
	updatedAt          time.Time
}

// New returns an empty organization for a tenant that has not been onboarded yet.
func New(tenantID uuid.UUID) Organization {
	return Organization{
		id:         tenantID,
		entityType: EntityOther,
		onboarding: Onboarding{Data: map[Step]json.RawMessage{}},
	}
}

func Hydrate(
	id uuid.UUID,
	name, leiCode string,
	entityType EntityType,
	country, competentAuthority string,
	size Size,
	parentLEI string,
	onboarding Onboarding,
	createdAt, updatedAt time.Time,
) Organization {
	if onboarding.Data == nil {
		onboarding.Data = map[Step]json.RawMessage{}
	}
	return Organization{
		id:                 id,
		name:               name,
		lei:                leiCode,
		entityType:         entityType,
		country:            country,
		competentAuthority: competentAuthority,
		size:               size,
		parentLEI:          parentLEI,
		onboarding:         onboarding,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (o Organization) ID() uuid.UUID              { return o.id }
func (o Organization) Name() string               { return o.name }
func (o Organization) LEI() string                { return o.lei }
func (o Organization) EntityType() EntityType     { return o.entityType }
func (o Organization) Country() string            { return o.country }
func (o Organization) CompetentAuthority() string { return o.competentAuthority }
func (o Organization) Size() Size                 { return o.size }
func (o Organization) ParentLEI() string          { return o.parentLEI }
func (o Organization) Onboarding() Onboarding     { return o.onboarding }
func (o Organization) CreatedAt() time.Time       { return o.createdAt }
func (o Organization) UpdatedAt() time.Time       { return o.updatedAt }

// IsPersisted reports whether the organization was loaded from storage.
func (o Organization) IsPersisted() bool { return !o.createdAt.IsZero() }

// HasValidProfile reports whether name and LEI are good enough to finish onboarding.
func (o Organization) HasValidProfile() bool {
	return strings.TrimSpace(o.name) != "" && lei.Valid(o.lei)
}

// ApplyProfile copies the profile fields of dto onto the organization.
func (o Organization) ApplyProfile(dto ProfileDTO) Organization {
	o.name = dto.Name
	o.lei = dto.LEI
	o.entityType = EntityType(dto.EntityType)
	o.country = dto.Country
	o.competentAuthority = dto.CompetentAuthority
	o.size = Size(dto.Size)
	o.parentLEI = dto.ParentLEI
	return o
}

func (o Organization) WithOnboarding(ob Onboarding) Organization {
	o.onboarding = ob
	return o
}
