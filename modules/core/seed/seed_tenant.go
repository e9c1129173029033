package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/core/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// DemoTenantID is the tenant the development user and the demo data belong to.
var DemoTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// CreateDemoOrganization stores a fully onboarded demo organization unless it exists.
func CreateDemoOrganization(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewOrganizationRepository()
	ctx = composables.WithTenantID(ctx, DemoTenantID)

	if _, err := repo.Get(ctx); err == nil {
		logger.Infof("Demo organization already exists")
		return nil
	} else if !errors.Is(err, organization.ErrNotFound) {
		return err
	}

	ob := organization.Onboarding{}
	for _, s := range organization.Steps {
		ob = ob.Submit(s, nil)
	}
	ob.Finished = true
	org := organization.New(DemoTenantID).ApplyProfile(organization.ProfileDTO{
		Name:               "Demo Bank AG",
		LEI:                "5493001KJTIIGC8Y1R12",
		EntityType:         string(organization.EntityCreditInstitution),
		Country:            "DE",
		CompetentAuthority: "BaFin",
		Size:               string(organization.SizeMedium),
	}).WithOnboarding(ob)

	logger.Infof("Creating demo organization")
	if _, err := repo.Save(ctx, org); err != nil {
		logger.Errorf("Failed to create demo organization: %v", err)
		return err
	}
	return nil
}
