package seed

import (
	"context"
	"time"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/esg/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	vendorpersistence "github.com/iota-uz/dora-register/modules/vendors/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// CreateDemoAssessments rates the organization and every demo provider.
func CreateDemoAssessments(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewAssessmentRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	count, err := repo.Count(ctx, &esgassessment.FindParams{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("Demo ESG assessments already exist")
		return nil
	}
	vendors, err := vendorpersistence.NewVendorRepository().List(ctx, &vendor.FindParams{})
	if err != nil {
		return err
	}

	assessedAt := time.Now().UTC().AddDate(0, -1, 0).Format(esgassessment.DateLayout)
	dtos := []esgassessment.DTO{
		{Environmental: 62, Social: 71, Governance: 78, AssessedAt: assessedAt, Notes: "Annual self-assessment"},
	}
	for i, v := range vendors {
		id := v.ID()
		base := 85 - 15*(i%4)
		dtos = append(dtos, esgassessment.DTO{
			VendorID:      &id,
			Environmental: base,
			Social:        base - 5,
			Governance:    base + 5 - 10*(i%2),
			AssessedAt:    assessedAt,
		})
	}
	for _, dto := range dtos {
		if _, err := repo.Create(ctx, esgassessment.New(dto)); err != nil {
			return err
		}
	}
	logger.Infof("Seeded %d ESG assessments", len(dtos))
	return nil
}
