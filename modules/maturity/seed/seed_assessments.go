package seed

import (
	"context"
	"time"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/assessment"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/maturity/domain/catalog"
	"github.com/iota-uz/dora-register/modules/maturity/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// CreateDemoAssessments assesses the ICT risk and incident pillars of the
// demo tenant and takes two snapshots a month apart so the trend has data.
func CreateDemoAssessments(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	assessments := persistence.NewAssessmentRepository()
	snapshots := persistence.NewSnapshotRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	existing, err := assessments.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Infof("Demo maturity assessments already exist")
		return nil
	}
	c, err := catalog.Default()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var saved []assessment.Assessment
	for _, r := range c.Requirements() {
		var status assessment.Status
		switch r.Pillar {
		case catalog.PillarICTRiskManagement:
			status = assessment.StatusImplemented
		case catalog.PillarIncidentReporting, catalog.PillarThirdPartyRisk:
			status = assessment.StatusPartial
		default:
			continue
		}
		a, err := assessments.Upsert(ctx, assessment.New(r.ID, assessment.DTO{Status: string(status)}, "system", now))
		if err != nil {
			return err
		}
		saved = append(saved, a)
		if len(saved) == 4 {
			if _, err := snapshots.Create(ctx, snapshot.Compute(c, saved, now.AddDate(0, -1, 0))); err != nil {
				return err
			}
		}
	}
	if _, err := snapshots.Create(ctx, snapshot.Compute(c, saved, now)); err != nil {
		return err
	}
	logger.Infof("Seeded %d maturity assessments", len(saved))
	return nil
}
