package seed

import (
	"context"
	"time"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
	"github.com/iota-uz/dora-register/modules/resilience/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// CreateDemoTests seeds a completed penetration test with two findings, one
// of them past its SLA, plus a planned TLPT.
func CreateDemoTests(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	tests := persistence.NewTestRepository()
	findings := persistence.NewFindingRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	count, err := tests.Count(ctx, &resiliencetest.FindParams{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("Demo resilience tests already exist")
		return nil
	}

	now := time.Now().UTC()
	executed := now.AddDate(0, -2, 0)
	pentest, err := tests.Create(ctx, resiliencetest.New(resiliencetest.DTO{
		Name:              "Annual external penetration test",
		Type:              string(resiliencetest.TypePenetration),
		Scope:             "Internet-facing payment and onboarding services",
		Tester:            string(resiliencetest.TesterExternal),
		PlannedDate:       executed.AddDate(0, 0, -7).Format(resiliencetest.DateLayout),
		ExecutedDate:      executed.Format(resiliencetest.DateLayout),
		Status:            string(resiliencetest.StatusCompleted),
		CriticalFunctions: []string{"Payments", "Customer onboarding"},
	}))
	if err != nil {
		return err
	}
	if _, err := tests.Create(ctx, resiliencetest.New(resiliencetest.DTO{
		Name:        "Threat-led penetration test",
		Type:        string(resiliencetest.TypeTLPT),
		Tester:      string(resiliencetest.TesterExternal),
		PlannedDate: now.AddDate(0, 4, 0).Format(resiliencetest.DateLayout),
	})); err != nil {
		return err
	}

	for _, dto := range []finding.DTO{
		{TestID: pentest.ID(), Title: "Outdated TLS configuration on API gateway", Severity: string(finding.SeverityHigh), Owner: "Platform team"},
		{TestID: pentest.ID(), Title: "Verbose error pages", Severity: string(finding.SeverityLow), Owner: "Web team"},
	} {
		dto.DefaultDue(executed)
		if _, err := findings.Create(ctx, finding.New(dto)); err != nil {
			return err
		}
	}
	logger.Infof("Created demo resilience tests and findings")
	return nil
}
