package seed

import (
	"context"
	"time"

	coreseed "github.com/iota-uz/dora-register/modules/core/seed"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/incidents/infrastructure/persistence"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// CreateDemoIncidents adds one closed minor incident and one major incident
// awaiting its intermediate report.
func CreateDemoIncidents(ctx context.Context, app application.Application) error {
	logger := configuration.Use().Logger()
	repo := persistence.NewIncidentRepository()
	ctx = composables.WithTenantID(ctx, coreseed.DemoTenantID)

	count, err := repo.Count(ctx, &incident.FindParams{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("Demo incidents already exist")
		return nil
	}

	now := time.Now().UTC().Truncate(time.Minute)
	minorDetected := now.AddDate(0, -2, 0)
	minor := incident.New(incident.DTO{
		Reference:  "INC-DEMO-1",
		Title:      "Intranet login latency",
		DetectedAt: minorDetected,
		Criteria:   incident.Criteria{DowntimeHours: 1, DataLoss: incident.DataLossNone},
		RootCause:  "Misconfigured load balancer health check",
	})
	if minor, err = minor.Classify(minorDetected.Add(time.Hour)); err != nil {
		return err
	}
	if minor, err = minor.Close(minorDetected.Add(3 * time.Hour)); err != nil {
		return err
	}

	majorDetected := now.Add(-36 * time.Hour)
	major := incident.New(incident.DTO{
		Reference:   "INC-DEMO-2",
		Title:       "Card payments unavailable",
		Description: "Authorisation requests failed at the payment processor.",
		DetectedAt:  majorDetected,
		Criteria: incident.Criteria{
			CriticalServicesAffected: true,
			ClientsAffected:          180000,
			DowntimeHours:            5,
			MemberStatesAffected:     3,
			DataLoss:                 incident.DataLossAvailability,
		},
	})
	if major, err = major.Classify(majorDetected.Add(2 * time.Hour)); err != nil {
		return err
	}
	if major, err = major.RecordNotification(incident.NotificationInitial, majorDetected.Add(5*time.Hour)); err != nil {
		return err
	}

	for _, i := range []incident.Incident{minor, major} {
		if _, err := repo.Create(ctx, i); err != nil {
			return err
		}
	}
	logger.Infof("Created 2 demo incidents")
	return nil
}
