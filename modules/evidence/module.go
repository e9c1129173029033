package evidence

import (
	"context"
	"embed"

	"github.com/google/uuid"

	contractservices "github.com/iota-uz/dora-register/modules/contracts/services"
	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/modules/evidence/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/evidence/infrastructure/storage"
	"github.com/iota-uz/dora-register/modules/evidence/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/evidence/services"
	incidentservices "github.com/iota-uz/dora-register/modules/incidents/services"
	resilienceservices "github.com/iota-uz/dora-register/modules/resilience/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register must run after the contracts, incidents and resilience modules.
func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	app.Migrations().RegisterSchema(m.Name(), &MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewEvidenceService(
			persistence.NewDocumentRepository(),
			storage.NewLocalStorage(conf.UploadsPath),
			ownerChecks(app),
			conf.MaxUploadSize,
			conf.Logger(),
		),
	)
	app.RegisterControllers(
		controllers.NewEvidenceController(app),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}

func (m *Module) Name() string {
	return "evidence"
}

func ownerChecks(app application.Application) map[document.OwnerType]services.OwnerCheck {
	tests := app.Service(resilienceservices.TestService{}).(*resilienceservices.TestService)
	findings := app.Service(resilienceservices.FindingService{}).(*resilienceservices.FindingService)
	contracts := app.Service(contractservices.ContractService{}).(*contractservices.ContractService)
	incidents := app.Service(incidentservices.IncidentService{}).(*incidentservices.IncidentService)
	return map[document.OwnerType]services.OwnerCheck{
		document.OwnerTest: func(ctx context.Context, id uuid.UUID) error {
			_, err := tests.GetByID(ctx, id)
			return err
		},
		document.OwnerFinding: func(ctx context.Context, id uuid.UUID) error {
			_, err := findings.GetByID(ctx, id)
			return err
		},
		document.OwnerContract: func(ctx context.Context, id uuid.UUID) error {
			_, err := contracts.GetByID(ctx, id)
			return err
		},
		document.OwnerIncident: func(ctx context.Context, id uuid.UUID) error {
			_, err := incidents.GetByID(ctx, id)
			return err
		},
	}
}
