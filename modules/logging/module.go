package logging

import (
	"embed"

	"github.com/iota-uz/dora-register/modules/logging/handlers"
	"github.com/iota-uz/dora-register/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/dora-register/modules/logging/presentation/controllers"
	"github.com/iota-uz/dora-register/modules/logging/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

//go:embed presentation/locales/*.toml
var localeFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	logs := services.NewLogsService(persistence.NewActionLogRepository())
	app.RegisterLocaleFiles(&localeFiles)
	app.Migrations().RegisterSchema(m.Name(), &migrationFiles)
	app.RegisterServices(logs)
	app.RegisterControllers(
		controllers.NewLogsController(app),
	)
	app.RegisterNavItems(NavItems...)
	handlers.RegisterAuditEventHandlers(app)
	app.RegisterMiddleware(handlers.ActionLogMiddleware(logs, configuration.Use().ActionLogEnabled))
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
