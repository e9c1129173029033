package handlers

import (
	"github.com/iota-uz/dora-register/modules/alerts/services"
	"github.com/iota-uz/dora-register/pkg/application"
)

// RegisterOutboxHandlers subscribes the alert store to relayed outbox
// messages.
func RegisterOutboxHandlers(app application.Application) {
	alerts := app.Service(services.AlertService{}).(*services.AlertService)
	app.EventPublisher().Subscribe(alerts.HandleOutbox)
}
