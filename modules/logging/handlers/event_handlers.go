package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	gridservices "github.com/iota-uz/dora-register/modules/grid/services"
	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/services"
	registerservices "github.com/iota-uz/dora-register/modules/register/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// AuditEventsHandler stores grid edits and register exports with their
// before/after snapshots.
type AuditEventsHandler struct {
	service *services.LogsService
	logger  logrus.FieldLogger
	base    func() context.Context
}

func NewAuditEventsHandler(service *services.LogsService, logger logrus.FieldLogger, base func() context.Context) *AuditEventsHandler {
	return &AuditEventsHandler{service: service, logger: logger, base: base}
}

func RegisterAuditEventHandlers(app application.Application) {
	handler := NewAuditEventsHandler(
		app.Service(services.LogsService{}).(*services.LogsService),
		configuration.Use().Logger(),
		func() context.Context { return composables.WithPool(context.Background(), app.DB()) },
	)
	app.EventPublisher().Subscribe(handler.OnCellEdited)
	app.EventPublisher().Subscribe(handler.OnRegisterExported)
}

func (h *AuditEventsHandler) OnCellEdited(event *gridservices.CellEditedEvent) {
	h.store(&actionlog.ActionLog{
		TenantID:  event.TenantID,
		UserID:    event.ActorID,
		Kind:      actionlog.KindGridEdit,
		Method:    strings.ToUpper(string(event.Action)),
		Path:      fmt.Sprintf("/api/grid/%s/%s/%s", event.Resource, event.RecordID, event.Column),
		Before:    event.Before,
		After:     event.After,
		CreatedAt: event.At,
	})
}

func (h *AuditEventsHandler) OnRegisterExported(event *registerservices.ExportedEvent) {
	after, err := json.Marshal(map[string]any{
		"format":       event.Format,
		"filename":     event.Filename,
		"rows":         event.Rows,
		"errors":       event.ErrorCount,
		"completeness": event.Completeness,
	})
	if err != nil {
		h.logger.WithError(err).Warn("action-log: failed to encode export")
		return
	}
	h.store(&actionlog.ActionLog{
		TenantID:  event.TenantID,
		UserID:    event.ActorID,
		Kind:      actionlog.KindExport,
		Method:    http.MethodGet,
		Path:      "/api/register/export",
		After:     after,
		CreatedAt: event.ExportedAt,
	})
}

func (h *AuditEventsHandler) store(entry *actionlog.ActionLog) {
	ctx := composables.WithTenantID(h.base(), entry.TenantID)
	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return h.service.CreateActionLog(txCtx, entry)
	})
	if err != nil {
		h.logger.WithError(err).
			WithField("tenant_id", entry.TenantID).
			WithField("kind", entry.Kind).
			Warn("action-log: failed to persist audit event")
	}
}
