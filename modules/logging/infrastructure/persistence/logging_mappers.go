package persistence

import (
	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/infrastructure/persistence/models"
)

func toDBActionLog(log *actionlog.ActionLog) *models.ActionLog {
	kind := log.Kind
	if kind == "" {
		kind = actionlog.KindRequest
	}
	return &models.ActionLog{
		ID:        log.ID,
		TenantID:  log.TenantID.String(),
		UserID:    log.UserID,
		Kind:      string(kind),
		Method:    log.Method,
		Path:      log.Path,
		Before:    nullableJSON(log.Before),
		After:     nullableJSON(log.After),
		UserAgent: log.UserAgent,
		IP:        log.IP,
		CreatedAt: log.CreatedAt,
	}
}

func toDomainActionLog(dbLog *models.ActionLog) *actionlog.ActionLog {
	tenantID, err := uuid.Parse(dbLog.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}

	return &actionlog.ActionLog{
		ID:        dbLog.ID,
		TenantID:  tenantID,
		UserID:    dbLog.UserID,
		Kind:      actionlog.Kind(dbLog.Kind),
		Method:    dbLog.Method,
		Path:      dbLog.Path,
		Before:    dbLog.Before,
		After:     dbLog.After,
		UserAgent: dbLog.UserAgent,
		IP:        dbLog.IP,
		CreatedAt: dbLog.CreatedAt,
	}
}

// nullableJSON stores an absent snapshot as SQL NULL instead of invalid jsonb.
func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
