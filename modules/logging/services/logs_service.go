package services

import (
	"context"
	"errors"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
)

type LogsService struct {
	actionRepo actionlog.Repository
}

func NewLogsService(actionRepo actionlog.Repository) *LogsService {
	return &LogsService{
		actionRepo: actionRepo,
	}
}

func (s *LogsService) ListActionLogs(
	ctx context.Context,
	params *actionlog.FindParams,
) ([]*actionlog.ActionLog, int64, error) {
	if err := authorizeLogging(ctx, LogsAuthzAction); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &actionlog.FindParams{}
	}

	logs, err := s.actionRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.actionRepo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

// CreateActionLog is called by the recording middleware and event
// handlers. It is not authorized: every caller is audited.
func (s *LogsService) CreateActionLog(ctx context.Context, log *actionlog.ActionLog) error {
	if log == nil {
		return errors.New("action log payload is required")
	}
	return s.actionRepo.Create(ctx, log)
}
