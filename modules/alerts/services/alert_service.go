package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/outbox"
)

// TopicAlertRaised carries an alert.Notice through the outbox.
const TopicAlertRaised = "alerts.raised"

type AlertService struct {
	repo   alert.Repository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewAlertService(repo alert.Repository, logger logrus.FieldLogger) *AlertService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AlertService{repo: repo, logger: logger, now: time.Now}
}

func (s *AlertService) List(ctx context.Context, params *alert.FindParams) ([]alert.Alert, int64, error) {
	if err := authorizeAlerts(ctx, "list"); err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *AlertService) GetByID(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	if err := authorizeAlerts(ctx, "view"); err != nil {
		return alert.Alert{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Acknowledge records the caller as having seen the alert. Acknowledging
// twice is a no-op.
func (s *AlertService) Acknowledge(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	if err := authorizeAlerts(ctx, "update"); err != nil {
		return alert.Alert{}, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return alert.Alert{}, err
	}
	if a.IsAcknowledged() {
		return a, nil
	}
	return s.repo.Acknowledge(ctx, a.Acknowledge(composables.UseActorID(ctx), s.now().UTC()))
}

// Raise stores n for the tenant in ctx. A notice whose dedupe key was
// already stored is dropped and created is false.
func (s *AlertService) Raise(ctx context.Context, n alert.Notice) (saved alert.Alert, created bool, err error) {
	if errs, ok := n.Ok(); !ok {
		return alert.Alert{}, false, errs
	}
	saved, created, err = s.repo.Insert(ctx, alert.New(n))
	if err != nil {
		return alert.Alert{}, false, err
	}
	result := "duplicate"
	if created {
		result = "created"
	}
	raisedTotal().WithLabelValues(string(n.Kind), result).Inc()
	return saved, created, nil
}

// HandleOutbox is the event bus subscriber fed by the outbox relay. It
// ignores topics other than TopicAlertRaised.
func (s *AlertService) HandleOutbox(ctx context.Context, meta *outbox.Meta, payload json.RawMessage) error {
	if meta == nil || meta.Topic != TopicAlertRaised {
		return nil
	}
	var n alert.Notice
	if err := json.Unmarshal(payload, &n); err != nil {
		s.logger.WithError(err).WithField("event_id", meta.EventID).Error("alerts: dropping malformed notice")
		return nil
	}
	if errs, ok := n.Ok(); !ok {
		s.logger.WithError(errs).WithField("event_id", meta.EventID).Error("alerts: dropping invalid notice")
		return nil
	}
	ctx = composables.WithTenantID(ctx, meta.TenantID)
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		saved, created, err := s.Raise(txCtx, n)
		if err != nil {
			return fmt.Errorf("raise %s alert: %w", n.Kind, err)
		}
		if created {
			s.logger.WithFields(logrus.Fields{
				"tenant_id": meta.TenantID,
				"alert_id":  saved.ID(),
				"kind":      n.Kind,
				"severity":  n.Severity,
			}).Info("alert raised")
		}
		return nil
	})
}
