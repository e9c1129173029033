// Package scheduler runs the periodic compliance jobs of every tenant.
package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/services"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/outbox"
)

// SystemActor is recorded on everything the scheduler changes.
const SystemActor = "system"

type TenantLister interface {
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Snapshotter interface {
	TakeSnapshot(ctx context.Context) (snapshot.Snapshot, error)
}

type NoticeScanner interface {
	Scan(ctx context.Context) ([]alert.Notice, error)
}

type Scheduler struct {
	conf      configuration.SchedulerOptions
	tenants   TenantLister
	scanner   NoticeScanner
	snapshots Snapshotter
	publisher outbox.Publisher
	logger    *logrus.Entry
}

func New(
	conf configuration.SchedulerOptions,
	tenants TenantLister,
	scanner NoticeScanner,
	snapshots Snapshotter,
	publisher outbox.Publisher,
	logger *logrus.Logger,
) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		conf:      conf,
		tenants:   tenants,
		scanner:   scanner,
		snapshots: snapshots,
		publisher: publisher,
		logger:    logger.WithField("component", "scheduler"),
	}
}

// Run blocks until ctx is done. ctx must carry a database pool; each job
// opens its own transaction per tenant.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(s.logger)),
		cron.WithChain(cron.Recover(cron.PrintfLogger(s.logger)), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.conf.ComplianceScanSpec, func() { s.ScanAll(ctx) }); err != nil {
		return fmt.Errorf("scheduler: compliance scan schedule %q: %w", s.conf.ComplianceScanSpec, err)
	}
	if _, err := c.AddFunc(s.conf.MaturitySnapshotSpec, func() { s.SnapshotAll(ctx) }); err != nil {
		return fmt.Errorf("scheduler: maturity snapshot schedule %q: %w", s.conf.MaturitySnapshotSpec, err)
	}
	c.Start()
	s.logger.WithFields(logrus.Fields{
		"compliance_scan":   s.conf.ComplianceScanSpec,
		"maturity_snapshot": s.conf.MaturitySnapshotSpec,
	}).Info("scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// ScanAll scans every tenant. A failing tenant is logged and skipped.
func (s *Scheduler) ScanAll(ctx context.Context) {
	s.forEachTenant(ctx, "compliance scan", func(ctx context.Context, tenantID uuid.UUID) error {
		n, err := s.ScanTenant(ctx, tenantID)
		if err == nil && n > 0 {
			s.logger.WithFields(logrus.Fields{"tenant_id": tenantID, "notices": n}).Debug("compliance scan enqueued notices")
		}
		return err
	})
}

// SnapshotAll persists a maturity snapshot for every tenant.
func (s *Scheduler) SnapshotAll(ctx context.Context) {
	s.forEachTenant(ctx, "maturity snapshot", func(ctx context.Context, tenantID uuid.UUID) error {
		_, err := s.SnapshotTenant(ctx, tenantID)
		return err
	})
}

// ScanTenant enqueues one outbox message per notice in a single
// transaction and returns the number of notices.
func (s *Scheduler) ScanTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := composables.InTenantTx(SystemContext(ctx, tenantID), func(txCtx context.Context) error {
		notices, err := s.scanner.Scan(txCtx)
		if err != nil {
			return err
		}
		count = len(notices)
		return s.enqueue(txCtx, tenantID, notices...)
	})
	return count, err
}

// SnapshotTenant takes a snapshot and enqueues its notice in the same
// transaction.
func (s *Scheduler) SnapshotTenant(ctx context.Context, tenantID uuid.UUID) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	err := composables.InTenantTx(SystemContext(ctx, tenantID), func(txCtx context.Context) error {
		var err error
		snap, err = s.snapshots.TakeSnapshot(txCtx)
		if err != nil {
			return err
		}
		return s.enqueue(txCtx, tenantID, services.SnapshotNotice(snap))
	})
	return snap, err
}

func (s *Scheduler) enqueue(ctx context.Context, tenantID uuid.UUID, notices ...alert.Notice) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, n := range notices {
		msg, err := outbox.NewMessage(tenantID, services.TopicAlertRaised, n.DedupeKey, n)
		if err != nil {
			return err
		}
		if _, err := s.publisher.Enqueue(ctx, tx, msg); err != nil {
			return fmt.Errorf("enqueue %s notice: %w", n.Kind, err)
		}
	}
	return nil
}

func (s *Scheduler) forEachTenant(ctx context.Context, job string, fn func(context.Context, uuid.UUID) error) {
	ids, err := s.tenants.TenantIDs(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("job", job).Error("scheduler: list tenants")
		return
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if err := fn(ctx, id); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"job": job, "tenant_id": id}).Error("scheduler: job failed")
		}
	}
}

// SystemContext scopes ctx to tenantID and acts as an administrator of
// that tenant.
func SystemContext(ctx context.Context, tenantID uuid.UUID) context.Context {
	ctx = composables.WithTenantID(ctx, tenantID)
	return composables.WithUser(ctx, user.New(SystemActor, tenantID, user.RoleAdmin))
}
