package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/alerts/services"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/itf"
	"github.com/iota-uz/dora-register/pkg/outbox"
	"github.com/iota-uz/dora-register/pkg/repo"
)

type staticTenants []uuid.UUID

func (s staticTenants) TenantIDs(ctx context.Context) ([]uuid.UUID, error) { return s, nil }

type scannerFunc func(ctx context.Context) ([]alert.Notice, error)

func (f scannerFunc) Scan(ctx context.Context) ([]alert.Notice, error) { return f(ctx) }

type recordingPublisher struct {
	messages []outbox.Message
}

func (p *recordingPublisher) Enqueue(ctx context.Context, tx repo.Tx, msg outbox.Message) (int64, error) {
	p.messages = append(p.messages, msg)
	return int64(len(p.messages)), nil
}

type snapshotterFunc func(ctx context.Context) (snapshot.Snapshot, error)

func (f snapshotterFunc) TakeSnapshot(ctx context.Context) (snapshot.Snapshot, error) { return f(ctx) }

func TestScheduler_ScanAllRunsPerTenantAsSystem(t *testing.T) {
	logger, hook := test.NewNullLogger()
	good, bad := uuid.New(), uuid.New()
	pub := &recordingPublisher{}
	scanner := scannerFunc(func(ctx context.Context) ([]alert.Notice, error) {
		tenantID, err := composables.UseTenantID(ctx)
		require.NoError(t, err)
		require.Equal(t, SystemActor, composables.UseActorID(ctx))
		if tenantID == bad {
			return nil, errors.New("scan failed")
		}
		return []alert.Notice{{
			Kind:      alert.KindTLPTDue,
			Severity:  alert.SeverityCritical,
			Message:   "TLPT due",
			DedupeKey: "tlpt_due:never",
		}}, nil
	})
	s := New(configuration.SchedulerOptions{}, staticTenants{bad, good}, scanner, nil, pub, logger)

	s.ScanAll(itf.NewTestContext().WithTx(&itf.StubTx{}).Context())

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	require.Equal(t, good, msg.TenantID)
	require.Equal(t, services.TopicAlertRaised, msg.Topic)
	require.Equal(t, "tlpt_due:never", msg.DedupKey)
	var n alert.Notice
	require.NoError(t, json.Unmarshal(msg.Payload, &n))
	require.Equal(t, alert.KindTLPTDue, n.Kind)

	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, bad, hook.LastEntry().Data["tenant_id"])
}

func TestScheduler_SnapshotTenantEnqueuesNotice(t *testing.T) {
	tenantID, snapID := uuid.New(), uuid.New()
	pub := &recordingPublisher{}
	snaps := snapshotterFunc(func(ctx context.Context) (snapshot.Snapshot, error) {
		return snapshot.New(time.Now(), decimal.NewFromInt(70), nil, snapshot.WithID(snapID)), nil
	})
	s := New(configuration.SchedulerOptions{}, nil, nil, snaps, pub, nil)

	snap, err := s.SnapshotTenant(itf.NewTestContext().WithTx(&itf.StubTx{}).Context(), tenantID)
	require.NoError(t, err)
	require.Equal(t, snapID, snap.ID())
	require.Len(t, pub.messages, 1)
	require.Equal(t, "snapshot_taken:"+snapID.String(), pub.messages[0].DedupKey)
}

func TestScheduler_RunRejectsBadSpec(t *testing.T) {
	s := New(configuration.SchedulerOptions{ComplianceScanSpec: "every minute", MaturitySnapshotSpec: "0 3 1 * *"}, nil, nil, nil, nil, nil)
	err := s.Run(context.Background())
	require.ErrorContains(t, err, "compliance scan schedule")
}
