package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/alerts"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
)

// SnapshotMaturity takes a maturity snapshot for tenantID, or for every
// tenant when tenantID is uuid.Nil.
func SnapshotMaturity(ctx context.Context, out io.Writer, tenantID uuid.UUID, mods ...application.Module) error {
	app, pool, err := NewApplication(ctx, mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	sched := alerts.NewScheduler(app)
	ctx = composables.WithPool(ctx, pool)
	if tenantID == uuid.Nil {
		sched.SnapshotAll(ctx)
		return nil
	}
	snap, err := sched.SnapshotTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "tenant %s: overall %s (%s)\n", tenantID, snap.Overall().StringFixed(1), snap.Level())
	return err
}
