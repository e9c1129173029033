package snapshot

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var ErrNoSnapshots = serrors.NewError("MATURITY_SNAPSHOT_NOT_FOUND", "no maturity snapshot has been taken yet", "Maturity.Errors.NoSnapshots")

type Repository interface {
	Create(ctx context.Context, s Snapshot) (Snapshot, error)
	// List returns the newest snapshots first.
	List(ctx context.Context, limit int) ([]Snapshot, error)
}
