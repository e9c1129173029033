package commands

import (
	"context"
	"fmt"

	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
)

// SeedDatabase runs every registered seed function in one transaction.
// Seeds are idempotent, so running it twice leaves the data unchanged.
func SeedDatabase(ctx context.Context, mods ...application.Module) error {
	app, pool, err := NewApplication(ctx, mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := app.Seeder().Seed(composables.WithTx(ctx, tx), app); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
