package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cleaner purges published rows past retention and dead rows past twice
// the retention.
type Cleaner struct {
	store      store
	opts       CleanerOptions
	tableLabel string
	now        func() time.Time
}

func NewCleaner(pool *pgxpool.Pool, table pgx.Identifier, opts CleanerOptions) (*Cleaner, error) {
	if pool == nil {
		return nil, invalidConfig("pool is required")
	}
	if len(table) == 0 {
		return nil, invalidConfig("table is required")
	}
	opts.setDefaults()
	return &Cleaner{
		store:      newPgStore(pool, table),
		opts:       opts,
		tableLabel: TableLabel(table),
		now:        time.Now,
	}, nil
}

func (c *Cleaner) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if _, err := c.CleanOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.opts.Logger.WithError(err).WithField("table", c.tableLabel).Warn("outbox: cleaner tick failed")
		}
	}
}

func (c *Cleaner) CleanOnce(ctx context.Context) (int64, error) {
	now := c.now()
	removed, err := c.store.purge(ctx, now.Add(-c.opts.Retention), now.Add(-2*c.opts.Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.opts.Logger.WithField("table", c.tableLabel).WithField("removed", removed).Info("outbox: purged rows")
	}
	return removed, nil
}
