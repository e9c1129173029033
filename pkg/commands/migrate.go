package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iota-uz/dora-register/pkg/application"
)

const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate applies, rolls back or reports the schema of every module.
func Migrate(ctx context.Context, out io.Writer, direction string, mods ...application.Module) error {
	app, pool, err := NewApplication(ctx, mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch direction {
	case MigrateUp:
		return app.Migrations().Run(ctx)
	case MigrateDown:
		return app.Migrations().Rollback(ctx)
	case MigrateStatus:
		statuses, err := app.Migrations().Status(ctx)
		if err != nil {
			return err
		}
		return writeMigrationStatus(out, statuses)
	default:
		return fmt.Errorf("unsupported migration direction %q (expected up, down or status)", direction)
	}
}

func writeMigrationStatus(out io.Writer, statuses []application.MigrationStatus) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "MODULE\tVERSION\tAPPLIED\tAPPLIED AT\tSOURCE"); err != nil {
		return err
	}
	for _, s := range statuses {
		appliedAt := "-"
		if s.Applied && !s.AppliedAt.IsZero() {
			appliedAt = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\n", s.Module, s.Version, s.Applied, appliedAt, s.Source); err != nil {
			return err
		}
	}
	return w.Flush()
}
