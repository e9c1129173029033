package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/dora-register/modules"
	"github.com/iota-uz/dora-register/modules/register/infrastructure/export"
	"github.com/iota-uz/dora-register/pkg/commands"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "command",
		Short:         "Maintenance commands for the register backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd(), newSeedCmd(), newRegisterCmd(), newMaturityCmd(), newCheckLocalesCmd())
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or list database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{commands.MigrateUp, commands.MigrateDown, commands.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Migrate(cmd.Context(), cmd.OutOrStdout(), args[0], modules.BuiltInModules...)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with the demo organization and its data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.SeedDatabase(cmd.Context(), modules.BuiltInModules...)
		},
	}
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Register of Information commands",
	}

	var tenant, format, dir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the Register of Information of a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}
			f := export.Format(format)
			if !f.Valid() {
				return fmt.Errorf("invalid --format %q", format)
			}
			path, err := commands.ExportRegister(cmd.Context(), tenantID, f, dir, modules.BuiltInModules...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	exportCmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	exportCmd.Flags().StringVar(&format, "format", string(export.FormatXLSX), "xlsx or csv")
	exportCmd.Flags().StringVar(&dir, "out", ".", "output directory")
	_ = exportCmd.MarkFlagRequired("tenant")

	cmd.AddCommand(exportCmd)
	return cmd
}

func newMaturityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maturity",
		Short: "Maturity commands",
	}

	var tenant string
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a maturity snapshot for one tenant or for all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID := uuid.Nil
			if tenant != "" {
				var err error
				if tenantID, err = uuid.Parse(tenant); err != nil {
					return fmt.Errorf("invalid --tenant: %w", err)
				}
			}
			return commands.SnapshotMaturity(cmd.Context(), cmd.OutOrStdout(), tenantID, modules.BuiltInModules...)
		},
	}
	snapshotCmd.Flags().StringVar(&tenant, "tenant", "", "tenant id, all tenants when empty")

	cmd.AddCommand(snapshotCmd)
	return cmd
}

func newCheckLocalesCmd() *cobra.Command {
	var languages []string
	cmd := &cobra.Command{
		Use:   "check-locales",
		Short: "Check that every referenced translation key exists in all locales",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}
			missing, err := commands.CheckLocales(root, languages, logging.ConsoleLogger(configuration.Use().LogrusLogLevel()), modules.BuiltInModules...)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d translation key(s) missing", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&languages, "lang", []string{"en", "de"}, "locales to check")
	return cmd
}

func main() {
	err := newRootCmd().Execute()
	configuration.Use().Unload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
