package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msomdec/item-flow/internal/config"
	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/repository/sqlite"
	"github.com/msomdec/item-flow/internal/repository/sqlite/migrations"
	"github.com/msomdec/item-flow/internal/service"
)

type app struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "item-flow",
		Short:         "Inventory manager REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(newLogger(cfg.LogLevel))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "dotenv config file (default .env.<APP_ENV>, then .env)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		a.migrateCmd(),
		&cobra.Command{
			Use:   "init-db",
			Short: "Apply migrations and insert the demo catalogue",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.initDB(cmd)
			},
		},
	)
	return root
}

func (a *app) migrateCmd() *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sqlite.New(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer closeDatabase(db)

			if status {
				return printMigrationStatus(cmd, db)
			}

			applied, err := migrations.Run(cmd.Context(), db.SqlDB)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", strings.Join(applied, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list migrations and whether they are applied")
	return cmd
}

func printMigrationStatus(cmd *cobra.Command, db *sqlite.DB) error {
	files, err := migrations.Files()
	if err != nil {
		return err
	}
	applied, err := migrations.Applied(cmd.Context(), db.SqlDB)
	if err != nil {
		return err
	}
	for _, f := range files {
		state := "pending"
		if slices.Contains(applied, f) {
			state = "applied"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", state, f)
	}
	return nil
}

func (a *app) initDB(cmd *cobra.Command) error {
	ctx := cmd.Context()
	db, err := sqlite.New(a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(db)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := service.NewSeeder(db.Categories(), db.Items()).Seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("database initialized", "path", a.cfg.DatabasePath)
	return nil
}

// closeDatabase closes db on the way out of a command, logging a failure
// that a deferred Close would drop.
func closeDatabase(db domain.Database) {
	if err := db.Close(); err != nil {
		slog.Error("close database", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logOpts := &slog.HandlerOptions{Level: lvl}
	return slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
}
