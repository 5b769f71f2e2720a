// Package main is the entry point for the alphadb operational CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alphadb-io/alphadb-go/internal/config"
	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/mysql"
	"github.com/alphadb-io/alphadb-go/internal/driver/postgres"
	"github.com/alphadb-io/alphadb-go/internal/driver/sqlite"
	"github.com/alphadb-io/alphadb-go/internal/emit"
	"github.com/alphadb-io/alphadb-go/internal/engine"
	"github.com/alphadb-io/alphadb-go/internal/source"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	configPath  string
	versionFile string
	targetVer   string
	noData      bool
	confirm     bool
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "alphadb",
		Short: "Declarative schema-migration engine",
		Long:  "alphadb brings a database up to a requested version by emitting dialect-specific DDL/DML from a declarative version source.",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newCheckCmd(logger),
		newInitCmd(logger),
		newStatusCmd(logger),
		newUpdateCmd(logger),
		newUpdateQueriesCmd(logger),
		newVacateCmd(logger),
		newExportCmd(logger),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("alphadb %s (commit: %s, built: %s)\n", version, commit, buildDate)
			return nil
		},
	}
}

func newCheckCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the database is ready for use",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			st, err := e.Check(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"ready": st.Initialized, "current_version": st.CurrentVersion})
		},
	}
}

func newInitCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config table and move the database to initialized",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			return e.Init(cmd.Context())
		},
	}
}

func newStatusCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database's recorded version and template",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := bootstrap(logger)
			if err != nil {
				return err
			}
			st, err := e.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"name":            cfg.Database,
				"current_version": st.CurrentVersion,
				"template":        st.Template,
			})
		},
	}
}

func newUpdateCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Bring the database up to the requested (or latest) version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			vs, err := loadVersionSource()
			if err != nil {
				return err
			}
			target, err := e.Update(cmd.Context(), vs, targetVer, noData)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"version": target})
		},
	}
	addUpdateFlags(cmd)
	return cmd
}

func newUpdateQueriesCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-queries",
		Short: "Print the SQL an update would execute, without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			vs, err := loadVersionSource()
			if err != nil {
				return err
			}
			queries, err := e.UpdateQueries(cmd.Context(), vs, targetVer, noData)
			if err != nil {
				return err
			}
			for _, q := range queries {
				fmt.Println(q)
			}
			return nil
		},
	}
	addUpdateFlags(cmd)
	return cmd
}

func newVacateCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacate",
		Short: "Drop every managed table and the config table",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			return e.Vacate(cmd.Context(), confirm)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the destructive vacate operation")
	return cmd
}

func newExportCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump every managed table's columns and rows as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := bootstrap(logger)
			if err != nil {
				return err
			}
			data, err := e.Export(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(data)
		},
	}
}

func addUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&versionFile, "source", "f", "", "Path to the version source document (required)")
	cmd.Flags().StringVar(&targetVer, "to-version", "", "Target version; defaults to the latest in the source")
	cmd.Flags().BoolVar(&noData, "no-data", false, "Suppress default_data statements")
	_ = cmd.MarkFlagRequired("source")
}

func loadVersionSource() (*source.VersionSource, error) {
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return nil, fmt.Errorf("reading version source: %w", err)
	}
	return source.Parse(data)
}

// bootstrap loads configuration and opens the driver for the
// configured dialect. Every dialect's Factory is registered by the
// init function of its package, imported above, so driver.Open can
// find it.
func bootstrap(logger *slog.Logger) (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	dialect, err := emit.ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, nil, err
	}

	var dialectConfig any
	switch dialect {
	case emit.MySQL:
		mc := mysql.DefaultConfig()
		mc.Host, mc.Port, mc.Database = cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.Database
		mc.Username, mc.Password, mc.TLS = cfg.MySQL.Username, cfg.MySQL.Password, cfg.MySQL.TLS
		mc.Pool.MaxOpenConns, mc.Pool.MaxIdleConns = cfg.MySQL.MaxOpenConns, cfg.MySQL.MaxIdleConns
		mc.Pool.ConnMaxLifetime, mc.Pool.ConnMaxIdleTime = cfg.MySQL.ConnMaxLifetime, cfg.MySQL.ConnMaxIdleTime
		dialectConfig = mc
	case emit.Postgres:
		pc := postgres.DefaultConfig()
		pc.Host, pc.Port, pc.Database = cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database
		pc.Username, pc.Password, pc.SSLMode = cfg.Postgres.Username, cfg.Postgres.Password, cfg.Postgres.SSLMode
		pc.Pool.MaxOpenConns, pc.Pool.MaxIdleConns = cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns
		pc.Pool.ConnMaxLifetime, pc.Pool.ConnMaxIdleTime = cfg.Postgres.ConnMaxLifetime, cfg.Postgres.ConnMaxIdleTime
		dialectConfig = pc
	case emit.SQLite:
		sc := sqlite.DefaultConfig()
		sc.Path = cfg.SQLite.Path
		dialectConfig = sc
	}

	d, err := driver.Open(dialect, dialectConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s driver: %w", dialect, err)
	}

	return engine.New(d, cfg.Database, logger), cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
