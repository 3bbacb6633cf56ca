package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"civtracker/internal/config"
)

func initCmd(path configPath) *cobra.Command {
	var projectName string
	var kind string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a new civtracker project config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, path(), projectName, kind, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&kind, "backend", config.BackendSQLite, "Backend kind (postgrest, postgres, sqlite, file, neo4j)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Backend DSN or URL")
	return cmd
}

func runInit(cmd *cobra.Command, file, projectName, kind, dsn string) error {
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("%s already exists", file)
	}

	cfg := config.Default(projectName)
	cfg.Backend.Kind = kind
	switch kind {
	case config.BackendSQLite:
		if dsn != "" {
			cfg.Backend.DSN = dsn
		}
	case config.BackendFile:
		cfg.Backend.DSN = "file://civtracker.json"
		if dsn != "" {
			cfg.Backend.DSN = dsn
		}
	case config.BackendPostgres:
		cfg.Backend.DSN = dsn
	case config.BackendNeo4j:
		cfg.Backend.DSN = ""
		cfg.Backend.URL = "bolt://localhost:7687"
		if dsn != "" {
			cfg.Backend.URL = dsn
		}
		cfg.Backend.Username = "neo4j"
		cfg.Backend.Database = "neo4j"
	case config.BackendPostgREST:
		cfg.Backend.DSN = ""
		cfg.Backend.URL = dsn
	default:
		return fmt.Errorf("unsupported backend kind: %s", kind)
	}

	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(file, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s backend)\n", file, kind)
	return nil
}
