package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func schemaCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create or upgrade the backend tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, path)
		},
	}
}

func runSchema(cmd *cobra.Command, path configPath) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if err := s.catalog.EnsureSchema(ctx); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, table := range s.catalog.Tables() {
		fmt.Fprintf(out, "%s (%s)\n", table.Name, strings.Join(table.ColumnNames(), ", "))
	}
	return nil
}
