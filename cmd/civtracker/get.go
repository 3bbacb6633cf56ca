package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, path, args[0], args[1])
		},
	}
}

func runGet(cmd *cobra.Command, path configPath, kind, id string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	entities, err := s.catalog.Kind(kind)
	if err != nil {
		return err
	}
	record, err := entities.Get(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%s %q not found", entities.Name(), id)
	}
	return printJSON(cmd.OutOrStdout(), record)
}
