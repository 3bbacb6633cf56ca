package main

import (
	"github.com/spf13/cobra"
)

func listCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List every record of a kind as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, path, args[0])
		},
	}
}

func runList(cmd *cobra.Command, path configPath, kind string) error {
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
	records, _, err := entities.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), records)
}
