package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deleteCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, path, args[0], args[1])
		},
	}
}

func runDelete(cmd *cobra.Command, path configPath, kind, id string) error {
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
	deleted, err := entities.Delete(ctx, id)
	s.warnIfMemoryOnly(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", entities.Name(), id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s with id %s\n", entities.Name(), id)
	}
	return nil
}
