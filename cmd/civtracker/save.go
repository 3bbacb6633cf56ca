package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func saveCmd(path configPath) *cobra.Command {
	var previousID string
	cmd := &cobra.Command{
		Use:   "save <kind> [file]",
		Short: "Create or replace a record from JSON (stdin when no file is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 2 {
				source = args[1]
			}
			return runSave(cmd, path, args[0], source, previousID)
		},
	}
	cmd.Flags().StringVar(&previousID, "replace", "", "Id the record was saved under before a rename")
	return cmd
}

func runSave(cmd *cobra.Command, path configPath, kind, source, previousID string) error {
	raw, err := readInput(cmd, source)
	if err != nil {
		return err
	}

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
	record, warnings, err := entities.Save(ctx, raw, previousID)
	s.warnIfMemoryOnly(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return printJSON(cmd.OutOrStdout(), record)
}

func readInput(cmd *cobra.Command, source string) (json.RawMessage, error) {
	var data []byte
	var err error
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s is not valid JSON", source)
	}
	return data, nil
}
