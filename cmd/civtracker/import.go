package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"civtracker/internal/catalog"
)

func importCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace collections with the sections of an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, path, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, path configPath, source string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	doc, err := catalog.DecodeDocument(data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	counts, err := s.catalog.Import(ctx, doc)
	s.warnIfMemoryOnly(cmd.ErrOrStderr())
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", key, counts[key])
	}
	return err
}
