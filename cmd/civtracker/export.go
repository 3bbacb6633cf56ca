package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd(path configPath) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, path, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout when empty)")
	return cmd
}

func runExport(cmd *cobra.Command, path configPath, out string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	doc, err := s.catalog.Export(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := printJSON(w, doc); err != nil {
		return err
	}
	if out != "" {
		total := 0
		for _, n := range doc.Counts() {
			total += n
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", total, out)
	}
	return nil
}
