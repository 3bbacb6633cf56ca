package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"civtracker/internal/karma"
)

func karmaCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "karma",
		Short: "Show per-category claim counts and catch-up bonus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKarma(cmd, path)
		},
	}
}

func runKarma(cmd *cobra.Command, path configPath) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	claims, err := s.catalog.Claims(ctx)
	if err != nil {
		return err
	}
	players := s.cfg.PlayerPair()
	tallies := karma.Compute(players, claims)

	out := cmd.OutOrStdout()
	for _, t := range tallies {
		parts := make([]string, 0, len(players))
		for _, p := range players {
			part := fmt.Sprintf("%s %d", p, t.Counts[p])
			if t.Bonus[p] > 0 {
				part += fmt.Sprintf(" (+%d)", t.Bonus[p])
			}
			parts = append(parts, part)
		}
		fmt.Fprintf(out, "%s: %s\n", t.Category, strings.Join(parts, ", "))
	}
	total := karma.Total(tallies)
	fmt.Fprintf(out, "bonus: %s %d, %s %d\n", players[0], total[players[0]], players[1], total[players[1]])
	return nil
}
