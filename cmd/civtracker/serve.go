package main

import (
	"github.com/spf13/cobra"

	"civtracker/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd(path configPath) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, path)
		},
	}
}

func runServe(cmd *cobra.Command, path configPath) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if err := s.catalog.EnsureSchema(ctx); err != nil {
		return err
	}
	server := mcp.NewServer(s.catalog, s.cfg.PlayerPair(), version, s.logger.Named("mcp"))
	return server.Run(ctx, &sdk.StdioTransport{})
}
