package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"civtracker/internal/catalog"
	"civtracker/internal/karma"
	"civtracker/internal/store"
)

// Registry is the part of the catalog the tools use.
type Registry interface {
	Kind(name string) (catalog.Entities, error)
	Tables() []store.Table
	Claims(ctx context.Context) ([]karma.Claim, error)
}

type Server struct {
	registry Registry
	players  [2]string
	logger   *zap.Logger
	mcp      *sdk.Server
}

func NewServer(registry Registry, players [2]string, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		registry: registry,
		players:  players,
		logger:   logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "civtracker",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
