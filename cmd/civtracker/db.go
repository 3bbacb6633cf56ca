package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"civtracker/internal/catalog"
	"civtracker/internal/config"
	"civtracker/internal/store"
	"civtracker/internal/store/file"
	"civtracker/internal/store/graph"
	"civtracker/internal/store/postgres"
	"civtracker/internal/store/postgrest"
	"civtracker/internal/store/sqlite"
)

// configPath returns the --config flag value.
type configPath func() string

type session struct {
	cfg     *config.ProjectConfig
	logger  *zap.Logger
	backend store.Backend
	catalog *catalog.Catalog
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Stdout carries command output and the MCP stream.
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func openBackend(ctx context.Context, cfg *config.ProjectConfig, logger *zap.Logger) (store.Backend, error) {
	b := cfg.Backend
	switch b.Kind {
	case config.BackendPostgREST:
		return postgrest.New(postgrest.Config{
			URL:        b.URL,
			AnonKey:    b.AnonKey,
			Timeout:    b.Timeout,
			RetryCount: b.Retries(),
			Logger:     logger.Named("postgrest"),
		})
	case config.BackendPostgres:
		return postgres.New(ctx, b.DSN)
	case config.BackendSQLite:
		return sqlite.New(ctx, b.DSN)
	case config.BackendFile:
		path, err := file.ParseDSN(b.DSN)
		if err != nil {
			return nil, fmt.Errorf("parsing file DSN: %w", err)
		}
		return file.New(path, logger.Named("file")), nil
	case config.BackendNeo4j:
		return graph.New(ctx, b.URL, b.Username, b.Password, b.Database)
	default:
		return nil, fmt.Errorf("unsupported backend kind: %s", b.Kind)
	}
}

func openSession(ctx context.Context, path configPath) (*session, error) {
	cfg, err := config.LoadProjectConfig(path())
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("backend opened", zap.String("kind", cfg.Backend.Kind))

	cat := catalog.New(backend, catalog.Options{
		Logger:  logger.Named("catalog"),
		TTL:     cfg.Cache.TTL,
		Timeout: cfg.Backend.Timeout,
	})
	return &session{cfg: cfg, logger: logger, backend: backend, catalog: cat}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.backend.Close(ctx); err != nil {
		s.logger.Warn("closing backend", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// warnIfMemoryOnly reports a file backend that could not persist the last
// write. The change only lives until the process exits.
func (s *session) warnIfMemoryOnly(w io.Writer) {
	mem, ok := s.backend.(interface{ MemoryOnly() bool })
	if ok && mem.MemoryOnly() {
		fmt.Fprintf(w, "warning: %s could not be written, changes are kept in memory only\n", s.cfg.Backend.DSN)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
