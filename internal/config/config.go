package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the project config looked up in the working directory.
const FileName = "civtracker.yaml"

const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendFile      = "file"
	BackendNeo4j     = "neo4j"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultCacheTTL   = 5 * time.Second
	DefaultRetryCount = 2
)

var DefaultPlayers = []string{"Tiny", "Steve"}

type ProjectConfig struct {
	Project string        `yaml:"project"`
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Cache   CacheConfig   `yaml:"cache"`
	Players []string      `yaml:"players"`
	Log     LogConfig     `yaml:"log"`
}

type BackendConfig struct {
	Kind       string        `yaml:"kind" env:"CIVTRACKER_BACKEND_KIND"`
	DSN        string        `yaml:"dsn,omitempty" env:"CIVTRACKER_BACKEND_DSN"`
	URL        string        `yaml:"url,omitempty" env:"CIVTRACKER_BACKEND_URL"`
	AnonKey    string        `yaml:"anon_key,omitempty" env:"CIVTRACKER_BACKEND_ANON_KEY"`
	Username   string        `yaml:"username,omitempty" env:"CIVTRACKER_BACKEND_USERNAME"`
	Password   string        `yaml:"password,omitempty" env:"CIVTRACKER_BACKEND_PASSWORD"`
	Database   string        `yaml:"database,omitempty" env:"CIVTRACKER_BACKEND_DATABASE"`
	Timeout    time.Duration `yaml:"timeout" env:"CIVTRACKER_BACKEND_TIMEOUT"`
	// RetryCount is nil when unset; zero disables read retries.
	RetryCount *int          `yaml:"retry_count" env:"CIVTRACKER_BACKEND_RETRY_COUNT"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CIVTRACKER_CACHE_TTL"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"CIVTRACKER_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"CIVTRACKER_LOG_DEVELOPMENT"`
}

// Default is the config written by init: a local sqlite database.
func Default(project string) *ProjectConfig {
	cfg := &ProjectConfig{
		Project: project,
		Version: 1,
		Backend: BackendConfig{Kind: BackendSQLite, DSN: "sqlite://civtracker.db"},
	}
	applyDefaults(cfg)
	return cfg
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	// Environment variables override the file.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: parse env: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	cfg.Backend.Kind = strings.ToLower(strings.TrimSpace(cfg.Backend.Kind))
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = DefaultTimeout
	}
	if cfg.Backend.RetryCount == nil {
		retries := DefaultRetryCount
		cfg.Backend.RetryCount = &retries
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if len(cfg.Players) == 0 {
		cfg.Players = append([]string(nil), DefaultPlayers...)
	}
	if cfg.Backend.Kind == BackendNeo4j && cfg.Backend.Database == "" {
		cfg.Backend.Database = "neo4j"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	b := cfg.Backend
	switch b.Kind {
	case BackendPostgREST:
		if strings.TrimSpace(b.URL) == "" {
			return fmt.Errorf("backend url is required for %s", b.Kind)
		}
		if strings.TrimSpace(b.AnonKey) == "" {
			return fmt.Errorf("backend anon_key is required for %s", b.Kind)
		}
	case BackendNeo4j:
		if strings.TrimSpace(b.URL) == "" {
			return fmt.Errorf("backend url is required for %s", b.Kind)
		}
		if strings.TrimSpace(b.Username) == "" {
			return fmt.Errorf("backend username is required for %s", b.Kind)
		}
	case BackendPostgres, BackendSQLite, BackendFile:
		if strings.TrimSpace(b.DSN) == "" {
			return fmt.Errorf("backend dsn is required for %s", b.Kind)
		}
	case "":
		return fmt.Errorf("backend kind is required")
	default:
		return fmt.Errorf("unsupported backend kind: %s", b.Kind)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if b.RetryCount != nil && *b.RetryCount < 0 {
		return fmt.Errorf("backend retry_count must not be negative")
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be positive")
	}

	if len(cfg.Players) != 2 {
		return fmt.Errorf("exactly two players are required, got %d", len(cfg.Players))
	}
	for i, p := range cfg.Players {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("player %d name is required", i)
		}
	}
	if strings.EqualFold(cfg.Players[0], cfg.Players[1]) {
		return fmt.Errorf("duplicate player name: %s", cfg.Players[1])
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Log.Level)
	}

	return nil
}

// Retries returns the configured read retry count.
func (b BackendConfig) Retries() int {
	if b.RetryCount == nil {
		return DefaultRetryCount
	}
	return *b.RetryCount
}

// PlayerPair returns the two configured players.
func (c *ProjectConfig) PlayerPair() [2]string {
	return [2]string{c.Players[0], c.Players[1]}
}
