// Package postgrest is a row backend speaking the PostgREST wire protocol,
// as served by hosted Supabase projects.
package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"civtracker/internal/store"
)

var _ store.Backend = (*Client)(nil)

const restPath = "/rest/v1/"

type Config struct {
	// URL is the project root, for example https://abc.supabase.co.
	URL     string
	AnonKey string
	Timeout time.Duration
	// RetryCount applies to reads only.
	RetryCount int
	Logger     *zap.Logger
}

type Client struct {
	reads  *resty.Client
	writes *resty.Client
	logger *zap.Logger
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("postgrest URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("postgrest anon key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reads := newResty(base, cfg).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if resp == nil {
				return false
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})
	// Writes are never retried: a repeated insert or delete would change the
	// outcome the caller sees.
	writes := newResty(base, cfg)

	return &Client{reads: reads, writes: writes, logger: logger}, nil
}

func newResty(base string, cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(base+restPath).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetAuthToken(cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

func (c *Client) Close(ctx context.Context) error {
	return nil
}

// EnsureSchema cannot create tables over REST. It checks that every table is
// exposed and reports the ones that are not.
func (c *Client) EnsureSchema(ctx context.Context, tables []store.Table) error {
	var missing []string
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
		resp, err := c.reads.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{"select": store.IDColumn, "limit": "1"}).
			Get(table.Name)
		if err != nil {
			return fmt.Errorf("probing %s: %w", table.Name, err)
		}
		if resp.IsError() {
			apiErr := parseError(resp)
			c.logger.Warn("table not reachable", zap.String("table", table.Name), zap.Error(apiErr))
			missing = append(missing, table.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("ensuring schema: tables not reachable over PostgREST: %s", strings.Join(missing, ", "))
	}
	return nil
}
