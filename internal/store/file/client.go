// Package file is a row backend kept in a single JSON document on disk.
//
// When the document cannot be read or written the client keeps serving from
// memory and logs the failure once; data written after that point lives only
// as long as the process.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"civtracker/internal/store"
)

var _ store.Backend = (*Client)(nil)

type document map[string][]store.Row

type Client struct {
	mu     sync.Mutex
	path   string
	tables map[string]map[string]store.Row
	// memoryOnly is set once the document has failed to load or save.
	memoryOnly bool
	logger     *zap.Logger
}

// ParseDSN accepts file://path/to/doc.json and file://:memory:.
func ParseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "file://")
	if !ok {
		return "", fmt.Errorf("invalid file DSN scheme, expected file://")
	}
	if rest == "" {
		return "", fmt.Errorf("file DSN has no path")
	}
	if rest == ":memory:" {
		return "", nil
	}
	return rest, nil
}

// New opens the document at path. An empty path keeps everything in memory.
func New(path string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		path:       path,
		tables:     map[string]map[string]store.Row{},
		memoryOnly: path == "",
		logger:     logger,
	}
	if !c.memoryOnly {
		if err := c.load(); err != nil {
			c.fallback("loading", err)
		}
	}
	return c
}

// MemoryOnly reports whether the client has stopped persisting.
func (c *Client) MemoryOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memoryOnly
}

func (c *Client) fallback(action string, err error) {
	c.memoryOnly = true
	c.logger.Warn("document unavailable, keeping data in memory",
		zap.String("path", c.path),
		zap.String("action", action),
		zap.Error(err))
}

func (c *Client) load() error {
	payload, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", c.path, err)
	}
	for table, rows := range doc {
		byID := make(map[string]store.Row, len(rows))
		for _, row := range rows {
			byID[row.ID()] = row
		}
		c.tables[table] = byID
	}
	return nil
}

// persistLocked writes the whole document through a temporary file so a
// crash never leaves a truncated document behind.
func (c *Client) persistLocked() {
	if c.memoryOnly {
		return
	}
	doc := make(document, len(c.tables))
	for table, rows := range c.tables {
		list := make([]store.Row, 0, len(rows))
		for _, row := range rows {
			list = append(list, row)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
		doc[table] = list
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.fallback("encoding", err)
		return
	}
	if err := writeAtomic(c.path, payload); err != nil {
		c.fallback("saving", err)
	}
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".civtracker-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return nil
}

func (c *Client) EnsureSchema(ctx context.Context, tables []store.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
		if _, ok := c.tables[table.Name]; !ok {
			c.tables[table.Name] = map[string]store.Row{}
		}
	}
	c.persistLocked()
	return nil
}
