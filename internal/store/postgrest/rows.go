package postgrest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"civtracker/internal/store"
)

const (
	preferMerge          = "resolution=merge-duplicates,return=minimal"
	preferMinimal        = "return=minimal"
	preferRepresentation = "return=representation"
)

func eq(value string) string {
	return "eq." + value
}

// send runs the request and turns a PostgREST error body into *APIError.
func (c *Client) send(req *resty.Request, method, table string) (*resty.Response, error) {
	resp, err := req.Execute(method, table)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	if resp.IsError() {
		apiErr := parseError(resp)
		c.logger.Debug("postgrest error",
			zap.String("table", table),
			zap.String("method", method),
			zap.Int("status_code", apiErr.Status),
			zap.String("code", apiErr.Code))
		return nil, apiErr
	}
	return resp, nil
}

func decodeRows(resp *resty.Response) ([]store.Row, error) {
	rows := make([]store.Row, 0)
	body := resp.Body()
	if len(body) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return rows, nil
}

func (c *Client) SelectAll(ctx context.Context, table store.Table) ([]store.Row, error) {
	req := c.reads.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("order", table.OrderBy+".asc")
	resp, err := c.send(req, resty.MethodGet, table.Name)
	if err != nil {
		return nil, err
	}
	return decodeRows(resp)
}

func (c *Client) SelectByID(ctx context.Context, table store.Table, id string) (store.Row, error) {
	req := c.reads.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam(store.IDColumn, eq(id)).
		SetQueryParam("limit", "1")
	resp, err := c.send(req, resty.MethodGet, table.Name)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows(resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *Client) Upsert(ctx context.Context, table store.Table, row store.Row) error {
	req := c.writes.R().
		SetContext(ctx).
		SetHeader("Prefer", preferMerge).
		SetQueryParam("on_conflict", store.IDColumn).
		SetBody(row)
	_, err := c.send(req, resty.MethodPost, table.Name)
	return err
}

func (c *Client) Delete(ctx context.Context, table store.Table, id string) (bool, error) {
	req := c.writes.R().
		SetContext(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetQueryParam(store.IDColumn, eq(id))
	resp, err := c.send(req, resty.MethodDelete, table.Name)
	if err != nil {
		return false, err
	}
	removed, err := decodeRows(resp)
	if err != nil {
		return false, err
	}
	return len(removed) > 0, nil
}

// DeleteAll needs a filter because PostgREST refuses unfiltered deletes.
func (c *Client) DeleteAll(ctx context.Context, table store.Table) error {
	req := c.writes.R().
		SetContext(ctx).
		SetHeader("Prefer", preferMinimal).
		SetQueryParam(store.IDColumn, "neq.")
	_, err := c.send(req, resty.MethodDelete, table.Name)
	return err
}

func (c *Client) Insert(ctx context.Context, table store.Table, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	req := c.writes.R().
		SetContext(ctx).
		SetHeader("Prefer", preferMinimal).
		SetBody(rows)
	_, err := c.send(req, resty.MethodPost, table.Name)
	return err
}
