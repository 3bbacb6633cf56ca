package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"civtracker/internal/karma"
)

type KindInput struct {
	Kind string `json:"kind" jsonschema:"table name or document key, for example world_wonders"`
}

type EntityInput struct {
	Kind string `json:"kind" jsonschema:"table name or document key"`
	ID   string `json:"id" jsonschema:"record id"`
}

type SaveEntityInput struct {
	Kind       string         `json:"kind" jsonschema:"table name or document key"`
	Record     map[string]any `json:"record" jsonschema:"the record in its camelCase shape; id is required"`
	PreviousID string         `json:"previous_id,omitempty" jsonschema:"old id to remove when the record was renamed"`
}

type KarmaInput struct{}

type GetSchemaInput struct{}

type ListEntitiesOutput struct {
	Kind    string `json:"kind"`
	Count   int    `json:"count"`
	Records any    `json:"records"`
}

type EntityOutput struct {
	Kind   string `json:"kind"`
	Record any    `json:"record"`
}

type SaveEntityOutput struct {
	Kind     string   `json:"kind"`
	Record   any      `json:"record"`
	Warnings []string `json:"warnings"`
}

type DeleteEntityOutput struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

type KarmaOutput struct {
	Tallies []karma.Tally  `json:"tallies"`
	Totals  map[string]int `json:"totals"`
}

type SchemaOutput struct {
	Tables []TableOutput `json:"tables"`
}

type TableOutput struct {
	Name    string         `json:"name"`
	OrderBy string         `json:"order_by"`
	Columns []ColumnOutput `json:"columns"`
}

type ColumnOutput struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List every record of one kind, ordered by name",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity",
		Description: "Retrieve one record by id",
	}, s.handleGetEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "save_entity",
		Description: "Create or overwrite a record, optionally removing its previous id",
	}, s.handleSaveEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_entity",
		Description: "Delete a record by id",
	}, s.handleDeleteEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "karma",
		Description: "Count wonder claims per player and the catch-up bonus of the trailing player",
	}, s.handleKarma)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_schema",
		Description: getSchemaDescription,
	}, s.handleGetSchema)
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input KindInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	if input.Kind == "" {
		return nil, ListEntitiesOutput{}, fmt.Errorf("kind is required")
	}
	kind, err := s.registry.Kind(input.Kind)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}
	records, n, err := kind.List(ctx)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}
	return nil, ListEntitiesOutput{Kind: kind.Name(), Count: n, Records: records}, nil
}

func (s *Server) handleGetEntity(ctx context.Context, req *sdk.CallToolRequest, input EntityInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.Kind == "" || input.ID == "" {
		return nil, EntityOutput{}, fmt.Errorf("kind and id are required")
	}
	kind, err := s.registry.Kind(input.Kind)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	record, err := kind.Get(ctx, input.ID)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	if record == nil {
		return nil, EntityOutput{}, fmt.Errorf("%s %q not found", kind.Name(), input.ID)
	}
	return nil, EntityOutput{Kind: kind.Name(), Record: record}, nil
}

func (s *Server) handleSaveEntity(ctx context.Context, req *sdk.CallToolRequest, input SaveEntityInput) (*sdk.CallToolResult, SaveEntityOutput, error) {
	if input.Kind == "" {
		return nil, SaveEntityOutput{}, fmt.Errorf("kind is required")
	}
	if input.Record == nil {
		return nil, SaveEntityOutput{}, fmt.Errorf("record is required")
	}
	kind, err := s.registry.Kind(input.Kind)
	if err != nil {
		return nil, SaveEntityOutput{}, err
	}
	raw, err := json.Marshal(input.Record)
	if err != nil {
		return nil, SaveEntityOutput{}, fmt.Errorf("encoding record: %w", err)
	}
	record, warnings, err := kind.Save(ctx, raw, input.PreviousID)
	if err != nil {
		return nil, SaveEntityOutput{}, err
	}
	if warnings == nil {
		warnings = []string{}
	}
	for _, w := range warnings {
		s.logger.Warn("save completed with warning", zap.String("kind", kind.Name()), zap.String("warning", w))
	}
	return nil, SaveEntityOutput{Kind: kind.Name(), Record: record, Warnings: warnings}, nil
}

func (s *Server) handleDeleteEntity(ctx context.Context, req *sdk.CallToolRequest, input EntityInput) (*sdk.CallToolResult, DeleteEntityOutput, error) {
	if input.Kind == "" || input.ID == "" {
		return nil, DeleteEntityOutput{}, fmt.Errorf("kind and id are required")
	}
	kind, err := s.registry.Kind(input.Kind)
	if err != nil {
		return nil, DeleteEntityOutput{}, err
	}
	removed, err := kind.Delete(ctx, input.ID)
	if err != nil {
		return nil, DeleteEntityOutput{}, err
	}
	return nil, DeleteEntityOutput{Kind: kind.Name(), ID: input.ID, Removed: removed}, nil
}

func (s *Server) handleKarma(ctx context.Context, req *sdk.CallToolRequest, input KarmaInput) (*sdk.CallToolResult, KarmaOutput, error) {
	claims, err := s.registry.Claims(ctx)
	if err != nil {
		return nil, KarmaOutput{}, err
	}
	tallies := karma.Compute(s.players, claims)
	return nil, KarmaOutput{Tallies: tallies, Totals: karma.Total(tallies)}, nil
}

const getSchemaDescription = "Return the backend tables and their storage columns. " +
	"Column names are the row layout used by the backend, not record fields; " +
	"build records for save_entity from the shapes returned by list_entities and get_entity"

func (s *Server) handleGetSchema(ctx context.Context, req *sdk.CallToolRequest, input GetSchemaInput) (*sdk.CallToolResult, SchemaOutput, error) {
	tables := s.registry.Tables()
	out := SchemaOutput{Tables: make([]TableOutput, 0, len(tables))}
	for _, table := range tables {
		t := TableOutput{Name: table.Name, OrderBy: table.OrderBy, Columns: make([]ColumnOutput, 0, len(table.Columns))}
		for _, col := range table.Columns {
			t.Columns = append(t.Columns, ColumnOutput{Name: col.Name, Kind: col.Kind.String()})
		}
		out.Tables = append(out.Tables, t)
	}
	return nil, out, nil
}
