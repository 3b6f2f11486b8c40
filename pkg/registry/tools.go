// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry implements the tool, resource, and prompt catalogs
// dispatched by the MCP server. Collaborators (catalog backend, SQL
// generator, chart renderer) are injected at construction and never
// replaced; every collaborator failure is converted into a uniform
// failure payload, so nothing escapes to the dispatch loop.
package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/catalog"
	"github.com/teradata-labs/heddle/pkg/charts"
	"github.com/teradata-labs/heddle/pkg/generator"
	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// defaultChartTitle is used when the caller supplies no title.
const defaultChartTitle = "Chart"

type toolHandler func(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult

// ToolConfig holds tool registry configuration.
type ToolConfig struct {
	// DefaultWarehouseID is used when a statement-running tool is called
	// without a warehouse_id argument.
	DefaultWarehouseID string
}

// ToolRegistry advertises the tool catalog and routes tool calls.
// Immutable after construction.
type ToolRegistry struct {
	backend            catalog.Backend
	generator          generator.Generator
	renderer           charts.Renderer
	defaultWarehouseID string
	dialect            string
	logger             *zap.Logger

	tools    []protocol.Tool
	byName   map[string]protocol.Tool
	handlers map[string]toolHandler
}

// NewToolRegistry builds the tool catalog and its name-to-handler
// routing table. Collaborators may be nil; calls requiring a missing
// collaborator fail with the matching *_not_initialized payload.
func NewToolRegistry(backend catalog.Backend, gen generator.Generator, renderer charts.Renderer, cfg ToolConfig, logger *zap.Logger) *ToolRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialect, _ := backendTraits(backend)

	r := &ToolRegistry{
		backend:            backend,
		generator:          gen,
		renderer:           renderer,
		defaultWarehouseID: cfg.DefaultWarehouseID,
		dialect:            dialect,
		logger:             logger,
		tools:              toolDefinitions(),
	}

	r.byName = make(map[string]protocol.Tool, len(r.tools))
	for _, t := range r.tools {
		r.byName[t.Name] = t
	}
	r.handlers = map[string]toolHandler{
		toolListCatalogs:         r.handleListCatalogs,
		toolListSchemas:          r.handleListSchemas,
		toolListTables:           r.handleListTables,
		toolGetTableInfo:         r.handleGetTableInfo,
		toolExecuteSQL:           r.handleExecuteSQL,
		toolQueryNaturalLanguage: r.handleQueryNaturalLanguage,
		toolCreateChart:          r.handleCreateChart,
	}
	return r
}

// ListTools returns the advertised tool catalog.
func (r *ToolRegistry) ListTools() []protocol.Tool {
	return r.tools
}

// CallTool routes one tool invocation. Every outcome is a CallToolResult;
// failures carry the uniform failure payload with IsError set.
func (r *ToolRegistry) CallTool(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult {
	handler, ok := r.handlers[name]
	if !ok {
		return failureResult(codeUnknownTool, fmt.Sprintf("Unknown tool: %s", name), nil)
	}
	if r.backend == nil {
		return failureResult(codeBackendNotInitialized, "catalog backend not initialized", nil)
	}
	if name == toolQueryNaturalLanguage && r.generator == nil {
		return failureResult(codeGeneratorNotInitialized,
			"query generator not initialized. Set ANTHROPIC_API_KEY environment variable.", nil)
	}
	if name == toolCreateChart && r.renderer == nil {
		return failureResult(codeChartError, "chart renderer not initialized", nil)
	}

	args = protocol.TrimArguments(args)
	if err := protocol.ValidateToolArguments(r.byName[name], args); err != nil {
		var verr *protocol.ValidationError
		if errors.As(err, &verr) {
			return failureResult(codeValidationError, verr.Error(), verr.Details())
		}
		return failureResult(codeValidationError, err.Error(), nil)
	}

	r.logger.Debug("dispatching tool call", zap.String("tool", name))
	return handler(ctx, args)
}

// Tool output payloads. Listing payloads echo the addressed scope the
// way the read path does.

type listCatalogsOutput struct {
	Catalogs []catalog.CatalogInfo `json:"catalogs"`
}

type listSchemasOutput struct {
	Catalog string               `json:"catalog"`
	Schemas []catalog.SchemaInfo `json:"schemas"`
}

type listTablesOutput struct {
	Catalog string              `json:"catalog"`
	Schema  string              `json:"schema"`
	Tables  []catalog.TableInfo `json:"tables"`
}

type executeSQLOutput struct {
	Status   string                   `json:"status"`
	RowCount int                      `json:"row_count,omitempty"`
	Columns  []string                 `json:"columns,omitempty"`
	Data     []map[string]interface{} `json:"data,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

type queryNaturalLanguageOutput struct {
	GeneratedSQL    string            `json:"generated_sql"`
	ExecutionResult *executeSQLOutput `json:"execution_result"`
}

type createChartOutput struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ChartType string `json:"chart_type"`
}

func (r *ToolRegistry) handleListCatalogs(ctx context.Context, _ map[string]interface{}) *protocol.CallToolResult {
	catalogs, err := r.backend.ListCatalogs(ctx)
	if err != nil {
		return collaboratorFailure(codeBackendError, err)
	}
	if catalogs == nil {
		catalogs = []catalog.CatalogInfo{}
	}
	return successResult(listCatalogsOutput{Catalogs: catalogs})
}

func (r *ToolRegistry) handleListSchemas(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	name := argString(args, "catalog")
	schemas, err := r.backend.ListSchemas(ctx, name)
	if err != nil {
		return collaboratorFailure(codeBackendError, err)
	}
	if schemas == nil {
		schemas = []catalog.SchemaInfo{}
	}
	return successResult(listSchemasOutput{Catalog: name, Schemas: schemas})
}

func (r *ToolRegistry) handleListTables(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	catalogName := argString(args, "catalog")
	schemaName := argString(args, "schema")
	tables, err := r.backend.ListTables(ctx, catalogName, schemaName)
	if err != nil {
		return collaboratorFailure(codeBackendError, err)
	}
	if tables == nil {
		tables = []catalog.TableInfo{}
	}
	return successResult(listTablesOutput{Catalog: catalogName, Schema: schemaName, Tables: tables})
}

func (r *ToolRegistry) handleGetTableInfo(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	detail, err := r.backend.GetTable(ctx,
		argString(args, "catalog"), argString(args, "schema"), argString(args, "table"))
	if err != nil {
		return collaboratorFailure(codeBackendError, err)
	}
	if detail.Columns == nil {
		detail.Columns = []catalog.ColumnInfo{}
	}
	return successResult(detail)
}

func (r *ToolRegistry) handleExecuteSQL(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	output, _, failure := r.runStatement(ctx, args, argString(args, "query"))
	if failure != nil {
		return failure
	}
	return successResult(output)
}

func (r *ToolRegistry) handleQueryNaturalLanguage(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	detail, err := r.backend.GetTable(ctx,
		argString(args, "catalog"), argString(args, "schema"), argString(args, "table"))
	if err != nil {
		return collaboratorFailure(codeBackendError, err)
	}

	prompt := generator.BuildGroundingPrompt(detail, argString(args, "question"), r.dialect)
	sqlText, err := r.generator.GenerateSQL(ctx, prompt)
	if err != nil {
		return collaboratorFailure(codeGeneratorError, err)
	}
	sqlText = generator.StripSQLFences(sqlText)

	r.logger.Debug("generated sql", zap.String("table", detail.FullName()), zap.String("sql", sqlText))

	output, _, failure := r.runStatement(ctx, args, sqlText)
	if failure != nil {
		return failure
	}
	return successResult(queryNaturalLanguageOutput{GeneratedSQL: sqlText, ExecutionResult: output})
}

func (r *ToolRegistry) handleCreateChart(ctx context.Context, args map[string]interface{}) *protocol.CallToolResult {
	_, result, failure := r.runStatement(ctx, args, argString(args, "query"))
	if failure != nil {
		return failure
	}
	if result.Empty() {
		return failureResult(codeNoData, "No data to chart", nil)
	}

	chartType := argString(args, "chart_type")
	title := argString(args, "title")
	if title == "" {
		title = defaultChartTitle
	}

	png, err := r.renderer.Render(charts.Request{
		Rows:    result.Rows,
		Columns: result.Columns,
		Type:    chartType,
		X:       argString(args, "x_column"),
		Y:       argString(args, "y_column"),
		Title:   title,
	})
	if err != nil {
		return failureResult(codeChartError, fmt.Sprintf("Error creating chart: %s", err), nil)
	}

	text := marshalPayload(createChartOutput{
		Status:    "success",
		Message:   fmt.Sprintf("Chart created successfully (%s)", chartType),
		ChartType: chartType,
	})
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.NewTextContent(text),
			protocol.NewImageContent(base64.StdEncoding.EncodeToString(png), "image/png"),
		},
	}
}

// runStatement is the shared execution path for execute_sql and both
// chained tools: warehouse resolution, statement execution, result
// shaping. The raw result is returned alongside the output payload for
// the chart chain.
func (r *ToolRegistry) runStatement(ctx context.Context, args map[string]interface{}, statement string) (*executeSQLOutput, *catalog.QueryResult, *protocol.CallToolResult) {
	warehouseID, failure := r.resolveWarehouse(args)
	if failure != nil {
		return nil, nil, failure
	}

	result, err := r.backend.ExecuteStatement(ctx, warehouseID, statement)
	if err != nil {
		message, details := errorParts(err)
		return nil, nil, failureResult(codeBackendError, fmt.Sprintf("Error executing query: %s", message), details)
	}

	if result.Empty() {
		return &executeSQLOutput{
			Status:  "success",
			Message: "Query executed successfully but returned no data",
		}, result, nil
	}
	return &executeSQLOutput{
		Status:   "success",
		RowCount: result.RowCount,
		Columns:  result.Columns,
		Data:     result.Rows,
	}, result, nil
}

// resolveWarehouse picks the warehouse for a statement: explicit
// argument, then configured default. Backends that require a warehouse
// fail the call before any backend round trip when neither is set.
func (r *ToolRegistry) resolveWarehouse(args map[string]interface{}) (string, *protocol.CallToolResult) {
	warehouseID := argString(args, "warehouse_id")
	if warehouseID == "" {
		warehouseID = r.defaultWarehouseID
	}
	if warehouseID == "" {
		if caps := r.backend.Capabilities(); caps != nil && caps.RequiresWarehouse {
			return "", failureResult(codeNoWarehouse,
				"no warehouse_id provided and no default warehouse configured", nil)
		}
	}
	return warehouseID, nil
}
