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

// Package databricks implements catalog.Backend on top of a Databricks
// workspace. Metadata comes from the Unity Catalog APIs and statements run
// on a SQL warehouse via the Statement Execution API.
package databricks

import (
	"context"
	"fmt"
	"time"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/apierr"
	ucsdk "github.com/databricks/databricks-sdk-go/service/catalog"
	dbsql "github.com/databricks/databricks-sdk-go/service/sql"
	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/catalog"
)

// statementWaitTimeout is how long the Statement Execution API blocks before
// returning a pending result. The API caps this at 50 seconds.
const statementWaitTimeout = "30s"

// Config holds configuration for the Databricks backend.
type Config struct {
	// Host is the workspace URL (e.g., "https://adb-123.azuredatabricks.net").
	// Empty falls back to the SDK's default resolution chain (environment,
	// ~/.databrickscfg).
	Host string

	// Token is a personal access token for the workspace. Empty falls back
	// to the SDK's default resolution chain.
	Token string

	// Profile selects a ~/.databrickscfg profile when Host/Token are unset.
	Profile string

	// Logger for backend operations.
	Logger *zap.Logger
}

// Backend implements catalog.Backend for Databricks Unity Catalog.
type Backend struct {
	client *databricks.WorkspaceClient
	logger *zap.Logger
}

// NewBackend creates a Databricks backend and verifies connectivity.
func NewBackend(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	client, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:    cfg.Host,
		Token:   cfg.Token,
		Profile: cfg.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}

	b := &Backend{client: client, logger: cfg.Logger}

	if err := b.Ping(ctx); err != nil {
		return nil, catalog.NewUnavailable("databricks", err)
	}

	cfg.Logger.Info("databricks backend connected",
		zap.String("host", client.Config.Host))

	return b, nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return "databricks"
}

// Capabilities returns the backend's capabilities.
func (b *Backend) Capabilities() *catalog.Capabilities {
	return &catalog.Capabilities{
		RequiresWarehouse:       true,
		SQLDialect:              "Databricks Delta Lake",
		Product:                 "Unity Catalog",
		SupportsTableProperties: true,
	}
}

// ListCatalogs returns all catalogs visible to the connection.
func (b *Backend) ListCatalogs(ctx context.Context) ([]catalog.CatalogInfo, error) {
	b.logger.Debug("listing catalogs")

	infos, err := b.client.Catalogs.ListAll(ctx, ucsdk.ListCatalogsRequest{})
	if err != nil {
		return nil, wrapAPIError("catalog", "", err)
	}

	out := make([]catalog.CatalogInfo, 0, len(infos))
	for _, c := range infos {
		out = append(out, catalog.CatalogInfo{
			Name:      c.Name,
			Comment:   c.Comment,
			Owner:     c.Owner,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// ListSchemas returns the schemas within a catalog.
func (b *Backend) ListSchemas(ctx context.Context, catalogName string) ([]catalog.SchemaInfo, error) {
	b.logger.Debug("listing schemas", zap.String("catalog", catalogName))

	infos, err := b.client.Schemas.ListAll(ctx, ucsdk.ListSchemasRequest{
		CatalogName: catalogName,
	})
	if err != nil {
		return nil, wrapAPIError("catalog", catalogName, err)
	}

	out := make([]catalog.SchemaInfo, 0, len(infos))
	for _, s := range infos {
		out = append(out, catalog.SchemaInfo{
			Name:        s.Name,
			CatalogName: s.CatalogName,
			Comment:     s.Comment,
			Owner:       s.Owner,
			CreatedAt:   s.CreatedAt,
		})
	}
	return out, nil
}

// ListTables returns the tables within a schema.
func (b *Backend) ListTables(ctx context.Context, catalogName, schemaName string) ([]catalog.TableInfo, error) {
	b.logger.Debug("listing tables",
		zap.String("catalog", catalogName),
		zap.String("schema", schemaName))

	infos, err := b.client.Tables.ListAll(ctx, ucsdk.ListTablesRequest{
		CatalogName: catalogName,
		SchemaName:  schemaName,
	})
	if err != nil {
		return nil, wrapAPIError("schema", catalogName+"."+schemaName, err)
	}

	out := make([]catalog.TableInfo, 0, len(infos))
	for _, t := range infos {
		out = append(out, catalog.TableInfo{
			Name:      t.Name,
			TableType: string(t.TableType),
			Comment:   t.Comment,
			Owner:     t.Owner,
		})
	}
	return out, nil
}

// GetTable returns full metadata for a single table.
func (b *Backend) GetTable(ctx context.Context, catalogName, schemaName, tableName string) (*catalog.TableDetail, error) {
	fullName := fmt.Sprintf("%s.%s.%s", catalogName, schemaName, tableName)
	b.logger.Debug("getting table", zap.String("table", fullName))

	info, err := b.client.Tables.Get(ctx, ucsdk.GetTableRequest{FullName: fullName})
	if err != nil {
		return nil, wrapAPIError("table", fullName, err)
	}

	columns := make([]catalog.ColumnInfo, 0, len(info.Columns))
	for _, col := range info.Columns {
		columns = append(columns, catalog.ColumnInfo{
			Name:     col.Name,
			TypeName: string(col.TypeName),
			TypeText: col.TypeText,
			Comment:  col.Comment,
			Nullable: col.Nullable,
			Position: col.Position,
		})
	}

	return &catalog.TableDetail{
		Name:             info.Name,
		CatalogName:      info.CatalogName,
		SchemaName:       info.SchemaName,
		TableType:        string(info.TableType),
		DataSourceFormat: string(info.DataSourceFormat),
		Comment:          info.Comment,
		Owner:            info.Owner,
		Columns:          columns,
		Properties:       info.Properties,
	}, nil
}

// ExecuteStatement runs a SQL statement on the given warehouse and waits for
// the inline result.
func (b *Backend) ExecuteStatement(ctx context.Context, warehouseID, statement string) (*catalog.QueryResult, error) {
	b.logger.Debug("executing statement",
		zap.String("warehouse_id", warehouseID),
		zap.Int("statement_length", len(statement)))

	start := time.Now()
	resp, err := b.client.StatementExecution.ExecuteStatement(ctx, dbsql.ExecuteStatementRequest{
		WarehouseId: warehouseID,
		Statement:   statement,
		WaitTimeout: statementWaitTimeout,
	})
	if err != nil {
		return nil, catalog.NewQueryFailed(statement, err)
	}

	if resp.Status == nil {
		return nil, catalog.NewQueryFailed(statement, fmt.Errorf("statement response missing status"))
	}
	if resp.Status.State != dbsql.StatementStateSucceeded {
		msg := fmt.Sprintf("statement finished in state %s", resp.Status.State)
		if resp.Status.Error != nil && resp.Status.Error.Message != "" {
			msg = resp.Status.Error.Message
		}
		return nil, catalog.NewQueryFailed(statement, fmt.Errorf("%s", msg))
	}

	result := convertStatementResponse(resp)
	result.DurationMs = time.Since(start).Milliseconds()

	b.logger.Debug("statement succeeded",
		zap.Int("row_count", result.RowCount),
		zap.Int64("duration_ms", result.DurationMs))

	return result, nil
}

// Ping checks workspace connectivity using the current-user endpoint.
func (b *Backend) Ping(ctx context.Context) error {
	if _, err := b.client.CurrentUser.Me(ctx); err != nil {
		return fmt.Errorf("workspace unreachable: %w", err)
	}
	return nil
}

// Close releases backend resources. The workspace client holds no
// persistent connections.
func (b *Backend) Close() error {
	return nil
}

// convertStatementResponse maps an inline statement result to the common
// QueryResult shape. The Statement Execution API returns cell values as
// strings; they pass through unconverted.
func convertStatementResponse(resp *dbsql.StatementResponse) *catalog.QueryResult {
	result := &catalog.QueryResult{
		Columns: []string{},
		Rows:    []map[string]interface{}{},
	}

	if resp.Manifest != nil && resp.Manifest.Schema != nil {
		for _, col := range resp.Manifest.Schema.Columns {
			result.Columns = append(result.Columns, col.Name)
		}
	}

	if resp.Result != nil {
		for _, row := range resp.Result.DataArray {
			converted := make(map[string]interface{}, len(result.Columns))
			for i, name := range result.Columns {
				if i < len(row) {
					converted[name] = row[i]
				}
			}
			result.Rows = append(result.Rows, converted)
		}
	}

	result.RowCount = len(result.Rows)
	return result
}

// wrapAPIError maps SDK errors to the common error type, distinguishing
// missing objects from other failures.
func wrapAPIError(kind, name string, err error) error {
	if apierr.IsMissing(err) {
		return catalog.NewNotFound(kind, name)
	}
	return &catalog.Error{
		Code:    catalog.ErrCodeBackendError,
		Message: fmt.Sprintf("databricks api error: %v", err),
	}
}

var _ catalog.Backend = (*Backend)(nil)
