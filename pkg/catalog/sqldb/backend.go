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

// Package sqldb implements catalog.Backend over database/sql for engines
// without a governed catalog service. Metadata comes from each engine's
// introspection surface (information_schema, sqlite pragmas) and statements
// run directly on the connection, so no warehouse is involved.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/catalog"

	// SQL drivers
	_ "github.com/go-sql-driver/mysql" // mysql
	_ "github.com/lib/pq"              // postgres
	_ "modernc.org/sqlite"             // sqlite
)

// Config holds configuration for a SQL database backend.
type Config struct {
	// Driver selects the engine: "sqlite", "postgres", or "mysql".
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	// MaxOpenConns bounds the connection pool. Zero keeps the driver default.
	MaxOpenConns int

	// MaxIdleConns bounds idle pooled connections. Zero keeps the driver default.
	MaxIdleConns int

	// Logger for backend operations.
	Logger *zap.Logger
}

// Backend implements catalog.Backend for plain SQL databases.
type Backend struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

// NewBackend opens the database, verifies connectivity, and wires the
// dialect matching cfg.Driver.
func NewBackend(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DSN is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, catalog.NewUnavailable(cfg.Driver, err)
	}

	cfg.Logger.Info("sql backend connected",
		zap.String("driver", cfg.Driver))

	return &Backend{db: db, dialect: d, logger: cfg.Logger}, nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return b.dialect.name()
}

// Capabilities returns the backend's capabilities.
func (b *Backend) Capabilities() *catalog.Capabilities {
	return b.dialect.capabilities()
}

// ListCatalogs returns the catalogs reachable on this connection.
func (b *Backend) ListCatalogs(ctx context.Context) ([]catalog.CatalogInfo, error) {
	b.logger.Debug("listing catalogs", zap.String("driver", b.dialect.name()))
	return b.dialect.listCatalogs(ctx, b.db)
}

// ListSchemas returns the schemas within a catalog.
func (b *Backend) ListSchemas(ctx context.Context, catalogName string) ([]catalog.SchemaInfo, error) {
	b.logger.Debug("listing schemas", zap.String("catalog", catalogName))
	return b.dialect.listSchemas(ctx, b.db, catalogName)
}

// ListTables returns the tables within a schema.
func (b *Backend) ListTables(ctx context.Context, catalogName, schemaName string) ([]catalog.TableInfo, error) {
	b.logger.Debug("listing tables",
		zap.String("catalog", catalogName),
		zap.String("schema", schemaName))
	return b.dialect.listTables(ctx, b.db, catalogName, schemaName)
}

// GetTable returns metadata and columns for a single table. A table with no
// introspectable columns does not exist; SQL engines cannot create
// zero-column tables.
func (b *Backend) GetTable(ctx context.Context, catalogName, schemaName, tableName string) (*catalog.TableDetail, error) {
	fullName := fmt.Sprintf("%s.%s.%s", catalogName, schemaName, tableName)
	b.logger.Debug("getting table", zap.String("table", fullName))

	tableType, err := b.dialect.tableType(ctx, b.db, catalogName, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	if tableType == "" {
		return nil, catalog.NewNotFound("table", fullName)
	}

	columns, err := b.dialect.tableColumns(ctx, b.db, catalogName, schemaName, tableName)
	if err != nil {
		return nil, err
	}

	return &catalog.TableDetail{
		Name:        tableName,
		CatalogName: catalogName,
		SchemaName:  schemaName,
		TableType:   tableType,
		Columns:     columns,
	}, nil
}

// ExecuteStatement runs a SQL statement. warehouseID is ignored; plain
// databases execute on the connection itself.
func (b *Backend) ExecuteStatement(ctx context.Context, warehouseID, statement string) (*catalog.QueryResult, error) {
	b.logger.Debug("executing statement", zap.Int("statement_length", len(statement)))

	start := time.Now()
	rows, err := b.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, catalog.NewQueryFailed(statement, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, catalog.NewQueryFailed(statement, err)
	}

	result := &catalog.QueryResult{
		Columns: columns,
		Rows:    []map[string]interface{}{},
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for rows.Next() {
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, catalog.NewQueryFailed(statement, err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.NewQueryFailed(statement, err)
	}

	result.RowCount = len(result.Rows)
	result.DurationMs = time.Since(start).Milliseconds()

	b.logger.Debug("statement succeeded",
		zap.Int("row_count", result.RowCount),
		zap.Int64("duration_ms", result.DurationMs))

	return result, nil
}

// Ping checks database connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}

// normalizeValue makes scanned values JSON-friendly. Drivers return []byte
// for text-ish columns; everything else passes through.
func normalizeValue(v interface{}) interface{} {
	if raw, ok := v.([]byte); ok {
		return string(raw)
	}
	return v
}

var _ catalog.Backend = (*Backend)(nil)
