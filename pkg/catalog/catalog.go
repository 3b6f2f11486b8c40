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

// Package catalog defines the contract for pluggable data catalog backends.
// Implementations can be governed lakehouse catalogs (Databricks Unity
// Catalog), plain SQL databases, or any other engine that organizes data as
// catalog > schema > table and can execute SQL statements.
//
// The interface is intentionally minimal so the dispatch layer stays agnostic
// to where the metadata lives and how statements run.
package catalog

import (
	"context"
)

// Backend is the narrow seam between the dispatch layer and a concrete
// catalog implementation. All methods take a context so callers control
// cancellation and deadlines; implementations must not retain the context
// beyond the call.
type Backend interface {
	// Name returns the backend identifier (e.g., "databricks", "sqlite").
	Name() string

	// Capabilities returns the backend's capabilities for feature discovery.
	Capabilities() *Capabilities

	// ListCatalogs returns all catalogs visible to the connection.
	ListCatalogs(ctx context.Context) ([]CatalogInfo, error)

	// ListSchemas returns the schemas within a catalog. A catalog with no
	// schemas yields an empty slice, not an error.
	ListSchemas(ctx context.Context, catalogName string) ([]SchemaInfo, error)

	// ListTables returns the tables within a schema.
	ListTables(ctx context.Context, catalogName, schemaName string) ([]TableInfo, error)

	// GetTable returns full metadata for a single table, including its
	// column definitions. A missing table returns a not-found Error.
	GetTable(ctx context.Context, catalogName, schemaName, tableName string) (*TableDetail, error)

	// ExecuteStatement runs a SQL statement and returns the result rows.
	// warehouseID selects the compute target on backends that require one;
	// backends whose Capabilities report RequiresWarehouse false ignore it.
	ExecuteStatement(ctx context.Context, warehouseID, statement string) (*QueryResult, error)

	// Ping checks backend connectivity and health.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Capabilities describes what a backend supports so callers can adapt
// without type-switching on implementations.
type Capabilities struct {
	// RequiresWarehouse indicates statements need an explicit compute
	// target (warehouse ID) to run.
	RequiresWarehouse bool

	// SQLDialect names the dialect statements are written in
	// (e.g., "Databricks Delta Lake", "PostgreSQL", "SQLite").
	SQLDialect string

	// Product is a human-readable product name for prompts and logs.
	Product string

	// SupportsTableProperties indicates table-level key/value properties
	// are available from GetTable.
	SupportsTableProperties bool
}
