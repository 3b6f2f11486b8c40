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
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/teradata-labs/heddle/pkg/catalog"
)

// dialect abstracts the engine-specific introspection queries. tableType
// returns "" for a missing table so the backend can map it to not-found.
type dialect interface {
	name() string
	driverName() string
	capabilities() *catalog.Capabilities
	listCatalogs(ctx context.Context, db *sql.DB) ([]catalog.CatalogInfo, error)
	listSchemas(ctx context.Context, db *sql.DB, catalogName string) ([]catalog.SchemaInfo, error)
	listTables(ctx context.Context, db *sql.DB, catalogName, schemaName string) ([]catalog.TableInfo, error)
	tableType(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) (string, error)
	tableColumns(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) ([]catalog.ColumnInfo, error)
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect{}, nil
	case "postgres":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s (supported: sqlite, postgres, mysql)", driver)
	}
}

// normalizeTableType maps engine-specific table kinds onto the uppercase
// vocabulary used by governed catalogs (TABLE, VIEW).
func normalizeTableType(raw string) string {
	switch strings.ToUpper(raw) {
	case "BASE TABLE", "TABLE":
		return "TABLE"
	case "VIEW":
		return "VIEW"
	default:
		return strings.ToUpper(raw)
	}
}

// quoteIdent quotes a SQL identifier with double quotes, doubling any
// embedded quotes. Used where engines do not support bound identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ---------------------------------------------------------------------------
// sqlite
//
// SQLite calls attached databases "schemas". Those map to catalogs here, and
// each carries a single synthetic schema named "default" to complete the
// three-level hierarchy.
// ---------------------------------------------------------------------------

const sqliteDefaultSchema = "default"

type sqliteDialect struct{}

func (sqliteDialect) name() string       { return "sqlite" }
func (sqliteDialect) driverName() string { return "sqlite" }

func (sqliteDialect) capabilities() *catalog.Capabilities {
	return &catalog.Capabilities{
		RequiresWarehouse: false,
		SQLDialect:        "SQLite",
		Product:           "SQLite",
	}
}

func (sqliteDialect) listCatalogs(ctx context.Context, db *sql.DB) ([]catalog.CatalogInfo, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_database_list ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.CatalogInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan database name: %w", err)
		}
		out = append(out, catalog.CatalogInfo{Name: name, Comment: "attached SQLite database"})
	}
	return out, rows.Err()
}

func (d sqliteDialect) listSchemas(ctx context.Context, db *sql.DB, catalogName string) ([]catalog.SchemaInfo, error) {
	exists, err := d.catalogExists(ctx, db, catalogName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, catalog.NewNotFound("catalog", catalogName)
	}
	return []catalog.SchemaInfo{
		{Name: sqliteDefaultSchema, CatalogName: catalogName},
	}, nil
}

func (d sqliteDialect) listTables(ctx context.Context, db *sql.DB, catalogName, schemaName string) ([]catalog.TableInfo, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT name, type FROM %s.sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%%' ORDER BY name`,
		quoteIdent(catalogName))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.TableInfo
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		out = append(out, catalog.TableInfo{Name: name, TableType: normalizeTableType(typ)})
	}
	return out, rows.Err()
}

func (d sqliteDialect) tableType(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) (string, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return "", err
	}

	query := fmt.Sprintf(
		`SELECT type FROM %s.sqlite_master WHERE type IN ('table', 'view') AND name = ?`,
		quoteIdent(catalogName))
	var typ string
	err := db.QueryRowContext(ctx, query, tableName).Scan(&typ)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up table: %w", err)
	}
	return normalizeTableType(typ), nil
}

func (sqliteDialect) tableColumns(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) ([]catalog.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull" FROM pragma_table_info(?, ?) ORDER BY cid`,
		tableName, catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.ColumnInfo
	for rows.Next() {
		var cid, notNull int
		var name, typ string
		if err := rows.Scan(&cid, &name, &typ, &notNull); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		out = append(out, catalog.ColumnInfo{
			Name:     name,
			TypeName: strings.ToUpper(typ),
			TypeText: typ,
			Nullable: notNull == 0,
			Position: cid,
		})
	}
	return out, rows.Err()
}

func (sqliteDialect) catalogExists(ctx context.Context, db *sql.DB, catalogName string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_database_list WHERE name = ?`, catalogName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check database list: %w", err)
	}
	return count > 0, nil
}

func (d sqliteDialect) checkAddress(ctx context.Context, db *sql.DB, catalogName, schemaName string) error {
	exists, err := d.catalogExists(ctx, db, catalogName)
	if err != nil {
		return err
	}
	if !exists {
		return catalog.NewNotFound("catalog", catalogName)
	}
	if schemaName != sqliteDefaultSchema {
		return catalog.NewNotFound("schema", catalogName+"."+schemaName)
	}
	return nil
}

// ---------------------------------------------------------------------------
// postgres
//
// PostgreSQL cannot introspect other databases over one connection, so the
// current database is the only catalog exposed.
// ---------------------------------------------------------------------------

type postgresDialect struct{}

func (postgresDialect) name() string       { return "postgres" }
func (postgresDialect) driverName() string { return "postgres" }

func (postgresDialect) capabilities() *catalog.Capabilities {
	return &catalog.Capabilities{
		RequiresWarehouse: false,
		SQLDialect:        "PostgreSQL",
		Product:           "PostgreSQL",
	}
}

func (postgresDialect) listCatalogs(ctx context.Context, db *sql.DB) ([]catalog.CatalogInfo, error) {
	var name string
	if err := db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&name); err != nil {
		return nil, fmt.Errorf("failed to read current database: %w", err)
	}
	return []catalog.CatalogInfo{{Name: name, Comment: "current database"}}, nil
}

func (d postgresDialect) listSchemas(ctx context.Context, db *sql.DB, catalogName string) ([]catalog.SchemaInfo, error) {
	if err := d.checkCatalog(ctx, db, catalogName); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT LIKE 'pg_%'
		  AND schema_name <> 'information_schema'
		ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.SchemaInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		out = append(out, catalog.SchemaInfo{Name: name, CatalogName: catalogName})
	}
	return out, rows.Err()
}

func (d postgresDialect) listTables(ctx context.Context, db *sql.DB, catalogName, schemaName string) ([]catalog.TableInfo, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.TableInfo
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		out = append(out, catalog.TableInfo{Name: name, TableType: normalizeTableType(typ)})
	}
	return out, rows.Err()
}

func (d postgresDialect) tableType(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) (string, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return "", err
	}

	var typ string
	err := db.QueryRowContext(ctx, `
		SELECT table_type
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2`, schemaName, tableName).Scan(&typ)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up table: %w", err)
	}
	return normalizeTableType(typ), nil
}

func (postgresDialect) tableColumns(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) ([]catalog.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.ColumnInfo
	for rows.Next() {
		var name, dataType, isNullable string
		var position int
		if err := rows.Scan(&name, &dataType, &isNullable, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		out = append(out, catalog.ColumnInfo{
			Name:     name,
			TypeName: strings.ToUpper(dataType),
			TypeText: dataType,
			Nullable: strings.EqualFold(isNullable, "YES"),
			// information_schema positions are 1-based.
			Position: position - 1,
		})
	}
	return out, rows.Err()
}

func (postgresDialect) checkCatalog(ctx context.Context, db *sql.DB, catalogName string) error {
	var current string
	if err := db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read current database: %w", err)
	}
	if catalogName != current {
		return catalog.NewNotFound("catalog", catalogName)
	}
	return nil
}

func (d postgresDialect) checkAddress(ctx context.Context, db *sql.DB, catalogName, schemaName string) error {
	if err := d.checkCatalog(ctx, db, catalogName); err != nil {
		return err
	}
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM information_schema.schemata
		WHERE schema_name = $1`, schemaName).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if count == 0 {
		return catalog.NewNotFound("schema", catalogName+"."+schemaName)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mysql
//
// MySQL has no catalog level; information_schema reports the literal
// catalog "def" for every schema, so that is the single catalog exposed.
// ---------------------------------------------------------------------------

const mysqlCatalogName = "def"

type mysqlDialect struct{}

func (mysqlDialect) name() string       { return "mysql" }
func (mysqlDialect) driverName() string { return "mysql" }

func (mysqlDialect) capabilities() *catalog.Capabilities {
	return &catalog.Capabilities{
		RequiresWarehouse: false,
		SQLDialect:        "MySQL",
		Product:           "MySQL",
	}
}

func (mysqlDialect) listCatalogs(ctx context.Context, db *sql.DB) ([]catalog.CatalogInfo, error) {
	return []catalog.CatalogInfo{{Name: mysqlCatalogName, Comment: "MySQL server"}}, nil
}

func (d mysqlDialect) listSchemas(ctx context.Context, db *sql.DB, catalogName string) ([]catalog.SchemaInfo, error) {
	if catalogName != mysqlCatalogName {
		return nil, catalog.NewNotFound("catalog", catalogName)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.SchemaInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		out = append(out, catalog.SchemaInfo{Name: name, CatalogName: catalogName})
	}
	return out, rows.Err()
}

func (d mysqlDialect) listTables(ctx context.Context, db *sql.DB, catalogName, schemaName string) ([]catalog.TableInfo, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = ?
		ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.TableInfo
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		out = append(out, catalog.TableInfo{Name: name, TableType: normalizeTableType(typ)})
	}
	return out, rows.Err()
}

func (d mysqlDialect) tableType(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) (string, error) {
	if err := d.checkAddress(ctx, db, catalogName, schemaName); err != nil {
		return "", err
	}

	var typ string
	err := db.QueryRowContext(ctx, `
		SELECT table_type
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?`, schemaName, tableName).Scan(&typ)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up table: %w", err)
	}
	return normalizeTableType(typ), nil
}

func (mysqlDialect) tableColumns(ctx context.Context, db *sql.DB, catalogName, schemaName, tableName string) ([]catalog.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, ordinal_position, column_comment
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.ColumnInfo
	for rows.Next() {
		var name, dataType, isNullable, comment string
		var position int
		if err := rows.Scan(&name, &dataType, &isNullable, &position, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		out = append(out, catalog.ColumnInfo{
			Name:     name,
			TypeName: strings.ToUpper(dataType),
			TypeText: dataType,
			Comment:  comment,
			Nullable: strings.EqualFold(isNullable, "YES"),
			Position: position - 1,
		})
	}
	return out, rows.Err()
}

func (d mysqlDialect) checkAddress(ctx context.Context, db *sql.DB, catalogName, schemaName string) error {
	if catalogName != mysqlCatalogName {
		return catalog.NewNotFound("catalog", catalogName)
	}
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM information_schema.schemata
		WHERE schema_name = ?`, schemaName).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if count == 0 {
		return catalog.NewNotFound("schema", catalogName+"."+schemaName)
	}
	return nil
}
