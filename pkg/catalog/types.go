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
package catalog

import "fmt"

// CatalogInfo describes a catalog, the top level of the object hierarchy.
type CatalogInfo struct {
	Name      string `json:"name"`
	Comment   string `json:"comment,omitempty"`
	Owner     string `json:"owner,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// SchemaInfo describes a schema within a catalog.
type SchemaInfo struct {
	Name        string `json:"name"`
	CatalogName string `json:"catalog_name,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Owner       string `json:"owner,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// TableInfo is the summary form of a table used in listings.
type TableInfo struct {
	Name      string `json:"name"`
	TableType string `json:"table_type,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Owner     string `json:"owner,omitempty"`
}

// ColumnInfo describes a single column of a table.
type ColumnInfo struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
	TypeText string `json:"type_text,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// TableDetail is the full metadata for a table, returned by GetTable.
type TableDetail struct {
	Name             string            `json:"name"`
	CatalogName      string            `json:"catalog_name"`
	SchemaName       string            `json:"schema_name"`
	TableType        string            `json:"table_type,omitempty"`
	DataSourceFormat string            `json:"data_source_format,omitempty"`
	Comment          string            `json:"comment,omitempty"`
	Owner            string            `json:"owner,omitempty"`
	Columns          []ColumnInfo      `json:"columns"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// FullName returns the three-part identifier catalog.schema.table.
func (t *TableDetail) FullName() string {
	return fmt.Sprintf("%s.%s.%s", t.CatalogName, t.SchemaName, t.Name)
}

// QueryResult holds the outcome of a SQL statement execution. Columns
// preserves the result column order; Rows maps column name to value so
// callers can access fields without tracking positions.
type QueryResult struct {
	Columns    []string                 `json:"columns"`
	Rows       []map[string]interface{} `json:"rows"`
	RowCount   int                      `json:"row_count"`
	DurationMs int64                    `json:"duration_ms,omitempty"`
}

// Empty reports whether the result carries no rows.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
