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

package registry

import (
	"github.com/teradata-labs/heddle/pkg/charts"
	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// Tool names routed by the tool registry.
const (
	toolListCatalogs         = "list_catalogs"
	toolListSchemas          = "list_schemas"
	toolListTables           = "list_tables"
	toolGetTableInfo         = "get_table_info"
	toolExecuteSQL           = "execute_sql"
	toolQueryNaturalLanguage = "query_natural_language"
	toolCreateChart          = "create_chart"
)

type schemaProperty struct {
	name     string
	typ      string
	desc     string
	required bool
	enum     []string
}

func prop(name, typ, desc string) schemaProperty {
	return schemaProperty{name: name, typ: typ, desc: desc}
}

func reqProp(name, typ, desc string) schemaProperty {
	return schemaProperty{name: name, typ: typ, desc: desc, required: true}
}

func enumProp(name, desc string, values []string) schemaProperty {
	return schemaProperty{name: name, typ: "string", desc: desc, required: true, enum: values}
}

// objectSchema builds a closed JSON Schema object. Required string
// properties carry minLength 1 so whitespace-only arguments fail after
// trimming.
func objectSchema(props ...schemaProperty) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	var required []string

	for _, p := range props {
		spec := map[string]interface{}{
			"type":        p.typ,
			"description": p.desc,
		}
		if p.required && p.typ == "string" && len(p.enum) == 0 {
			spec["minLength"] = 1
		}
		if len(p.enum) > 0 {
			spec["enum"] = p.enum
		}
		properties[p.name] = spec
		if p.required {
			required = append(required, p.name)
		}
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func boolP(b bool) *bool { return &b }

// readOnlyAnnotation marks tools that only read catalog state.
func readOnlyAnnotation(title string) *protocol.ToolAnnotations {
	return &protocol.ToolAnnotations{
		Title:           title,
		ReadOnlyHint:    boolP(true),
		DestructiveHint: boolP(false),
		IdempotentHint:  boolP(true),
	}
}

// mutatingAnnotation marks tools that run caller-supplied SQL, which may
// write.
func mutatingAnnotation(title string) *protocol.ToolAnnotations {
	return &protocol.ToolAnnotations{
		Title:        title,
		ReadOnlyHint: boolP(false),
	}
}

func warehouseProp() schemaProperty {
	return prop("warehouse_id", "string", "SQL warehouse ID (uses configured default if not provided)")
}

// toolDefinitions builds the advertised tool catalog. The same schema
// documents drive argument validation in CallTool.
func toolDefinitions() []protocol.Tool {
	return []protocol.Tool{
		{
			Name:        toolListCatalogs,
			Description: "List all catalogs in the data catalog",
			InputSchema: objectSchema(),
			Annotations: readOnlyAnnotation("List Catalogs"),
		},
		{
			Name:        toolListSchemas,
			Description: "List all schemas in a catalog",
			InputSchema: objectSchema(
				reqProp("catalog", "string", "Name of the catalog"),
			),
			Annotations: readOnlyAnnotation("List Schemas"),
		},
		{
			Name:        toolListTables,
			Description: "List all tables in a schema",
			InputSchema: objectSchema(
				reqProp("catalog", "string", "Name of the catalog"),
				reqProp("schema", "string", "Name of the schema"),
			),
			Annotations: readOnlyAnnotation("List Tables"),
		},
		{
			Name:        toolGetTableInfo,
			Description: "Get detailed information about a table",
			InputSchema: objectSchema(
				reqProp("catalog", "string", "Name of the catalog"),
				reqProp("schema", "string", "Name of the schema"),
				reqProp("table", "string", "Name of the table"),
			),
			Annotations: readOnlyAnnotation("Get Table Info"),
		},
		{
			Name:        toolExecuteSQL,
			Description: "Execute a SQL query against the catalog backend",
			InputSchema: objectSchema(
				reqProp("query", "string", "SQL query to execute"),
				warehouseProp(),
			),
			Annotations: mutatingAnnotation("Execute SQL"),
		},
		{
			Name:        toolQueryNaturalLanguage,
			Description: "Convert natural language to SQL and execute",
			InputSchema: objectSchema(
				reqProp("question", "string", "Natural language question to convert to SQL"),
				reqProp("catalog", "string", "Name of the catalog"),
				reqProp("schema", "string", "Name of the schema"),
				reqProp("table", "string", "Name of the table"),
				warehouseProp(),
			),
			Annotations: mutatingAnnotation("Query in Natural Language"),
		},
		{
			Name:        toolCreateChart,
			Description: "Create a chart from query results",
			InputSchema: objectSchema(
				reqProp("query", "string", "SQL query to get data for the chart"),
				enumProp("chart_type", "Type of chart to create", charts.AllTypes()),
				prop("x_column", "string", "Column name for X axis (auto-detected if not provided)"),
				prop("y_column", "string", "Column name for Y axis (auto-detected if not provided)"),
				prop("title", "string", "Title for the chart"),
				warehouseProp(),
			),
			Annotations: mutatingAnnotation("Create Chart"),
		},
	}
}
