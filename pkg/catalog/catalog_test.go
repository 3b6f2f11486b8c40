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

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDetail_FullName(t *testing.T) {
	detail := &TableDetail{
		Name:        "orders",
		CatalogName: "main",
		SchemaName:  "sales",
	}
	assert.Equal(t, "main.sales.orders", detail.FullName())
}

func TestTableDetail_MarshalJSON(t *testing.T) {
	detail := &TableDetail{
		Name:        "orders",
		CatalogName: "main",
		SchemaName:  "sales",
		TableType:   "MANAGED",
		Columns: []ColumnInfo{
			{Name: "order_id", TypeName: "BIGINT", Nullable: false, Position: 0},
			{Name: "amount", TypeName: "DECIMAL", Nullable: true, Position: 1},
		},
	}

	data, err := json.Marshal(detail)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "main", decoded["catalog_name"])
	assert.Equal(t, "sales", decoded["schema_name"])
	// Empty optional fields stay off the wire.
	assert.NotContains(t, decoded, "comment")
	assert.NotContains(t, decoded, "properties")

	columns := decoded["columns"].([]interface{})
	require.Len(t, columns, 2)
	first := columns[0].(map[string]interface{})
	assert.Equal(t, "order_id", first["name"])
	assert.Equal(t, false, first["nullable"])
}

func TestQueryResult_Empty(t *testing.T) {
	var nilResult *QueryResult
	assert.True(t, nilResult.Empty())

	assert.True(t, (&QueryResult{Columns: []string{"a"}}).Empty())

	withRows := &QueryResult{
		Columns:  []string{"a"},
		Rows:     []map[string]interface{}{{"a": 1}},
		RowCount: 1,
	}
	assert.False(t, withRows.Empty())
}

func TestQueryResult_MarshalJSON(t *testing.T) {
	result := &QueryResult{
		Columns:  []string{"region", "total"},
		Rows:     []map[string]interface{}{{"region": "west", "total": 42}},
		RowCount: 1,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columns": ["region", "total"],
		"rows": [{"region": "west", "total": 42}],
		"row_count": 1
	}`, string(data))
}
