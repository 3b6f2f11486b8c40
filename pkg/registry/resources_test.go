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
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teradata-labs/heddle/pkg/catalog"
)

func decodeResource(t *testing.T, content string) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content), &payload))
	return payload
}

func TestResourceRegistry_ListResources(t *testing.T) {
	backend := &mockBackend{
		caps: &catalog.Capabilities{Product: "Unity Catalog"},
		listCatalogs: func(context.Context) ([]catalog.CatalogInfo, error) {
			return []catalog.CatalogInfo{{Name: "main"}, {Name: "staging"}}, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	resources, err := r.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 3)

	assert.Equal(t, "heddle://catalogs", resources[0].URI)
	assert.Equal(t, "Unity Catalog - Catalogs", resources[0].Name)
	assert.Equal(t, "application/json", resources[0].MimeType)
	assert.Equal(t, "heddle://catalog/main", resources[1].URI)
	assert.Equal(t, "heddle://catalog/staging", resources[2].URI)
}

func TestResourceRegistry_ListResources_NilBackend(t *testing.T) {
	r := NewResourceRegistry(nil, zaptest.NewLogger(t))
	resources, err := r.ListResources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestResourceRegistry_ListResourceTemplates(t *testing.T) {
	r := NewResourceRegistry(&mockBackend{}, zaptest.NewLogger(t))
	templates := r.ListResourceTemplates()
	require.Len(t, templates, 2)
	assert.Equal(t, "heddle://catalog/{catalog}", templates[0].URITemplate)
	assert.Equal(t, "heddle://table/{catalog}/{schema}/{table}", templates[1].URITemplate)
}

func TestResourceRegistry_ReadCatalogs(t *testing.T) {
	backend := &mockBackend{
		listCatalogs: func(context.Context) ([]catalog.CatalogInfo, error) {
			return []catalog.CatalogInfo{{Name: "main"}}, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://catalogs"))
	catalogs := payload["catalogs"].([]interface{})
	require.Len(t, catalogs, 1)
	assert.Equal(t, "main", catalogs[0].(map[string]interface{})["name"])
}

func TestResourceRegistry_ReadCatalogSchemas(t *testing.T) {
	backend := &mockBackend{
		listSchemas: func(_ context.Context, catalogName string) ([]catalog.SchemaInfo, error) {
			assert.Equal(t, "main", catalogName)
			return []catalog.SchemaInfo{{Name: "sales"}}, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://catalog/main"))
	assert.Equal(t, "main", payload["catalog"])
	schemas := payload["schemas"].([]interface{})
	require.Len(t, schemas, 1)
}

func TestResourceRegistry_ReadCatalogSchemas_EmptyCatalog(t *testing.T) {
	backend := &mockBackend{
		listSchemas: func(context.Context, string) ([]catalog.SchemaInfo, error) {
			return nil, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	// An empty catalog is a successful read with an empty listing.
	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://catalog/empty"))
	assert.NotContains(t, payload, "error")
	assert.Equal(t, []interface{}{}, payload["schemas"])
}

func TestResourceRegistry_ReadTable(t *testing.T) {
	backend := &mockBackend{
		getTable: func(_ context.Context, c, s, tbl string) (*catalog.TableDetail, error) {
			assert.Equal(t, "main", c)
			assert.Equal(t, "sales", s)
			assert.Equal(t, "orders", tbl)
			return &catalog.TableDetail{
				Name: tbl, CatalogName: c, SchemaName: s,
				Columns: []catalog.ColumnInfo{{Name: "order_id", TypeName: "BIGINT"}},
			}, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://table/main/sales/orders"))
	assert.Equal(t, "orders", payload["name"])
	require.Len(t, payload["columns"], 1)
}

func TestResourceRegistry_ReadInvalidAddress(t *testing.T) {
	r := NewResourceRegistry(&mockBackend{}, zaptest.NewLogger(t))

	tests := []string{
		"heddle://nope",
		"heddle://table/main/sales",            // too few parts
		"heddle://table/main/sales/orders/col", // too many parts
		"other://catalogs",
		"",
	}
	for _, uri := range tests {
		payload := decodeResource(t, r.ReadResource(context.Background(), uri))
		assert.Equal(t, "invalid_address", payload["code"], uri)
		assert.NotEmpty(t, payload["error"], uri)
	}
}

func TestResourceRegistry_ReadMostSpecificFirst(t *testing.T) {
	// A table address must never fall through to the catalog handler even
	// though both share structure.
	backend := &mockBackend{
		listSchemas: func(context.Context, string) ([]catalog.SchemaInfo, error) {
			t.Fatal("catalog handler must not run for a table address")
			return nil, nil
		},
		getTable: func(_ context.Context, c, s, tbl string) (*catalog.TableDetail, error) {
			return &catalog.TableDetail{Name: tbl, CatalogName: c, SchemaName: s}, nil
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://table/m/s/t"))
	assert.Equal(t, "t", payload["name"])
}

func TestResourceRegistry_ReadBackendErrorAsContent(t *testing.T) {
	backend := &mockBackend{
		getTable: func(context.Context, string, string, string) (*catalog.TableDetail, error) {
			return nil, catalog.NewNotFound("table", "main.sales.missing")
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	// The read still returns content; the failure travels inside it.
	content := r.ReadResource(context.Background(), "heddle://table/main/sales/missing")
	payload := decodeResource(t, content)
	assert.Equal(t, "backend_error", payload["code"])
	assert.Contains(t, payload["error"], "main.sales.missing")
	assert.NotNil(t, payload["details"])
}

func TestResourceRegistry_ReadNilBackend(t *testing.T) {
	r := NewResourceRegistry(nil, zaptest.NewLogger(t))
	payload := decodeResource(t, r.ReadResource(context.Background(), "heddle://catalogs"))
	assert.Equal(t, "backend_not_initialized", payload["code"])
}

func TestResourceRegistry_ListResources_BackendError(t *testing.T) {
	backend := &mockBackend{
		listCatalogs: func(context.Context) ([]catalog.CatalogInfo, error) {
			return nil, errors.New("connection refused")
		},
	}
	r := NewResourceRegistry(backend, zaptest.NewLogger(t))

	_, err := r.ListResources(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
