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
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/catalog"
	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// Resource address space. Reads resolve most-specific-first: the exact
// catalogs address, then table addresses, then catalog addresses.
const (
	catalogsURI      = "heddle://catalogs"
	catalogURIPrefix = "heddle://catalog/"
	tableURIPrefix   = "heddle://table/"

	resourceMimeType = "application/json"
)

// ResourceRegistry exposes the catalog hierarchy as addressable
// resources. Read failures are embedded as failure payloads in the
// returned content, never surfaced as transport faults.
type ResourceRegistry struct {
	backend catalog.Backend
	product string
	logger  *zap.Logger
}

// NewResourceRegistry builds a resource registry over the given backend.
// A nil backend is allowed; the registry then advertises no resources
// and reads report backend_not_initialized.
func NewResourceRegistry(backend catalog.Backend, logger *zap.Logger) *ResourceRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	_, product := backendTraits(backend)
	return &ResourceRegistry{backend: backend, product: product, logger: logger}
}

// ListResources returns the fixed catalogs resource plus one resource
// per catalog the backend currently reports.
func (r *ResourceRegistry) ListResources(ctx context.Context) ([]protocol.Resource, error) {
	if r.backend == nil {
		r.logger.Debug("no catalog backend configured, advertising no resources")
		return []protocol.Resource{}, nil
	}

	catalogs, err := r.backend.ListCatalogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalogs for resources: %w", err)
	}

	resources := make([]protocol.Resource, 0, len(catalogs)+1)
	resources = append(resources, protocol.Resource{
		URI:         catalogsURI,
		Name:        r.product + " - Catalogs",
		Description: "List of all catalogs in " + r.product,
		MimeType:    resourceMimeType,
	})
	for _, c := range catalogs {
		resources = append(resources, protocol.Resource{
			URI:         catalogURIPrefix + c.Name,
			Name:        "Catalog: " + c.Name,
			Description: fmt.Sprintf("Schemas in catalog %s", c.Name),
			MimeType:    resourceMimeType,
		})
	}
	return resources, nil
}

// ListResourceTemplates returns the parameterized address forms.
func (r *ResourceRegistry) ListResourceTemplates() []protocol.ResourceTemplate {
	return []protocol.ResourceTemplate{
		{
			URITemplate: catalogURIPrefix + "{catalog}",
			Name:        "Catalog Schemas",
			Description: "Schemas in a specific catalog",
			MimeType:    resourceMimeType,
		},
		{
			URITemplate: tableURIPrefix + "{catalog}/{schema}/{table}",
			Name:        "Table Information",
			Description: "Detailed information about a specific table",
			MimeType:    resourceMimeType,
		},
	}
}

// ReadResource resolves a resource address to its JSON content. Every
// outcome is a content string: unresolvable addresses and backend
// errors come back as failure payloads.
func (r *ResourceRegistry) ReadResource(ctx context.Context, uri string) string {
	if r.backend == nil {
		return marshalPayload(failurePayload{
			Error: "catalog backend not initialized",
			Code:  codeBackendNotInitialized,
		})
	}

	switch {
	case uri == catalogsURI:
		return r.readCatalogs(ctx)
	case strings.HasPrefix(uri, tableURIPrefix):
		parts := strings.Split(strings.TrimPrefix(uri, tableURIPrefix), "/")
		if len(parts) == 3 {
			return r.readTable(ctx, parts[0], parts[1], parts[2])
		}
	case strings.HasPrefix(uri, catalogURIPrefix):
		return r.readCatalogSchemas(ctx, strings.TrimPrefix(uri, catalogURIPrefix))
	}

	return marshalPayload(failurePayload{
		Error: fmt.Sprintf("Invalid resource URI: %s", uri),
		Code:  codeInvalidAddress,
	})
}

func (r *ResourceRegistry) readCatalogs(ctx context.Context) string {
	catalogs, err := r.backend.ListCatalogs(ctx)
	if err != nil {
		return r.readFailure("catalogs", err)
	}
	if catalogs == nil {
		catalogs = []catalog.CatalogInfo{}
	}
	return marshalPayload(listCatalogsOutput{Catalogs: catalogs})
}

func (r *ResourceRegistry) readCatalogSchemas(ctx context.Context, catalogName string) string {
	schemas, err := r.backend.ListSchemas(ctx, catalogName)
	if err != nil {
		return r.readFailure(catalogName, err)
	}
	if schemas == nil {
		schemas = []catalog.SchemaInfo{}
	}
	return marshalPayload(listSchemasOutput{Catalog: catalogName, Schemas: schemas})
}

func (r *ResourceRegistry) readTable(ctx context.Context, catalogName, schemaName, tableName string) string {
	detail, err := r.backend.GetTable(ctx, catalogName, schemaName, tableName)
	if err != nil {
		return r.readFailure(fmt.Sprintf("%s.%s.%s", catalogName, schemaName, tableName), err)
	}
	if detail.Columns == nil {
		detail.Columns = []catalog.ColumnInfo{}
	}
	return marshalPayload(detail)
}

// readFailure embeds a backend error as failure-payload content.
func (r *ResourceRegistry) readFailure(subject string, err error) string {
	r.logger.Error("resource read failed", zap.String("subject", subject), zap.Error(err))
	message, details := errorParts(err)
	return marshalPayload(failurePayload{
		Error:   message,
		Code:    codeBackendError,
		Details: details,
	})
}
