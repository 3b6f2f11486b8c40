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

import "github.com/teradata-labs/heddle/pkg/catalog"

// backendTraits resolves the SQL dialect and product name advertised by a
// backend's capabilities, with generic fallbacks for nil backends and
// backends that leave capabilities unset.
func backendTraits(backend catalog.Backend) (dialect, product string) {
	dialect = "SQL"
	product = "Data Catalog"
	if backend == nil {
		return dialect, product
	}
	caps := backend.Capabilities()
	if caps == nil {
		return dialect, product
	}
	if caps.SQLDialect != "" {
		dialect = caps.SQLDialect
	}
	if caps.Product != "" {
		product = caps.Product
	}
	return dialect, product
}
