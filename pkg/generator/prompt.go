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
package generator

import (
	"fmt"
	"strings"

	"github.com/teradata-labs/heddle/pkg/catalog"
)

// BuildGroundingPrompt assembles the generation prompt for a question about
// one table. It embeds the table's full name, description, and column
// inventory so the model never has to guess identifiers, and instructs the
// model to answer with bare SQL.
func BuildGroundingPrompt(table *catalog.TableDetail, question, dialect string) string {
	if dialect == "" {
		dialect = "SQL"
	}

	description := table.Comment
	if description == "" {
		description = "No description"
	}

	var schema strings.Builder
	for i, col := range table.Columns {
		if i > 0 {
			schema.WriteString("\n")
		}
		typeText := col.TypeText
		if typeText == "" {
			typeText = col.TypeName
		}
		if typeText == "" {
			typeText = "unknown"
		}
		comment := col.Comment
		if comment == "" {
			comment = "No description"
		}
		fmt.Fprintf(&schema, "- %s (%s): %s", col.Name, typeText, comment)
	}

	return fmt.Sprintf(`Convert this natural language question to a SQL query for %s.

Table: %s
Description: %s

Schema:
%s

Question: %s

Provide only the SQL query without any explanation or markdown formatting.`,
		dialect, table.FullName(), description, schema.String(), question)
}
