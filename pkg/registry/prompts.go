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
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/catalog"
	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// Built-in prompt names.
const (
	promptQueryTable     = "query-table"
	promptAnalyzeData    = "analyze-data"
	promptExploreCatalog = "explore-catalog"
)

// UnknownPromptError reports a prompts/get for a name the registry does not
// carry. It fails that call only, never the session.
type UnknownPromptError struct {
	Name string
}

func (e *UnknownPromptError) Error() string {
	return fmt.Sprintf("unknown prompt: %s", e.Name)
}

// builtinPrompt pairs an advertised descriptor with its template function.
// Templates fill best-effort: absent arguments, required or not, substitute
// the empty string rather than failing the call.
type builtinPrompt struct {
	def    protocol.Prompt
	render func(args map[string]string) string
}

// PromptRegistry advertises named prompt templates and fills them with
// caller-supplied arguments. Built-in templates are fixed at construction;
// an optional overlay set loaded from a YAML directory can add more and is
// the only mutable state, swapped atomically on reload.
type PromptRegistry struct {
	dialect  string
	product  string
	logger   *zap.Logger
	builtins []builtinPrompt
	byName   map[string]*builtinPrompt

	mu      sync.RWMutex
	overlay map[string]*overlayPrompt
}

// NewPromptRegistry builds the prompt catalog. The backend contributes only
// its dialect and product names to the template text; a nil backend gets
// generic wording.
func NewPromptRegistry(backend catalog.Backend, logger *zap.Logger) *PromptRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialect, product := backendTraits(backend)

	r := &PromptRegistry{
		dialect: dialect,
		product: product,
		logger:  logger,
		overlay: map[string]*overlayPrompt{},
	}
	r.builtins = r.builtinDefinitions()
	r.byName = make(map[string]*builtinPrompt, len(r.builtins))
	for i := range r.builtins {
		r.byName[r.builtins[i].def.Name] = &r.builtins[i]
	}
	return r
}

// ListPrompts returns the advertised prompt catalog: built-ins in
// declaration order, then overlay prompts sorted by name.
func (r *PromptRegistry) ListPrompts() []protocol.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompts := make([]protocol.Prompt, 0, len(r.builtins)+len(r.overlay))
	for _, b := range r.builtins {
		prompts = append(prompts, b.def)
	}

	names := make([]string, 0, len(r.overlay))
	for name := range r.overlay {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prompts = append(prompts, r.overlay[name].def)
	}
	return prompts
}

// GetPrompt fills the named template with the supplied arguments and returns
// it as a role-tagged message sequence. An unknown name is an
// UnknownPromptError; missing arguments are filled with the empty string.
func (r *PromptRegistry) GetPrompt(_ context.Context, name string, arguments map[string]interface{}) (*protocol.GetPromptResult, error) {
	args := stringArguments(arguments)

	if b, ok := r.byName[name]; ok {
		return promptResult(b.def.Description, b.render(args)), nil
	}

	r.mu.RLock()
	o, ok := r.overlay[name]
	r.mu.RUnlock()
	if ok {
		return promptResult(o.def.Description, o.render(args)), nil
	}

	return nil, &UnknownPromptError{Name: name}
}

func (r *PromptRegistry) builtinDefinitions() []builtinPrompt {
	return []builtinPrompt{
		{
			def: protocol.Prompt{
				Name:        promptQueryTable,
				Description: "Generate a SQL query for a specific table",
				Arguments: []protocol.PromptArgument{
					{Name: "catalog", Description: "Name of the catalog", Required: true},
					{Name: "schema", Description: "Name of the schema", Required: true},
					{Name: "table", Description: "Name of the table", Required: true},
					{Name: "question", Description: "Question to answer with the query", Required: true},
				},
			},
			render: func(args map[string]string) string {
				return fmt.Sprintf(
					"Generate a SQL query to answer the following question about the table %s.%s.%s: %s\n\n"+
						"Please provide a valid SQL query that can be executed on %s.",
					args["catalog"], args["schema"], args["table"], args["question"], r.dialect)
			},
		},
		{
			def: protocol.Prompt{
				Name:        promptAnalyzeData,
				Description: "Analyze data from a query result",
				Arguments: []protocol.PromptArgument{
					{Name: "data_description", Description: "Description of the data to analyze", Required: true},
				},
			},
			render: func(args map[string]string) string {
				return fmt.Sprintf(
					"Analyze the following data: %s\n\nPlease provide:\n"+
						"1. Key findings\n2. Notable patterns or trends\n3. Recommendations based on the data",
					args["data_description"])
			},
		},
		{
			def: protocol.Prompt{
				Name:        promptExploreCatalog,
				Description: "Explore the structure of the data catalog",
				Arguments: []protocol.PromptArgument{
					{Name: "catalog", Description: "Catalog to focus on (optional)"},
				},
			},
			render: func(args map[string]string) string {
				text := fmt.Sprintf("Explore the %s catalog structure", r.product)
				if c := args["catalog"]; c != "" {
					text += " for catalog: " + c
				}
				return text
			},
		},
	}
}

// promptResult wraps a filled template in the single-user-message shape
// downstream consumers expect.
func promptResult(description, text string) *protocol.GetPromptResult {
	return &protocol.GetPromptResult{
		Description: description,
		Messages: []protocol.PromptMessage{
			{Role: "user", Content: protocol.NewTextContent(text)},
		},
	}
}

// stringArguments flattens a raw argument mapping to trimmed strings.
// Non-string values render with %v; absent keys read as "".
func stringArguments(arguments map[string]interface{}) map[string]string {
	args := make(map[string]string, len(arguments))
	for key, value := range arguments {
		if s, ok := value.(string); ok {
			args[key] = strings.TrimSpace(s)
			continue
		}
		if value != nil {
			args[key] = fmt.Sprintf("%v", value)
		}
	}
	return args
}
