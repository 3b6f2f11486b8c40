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

// Package server implements the Model Context Protocol dispatch server:
// a JSON-RPC method dispatcher over a Transport, parameterized by provider
// interfaces for tools, resources, and prompts. One server instance serves
// one session; registries plugged in as providers are read-only after
// construction.
package server

import (
	"context"

	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// ToolProvider supplies the tool catalog and routes tool calls. CallTool
// never returns an error: every outcome, including routing misses and
// collaborator failures, is a CallToolResult envelope.
type ToolProvider interface {
	// ListTools returns the advertised tool catalog.
	ListTools() []protocol.Tool

	// CallTool invokes a tool by name with the given arguments.
	CallTool(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult
}

// ResourceProvider supplies addressable read-only resources.
type ResourceProvider interface {
	// ListResources returns the currently addressable resources. The list
	// may depend on backend state and change between calls.
	ListResources(ctx context.Context) ([]protocol.Resource, error)

	// ListResourceTemplates returns the parameterized address forms.
	ListResourceTemplates() []protocol.ResourceTemplate

	// ReadResource resolves an address to a content string. Failures are
	// encoded in the content itself; every read yields some content.
	ReadResource(ctx context.Context, uri string) string
}

// PromptProvider supplies named prompt templates.
type PromptProvider interface {
	// ListPrompts returns the advertised prompt catalog.
	ListPrompts() []protocol.Prompt

	// GetPrompt fills the named template. An unknown name is an error,
	// fatal to the call only.
	GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*protocol.GetPromptResult, error)
}
