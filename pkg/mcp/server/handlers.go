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

package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// resourceMimeType is the content type of every resource this server
// resolves; resource bodies are JSON documents.
const resourceMimeType = "application/json"

// newToolsListHandler creates a handler for tools/list.
func newToolsListHandler(provider ToolProvider) MethodHandler {
	return func(_ context.Context, _ json.RawMessage, _ json.RawMessage) (interface{}, error) {
		return protocol.ToolListResult{Tools: provider.ListTools()}, nil
	}
}

// newToolsCallHandler creates a handler for tools/call. The provider owns
// the failure envelope: every call, including unknown names, comes back as
// a CallToolResult, so the only JSON-RPC errors here are malformed params.
func newToolsCallHandler(provider ToolProvider) MethodHandler {
	return func(ctx context.Context, _ json.RawMessage, params json.RawMessage) (interface{}, error) {
		var callParams protocol.CallToolParams
		if err := json.Unmarshal(params, &callParams); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, fmt.Sprintf("invalid tool call params: %v", err), nil)
		}
		if callParams.Name == "" {
			return nil, protocol.NewError(protocol.InvalidParams, "tool name is required", nil)
		}

		return provider.CallTool(ctx, callParams.Name, callParams.Arguments), nil
	}
}

// newResourcesListHandler creates a handler for resources/list.
func newResourcesListHandler(provider ResourceProvider) MethodHandler {
	return func(ctx context.Context, _ json.RawMessage, _ json.RawMessage) (interface{}, error) {
		resources, err := provider.ListResources(ctx)
		if err != nil {
			return nil, fmt.Errorf("list resources: %w", err)
		}
		return protocol.ResourceListResult{Resources: resources}, nil
	}
}

// newResourceTemplatesListHandler creates a handler for
// resources/templates/list.
func newResourceTemplatesListHandler(provider ResourceProvider) MethodHandler {
	return func(_ context.Context, _ json.RawMessage, _ json.RawMessage) (interface{}, error) {
		return protocol.ResourceTemplateListResult{
			ResourceTemplates: provider.ListResourceTemplates(),
		}, nil
	}
}

// newResourcesReadHandler creates a handler for resources/read. The
// provider returns a content string for every address, resolution failures
// included, so a read never produces a JSON-RPC error past params parsing.
func newResourcesReadHandler(provider ResourceProvider) MethodHandler {
	return func(ctx context.Context, _ json.RawMessage, params json.RawMessage) (interface{}, error) {
		var readParams protocol.ReadResourceParams
		if err := json.Unmarshal(params, &readParams); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, fmt.Sprintf("invalid resource read params: %v", err), nil)
		}
		if readParams.URI == "" {
			return nil, protocol.NewError(protocol.InvalidParams, "resource URI is required", nil)
		}

		text := provider.ReadResource(ctx, readParams.URI)
		return protocol.ReadResourceResult{
			Contents: []protocol.ResourceContents{
				{URI: readParams.URI, MimeType: resourceMimeType, Text: text},
			},
		}, nil
	}
}

// newPromptsListHandler creates a handler for prompts/list.
func newPromptsListHandler(provider PromptProvider) MethodHandler {
	return func(_ context.Context, _ json.RawMessage, _ json.RawMessage) (interface{}, error) {
		return protocol.PromptListResult{Prompts: provider.ListPrompts()}, nil
	}
}

// newPromptsGetHandler creates a handler for prompts/get. An unknown prompt
// name surfaces as an InvalidParams error carrying the provider's message;
// the session continues.
func newPromptsGetHandler(provider PromptProvider) MethodHandler {
	return func(ctx context.Context, _ json.RawMessage, params json.RawMessage) (interface{}, error) {
		var getParams protocol.GetPromptParams
		if err := json.Unmarshal(params, &getParams); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, fmt.Sprintf("invalid prompt get params: %v", err), nil)
		}
		if getParams.Name == "" {
			return nil, protocol.NewError(protocol.InvalidParams, "prompt name is required", nil)
		}

		result, err := provider.GetPrompt(ctx, getParams.Name, getParams.Arguments)
		if err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, err.Error(), nil)
		}
		return result, nil
	}
}
