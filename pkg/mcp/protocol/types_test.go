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
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolVersionConstant(t *testing.T) {
	assert.Equal(t, "2024-11-05", ProtocolVersion)
}

func TestJSONRPCVersionConstant(t *testing.T) {
	assert.Equal(t, "2.0", JSONRPCVersion)
}

func TestTool_MarshalJSON(t *testing.T) {
	tool := Tool{
		Name:        "list_catalogs",
		Description: "List all catalogs available in the workspace",
		InputSchema: map[string]interface{}{
			"type":                 "object",
			"properties":           map[string]interface{}{},
			"additionalProperties": false,
		},
	}

	data, err := json.Marshal(tool)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "list_catalogs", decoded["name"])
	assert.Contains(t, decoded, "inputSchema")
	// No annotations were set, so the key must be absent.
	assert.NotContains(t, decoded, "annotations")
}

func TestTool_MarshalJSON_WithAnnotations(t *testing.T) {
	readOnly := true
	tool := Tool{
		Name:        "execute_query",
		InputSchema: map[string]interface{}{"type": "object"},
		Annotations: &ToolAnnotations{
			Title:        "Execute SQL Query",
			ReadOnlyHint: &readOnly,
		},
	}

	data, err := json.Marshal(tool)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"readOnlyHint":true`)
}

func TestNewTextContent(t *testing.T) {
	content := NewTextContent(`{"status": "success"}`)
	assert.Equal(t, "text", content.Type)
	assert.Equal(t, `{"status": "success"}`, content.Text)

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "data")
	assert.NotContains(t, decoded, "mimeType")
}

func TestNewImageContent(t *testing.T) {
	content := NewImageContent("iVBORw0KGgo=", "image/png")
	assert.Equal(t, "image", content.Type)
	assert.Equal(t, "iVBORw0KGgo=", content.Data)
	assert.Equal(t, "image/png", content.MimeType)

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "image", decoded["type"])
	assert.Equal(t, "image/png", decoded["mimeType"])
	assert.NotContains(t, decoded, "text")
}

func TestCallToolResult_MixedContent(t *testing.T) {
	result := CallToolResult{
		Content: []Content{
			NewTextContent(`{"status": "success", "chart_type": "bar"}`),
			NewImageContent("iVBORw0KGgo=", "image/png"),
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var unmarshaled CallToolResult
	require.NoError(t, json.Unmarshal(data, &unmarshaled))
	require.Len(t, unmarshaled.Content, 2)
	assert.Equal(t, "text", unmarshaled.Content[0].Type)
	assert.Equal(t, "image", unmarshaled.Content[1].Type)
	assert.Equal(t, "iVBORw0KGgo=", unmarshaled.Content[1].Data)
	assert.False(t, unmarshaled.IsError)
}

func TestCallToolResult_ErrorFlag(t *testing.T) {
	result := CallToolResult{
		IsError: true,
		Content: []Content{NewTextContent(`{"error": "table not found"}`)},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isError":true`)
}

func TestInitializeHandshakeRoundTrip(t *testing.T) {
	params := InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ClientCapabilities{},
		ClientInfo:      Implementation{Name: "test-client", Version: "1.0.0"},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)

	var decodedParams InitializeParams
	require.NoError(t, json.Unmarshal(data, &decodedParams))
	assert.Equal(t, ProtocolVersion, decodedParams.ProtocolVersion)
	assert.Equal(t, "test-client", decodedParams.ClientInfo.Name)

	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
			Prompts:   &PromptsCapability{},
		},
		ServerInfo: Implementation{Name: "heddle", Version: "0.1.0"},
	}

	data, err = json.Marshal(result)
	require.NoError(t, err)

	var decodedResult InitializeResult
	require.NoError(t, json.Unmarshal(data, &decodedResult))
	assert.NotNil(t, decodedResult.Capabilities.Tools)
	assert.NotNil(t, decodedResult.Capabilities.Resources)
	assert.NotNil(t, decodedResult.Capabilities.Prompts)
	assert.Equal(t, "heddle", decodedResult.ServerInfo.Name)
}

func TestResource_MarshalJSON(t *testing.T) {
	resource := Resource{
		URI:         "heddle://catalogs",
		Name:        "All Catalogs",
		Description: "List of all catalogs in the workspace",
		MimeType:    "application/json",
	}

	data, err := json.Marshal(resource)
	require.NoError(t, err)

	var unmarshaled Resource
	require.NoError(t, json.Unmarshal(data, &unmarshaled))
	assert.Equal(t, "heddle://catalogs", unmarshaled.URI)
	assert.Equal(t, "application/json", unmarshaled.MimeType)
}

func TestResourceTemplateListResult_WireKey(t *testing.T) {
	result := ResourceTemplateListResult{
		ResourceTemplates: []ResourceTemplate{
			{
				URITemplate: "heddle://table/{catalog}/{schema}/{table}",
				Name:        "Table Details",
				MimeType:    "application/json",
			},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	// The MCP wire key is camelCase.
	require.Contains(t, decoded, "resourceTemplates")
	entries := decoded["resourceTemplates"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "heddle://table/{catalog}/{schema}/{table}", entry["uriTemplate"])
}

func TestReadResourceResult(t *testing.T) {
	result := ReadResourceResult{
		Contents: []ResourceContents{
			{
				URI:      "heddle://catalog/main",
				MimeType: "application/json",
				Text:     `{"catalog": "main", "schemas": []}`,
			},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var unmarshaled ReadResourceResult
	require.NoError(t, json.Unmarshal(data, &unmarshaled))
	require.Len(t, unmarshaled.Contents, 1)
	assert.Equal(t, "heddle://catalog/main", unmarshaled.Contents[0].URI)
	assert.JSONEq(t, `{"catalog": "main", "schemas": []}`, unmarshaled.Contents[0].Text)
}

func TestPrompt_MarshalJSON(t *testing.T) {
	prompt := Prompt{
		Name:        "query-table",
		Description: "Generate a query for a specific table",
		Arguments: []PromptArgument{
			{Name: "catalog", Description: "Catalog name", Required: true},
			{Name: "question", Description: "Question to answer", Required: true},
		},
	}

	data, err := json.Marshal(prompt)
	require.NoError(t, err)

	var unmarshaled Prompt
	require.NoError(t, json.Unmarshal(data, &unmarshaled))
	assert.Equal(t, "query-table", unmarshaled.Name)
	require.Len(t, unmarshaled.Arguments, 2)
	assert.True(t, unmarshaled.Arguments[0].Required)
}

func TestGetPromptResult_TypedContent(t *testing.T) {
	result := GetPromptResult{
		Description: "Query generation prompt",
		Messages: []PromptMessage{
			{Role: "user", Content: NewTextContent("Write a query against main.sales.orders")},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var unmarshaled GetPromptResult
	require.NoError(t, json.Unmarshal(data, &unmarshaled))
	require.Len(t, unmarshaled.Messages, 1)
	assert.Equal(t, "user", unmarshaled.Messages[0].Role)
	assert.Equal(t, "text", unmarshaled.Messages[0].Content.Type)
	assert.Contains(t, unmarshaled.Messages[0].Content.Text, "main.sales.orders")
}
