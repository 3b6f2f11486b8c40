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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// mockToolProvider implements ToolProvider with canned responses.
type mockToolProvider struct {
	tools     []protocol.Tool
	callTool  func(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult
	callCount int
}

func (m *mockToolProvider) ListTools() []protocol.Tool { return m.tools }

func (m *mockToolProvider) CallTool(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult {
	m.callCount++
	if m.callTool != nil {
		return m.callTool(ctx, name, args)
	}
	return &protocol.CallToolResult{Content: []protocol.Content{protocol.NewTextContent("ok")}}
}

type mockResourceProvider struct {
	resources []protocol.Resource
	templates []protocol.ResourceTemplate
	listErr   error
	read      func(ctx context.Context, uri string) string
}

func (m *mockResourceProvider) ListResources(context.Context) ([]protocol.Resource, error) {
	return m.resources, m.listErr
}

func (m *mockResourceProvider) ListResourceTemplates() []protocol.ResourceTemplate {
	return m.templates
}

func (m *mockResourceProvider) ReadResource(ctx context.Context, uri string) string {
	if m.read != nil {
		return m.read(ctx, uri)
	}
	return `{"content": "for ` + uri + `"}`
}

type mockPromptProvider struct {
	prompts []protocol.Prompt
	get     func(ctx context.Context, name string, args map[string]interface{}) (*protocol.GetPromptResult, error)
}

func (m *mockPromptProvider) ListPrompts() []protocol.Prompt { return m.prompts }

func (m *mockPromptProvider) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*protocol.GetPromptResult, error) {
	if m.get != nil {
		return m.get(ctx, name, args)
	}
	return &protocol.GetPromptResult{
		Messages: []protocol.PromptMessage{{Role: "user", Content: protocol.NewTextContent("hello")}},
	}, nil
}

func newTestServer(t *testing.T, opts ...Option) *MCPServer {
	t.Helper()
	return NewMCPServer("heddle-test", "0.0.1", zaptest.NewLogger(t), opts...)
}

// roundTrip feeds one message through HandleMessage and decodes the response.
func roundTrip(t *testing.T, s *MCPServer, msg string) *protocol.Response {
	t.Helper()
	data, err := s.HandleMessage(context.Background(), []byte(msg))
	require.NoError(t, err)
	require.NotNil(t, data)

	var resp protocol.Response
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, protocol.JSONRPCVersion, resp.JSONRPC)
	return &resp
}

func TestMCPServer_Initialize(t *testing.T) {
	s := newTestServer(t,
		WithToolProvider(&mockToolProvider{}),
		WithResourceProvider(&mockResourceProvider{}),
		WithPromptProvider(&mockPromptProvider{}),
	)

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{
		"protocolVersion":"2024-11-05",
		"clientInfo":{"name":"test-client","version":"1.0.0"},
		"capabilities":{}
	}}`)
	require.Nil(t, resp.Error)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, protocol.ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "heddle-test", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
	require.NotNil(t, result.Capabilities.Resources)
	assert.True(t, result.Capabilities.Resources.ListChanged)
	require.NotNil(t, result.Capabilities.Prompts)
	assert.True(t, result.Capabilities.Prompts.ListChanged)

	info := s.ClientInfo()
	require.NotNil(t, info)
	assert.Equal(t, "test-client", info.Name)
}

func TestMCPServer_InitializeWithoutProviders(t *testing.T) {
	s := newTestServer(t)

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	require.Nil(t, resp.Error)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Nil(t, result.Capabilities.Tools)
	assert.Nil(t, result.Capabilities.Resources)
	assert.Nil(t, result.Capabilities.Prompts)
}

func TestMCPServer_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":"ping-1","method":"ping"}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{}`, string(resp.Result))
}

func TestMCPServer_ParseError(t *testing.T) {
	s := newTestServer(t)
	resp := roundTrip(t, s, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ParseError, resp.Error.Code)
}

func TestMCPServer_InvalidRequest(t *testing.T) {
	s := newTestServer(t)
	resp := roundTrip(t, s, `{"jsonrpc":"1.0","id":1,"method":"ping"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidRequest, resp.Error.Code)
}

func TestMCPServer_MethodNotFound(t *testing.T) {
	s := newTestServer(t)
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/uninstall"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.MethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "tools/uninstall")
}

func TestMCPServer_NotificationsProduceNoResponse(t *testing.T) {
	s := newTestServer(t)

	// Known notification.
	data, err := s.HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.Nil(t, data)

	// Unknown notification is ignored, not answered with MethodNotFound.
	data, err = s.HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","method":"notifications/unknown"}`))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMCPServer_ToolsList(t *testing.T) {
	provider := &mockToolProvider{tools: []protocol.Tool{
		{Name: "execute_sql", Description: "Run SQL", InputSchema: map[string]interface{}{"type": "object"}},
	}}
	s := newTestServer(t, WithToolProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result protocol.ToolListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "execute_sql", result.Tools[0].Name)
}

func TestMCPServer_ToolsCall(t *testing.T) {
	provider := &mockToolProvider{
		callTool: func(_ context.Context, name string, args map[string]interface{}) *protocol.CallToolResult {
			assert.Equal(t, "execute_sql", name)
			assert.Equal(t, "SELECT 1", args["query"])
			return &protocol.CallToolResult{Content: []protocol.Content{protocol.NewTextContent(`{"status":"success"}`)}}
		},
	}
	s := newTestServer(t, WithToolProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{
		"name":"execute_sql","arguments":{"query":"SELECT 1"}
	}}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, provider.callCount)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)
}

func TestMCPServer_ToolsCall_FailureStaysInResult(t *testing.T) {
	// Tool failures ride inside the result envelope; the JSON-RPC layer
	// reports success.
	provider := &mockToolProvider{
		callTool: func(context.Context, string, map[string]interface{}) *protocol.CallToolResult {
			return &protocol.CallToolResult{
				Content: []protocol.Content{protocol.NewTextContent(`{"error":"boom","code":"backend_error"}`)},
				IsError: true,
			}
		},
	}
	s := newTestServer(t, WithToolProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"execute_sql"}}`)
	require.Nil(t, resp.Error)

	var result protocol.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.True(t, result.IsError)
}

func TestMCPServer_ToolsCall_MissingName(t *testing.T) {
	s := newTestServer(t, WithToolProvider(&mockToolProvider{}))
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidParams, resp.Error.Code)
}

func TestMCPServer_ResourcesList(t *testing.T) {
	provider := &mockResourceProvider{resources: []protocol.Resource{
		{URI: "heddle://catalogs", Name: "Catalogs", MimeType: "application/json"},
	}}
	s := newTestServer(t, WithResourceProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)
	require.Nil(t, resp.Error)

	var result protocol.ResourceListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Resources, 1)
	assert.Equal(t, "heddle://catalogs", result.Resources[0].URI)
}

func TestMCPServer_ResourcesRead(t *testing.T) {
	provider := &mockResourceProvider{
		read: func(_ context.Context, uri string) string {
			return `{"catalogs":[]}`
		},
	}
	s := newTestServer(t, WithResourceProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":7,"method":"resources/read","params":{"uri":"heddle://catalogs"}}`)
	require.Nil(t, resp.Error)

	var result protocol.ReadResourceResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "heddle://catalogs", result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MimeType)
	assert.JSONEq(t, `{"catalogs":[]}`, result.Contents[0].Text)
}

func TestMCPServer_ResourcesRead_MissingURI(t *testing.T) {
	s := newTestServer(t, WithResourceProvider(&mockResourceProvider{}))
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":8,"method":"resources/read","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidParams, resp.Error.Code)
}

func TestMCPServer_ResourceTemplatesList(t *testing.T) {
	provider := &mockResourceProvider{templates: []protocol.ResourceTemplate{
		{URITemplate: "heddle://catalog/{catalog}", Name: "Catalog Schemas"},
	}}
	s := newTestServer(t, WithResourceProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":9,"method":"resources/templates/list"}`)
	require.Nil(t, resp.Error)

	var result protocol.ResourceTemplateListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.ResourceTemplates, 1)
}

func TestMCPServer_PromptsGet(t *testing.T) {
	s := newTestServer(t, WithPromptProvider(&mockPromptProvider{}))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":10,"method":"prompts/get","params":{"name":"query-table"}}`)
	require.Nil(t, resp.Error)

	var result protocol.GetPromptResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "user", result.Messages[0].Role)
}

func TestMCPServer_PromptsGet_UnknownName(t *testing.T) {
	provider := &mockPromptProvider{
		get: func(_ context.Context, name string, _ map[string]interface{}) (*protocol.GetPromptResult, error) {
			return nil, &fakeUnknownPrompt{name: name}
		},
	}
	s := newTestServer(t, WithPromptProvider(provider))

	// The unknown name fails this call only; the session stays usable.
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":11,"method":"prompts/get","params":{"name":"nope"}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InvalidParams, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "nope")

	resp = roundTrip(t, s, `{"jsonrpc":"2.0","id":12,"method":"ping"}`)
	assert.Nil(t, resp.Error)
}

type fakeUnknownPrompt struct{ name string }

func (e *fakeUnknownPrompt) Error() string { return "unknown prompt: " + e.name }

func TestMCPServer_HandlerErrorBecomesInternalError(t *testing.T) {
	provider := &mockResourceProvider{listErr: errors.New("backend down")}
	s := newTestServer(t, WithResourceProvider(provider))

	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":13,"method":"resources/list"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.InternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "backend down")
}

func TestMCPServer_NotifyPromptListChanged(t *testing.T) {
	s := newTestServer(t, WithPromptProvider(&mockPromptProvider{}))
	s.NotifyPromptListChanged()

	select {
	case notif := <-s.notifyCh:
		var msg struct {
			JSONRPC string `json:"jsonrpc"`
			Method  string `json:"method"`
			ID      any    `json:"id"`
		}
		require.NoError(t, json.Unmarshal(notif, &msg))
		assert.Equal(t, "notifications/prompts/list_changed", msg.Method)
		assert.Nil(t, msg.ID)
	default:
		t.Fatal("expected a queued notification")
	}
}
