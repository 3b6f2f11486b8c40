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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
	"github.com/teradata-labs/heddle/pkg/mcp/transport"
)

// stdioSession drives a served MCP server over an in-memory stdio transport,
// the way a desktop client would over a child process's pipes.
type stdioSession struct {
	in     io.WriteCloser
	out    *bufio.Reader
	cancel context.CancelFunc
	done   chan error
}

func startStdioSession(t *testing.T, s *MCPServer) *stdioSession {
	t.Helper()

	clientToServer, serverIn := io.Pipe()
	serverOut, serverToClient := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, transport.NewStdioServerTransport(clientToServer, serverToClient))
	}()

	session := &stdioSession{
		in:     serverIn,
		out:    bufio.NewReader(serverOut),
		cancel: cancel,
		done:   done,
	}
	t.Cleanup(func() {
		cancel()
		_ = serverIn.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("serve loop did not stop")
		}
	})
	return session
}

func (c *stdioSession) send(t *testing.T, msg string) {
	t.Helper()
	_, err := c.in.Write([]byte(msg + "\n"))
	require.NoError(t, err)
}

func (c *stdioSession) receive(t *testing.T) *protocol.Response {
	t.Helper()
	line, err := c.out.ReadBytes('\n')
	require.NoError(t, err)

	var resp protocol.Response
	require.NoError(t, json.Unmarshal(line, &resp))
	return &resp
}

func TestServe_FullSession(t *testing.T) {
	tools := &mockToolProvider{tools: []protocol.Tool{
		{Name: "list_catalogs", Description: "List catalogs", InputSchema: map[string]interface{}{"type": "object"}},
	}}
	s := newTestServer(t,
		WithToolProvider(tools),
		WithResourceProvider(&mockResourceProvider{}),
		WithPromptProvider(&mockPromptProvider{}),
	)
	session := startStdioSession(t, s)

	// initialize
	session.send(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"it","version":"0"},"capabilities":{}}}`)
	resp := session.receive(t)
	require.Nil(t, resp.Error)
	var init protocol.InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &init))
	assert.Equal(t, protocol.ProtocolVersion, init.ProtocolVersion)

	// initialized notification: no response; the next reply must belong to
	// the following request.
	session.send(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	session.send(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	resp = session.receive(t)
	require.Nil(t, resp.Error)
	var list protocol.ToolListResult
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	require.Len(t, list.Tools, 1)

	session.send(t, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"list_catalogs"}}`)
	resp = session.receive(t)
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, tools.callCount)

	// A malformed line gets a parse error without ending the session.
	session.send(t, `{broken`)
	resp = session.receive(t)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ParseError, resp.Error.Code)

	session.send(t, `{"jsonrpc":"2.0","id":4,"method":"ping"}`)
	resp = session.receive(t)
	assert.Nil(t, resp.Error)
}

func TestServe_NotificationDelivery(t *testing.T) {
	s := newTestServer(t, WithPromptProvider(&mockPromptProvider{}))
	session := startStdioSession(t, s)

	// Wake the serve loop with a request first so the session is live.
	session.send(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	session.receive(t)

	s.NotifyPromptListChanged()

	line, err := session.out.ReadBytes('\n')
	require.NoError(t, err)
	var notif struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		ID      json.RawMessage `json:"id"`
	}
	require.NoError(t, json.Unmarshal(line, &notif))
	assert.Equal(t, "notifications/prompts/list_changed", notif.Method)
	assert.Nil(t, notif.ID)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(t)

	clientToServer, _ := io.Pipe()
	_, serverToClient := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, transport.NewStdioServerTransport(clientToServer, serverToClient))
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop on cancel")
	}
}

func TestServe_StopsOnEOF(t *testing.T) {
	s := newTestServer(t)

	clientToServer, serverIn := io.Pipe()
	_, serverToClient := io.Pipe()

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(context.Background(), transport.NewStdioServerTransport(clientToServer, serverToClient))
	}()

	require.NoError(t, serverIn.Close())
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop on EOF")
	}
}
