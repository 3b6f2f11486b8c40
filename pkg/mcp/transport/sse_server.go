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

package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

// sseStreamID is the stream clients subscribe to; it matches the event
// stream name the HTTPTransport client expects.
const sseStreamID = "message"

// maxSSEBodyBytes bounds an inbound POST body, mirroring the stdio
// transport's 1MB line buffer.
const maxSSEBodyBytes = 1024 * 1024

// SSEServerTransport implements Transport over HTTP with server-sent
// events: clients stream responses from GET /sse and post requests to
// POST /messages, which returns 202 once the message is queued.
type SSEServerTransport struct {
	sseServer *sse.Server
	mux       *http.ServeMux
	logger    *zap.Logger

	msgCh chan []byte

	mu     sync.Mutex
	closed bool
}

// SSEServerConfig configures the SSE server transport.
type SSEServerConfig struct {
	// QueueSize bounds pending inbound messages (default 16).
	QueueSize int

	// Logger for transport events.
	Logger *zap.Logger
}

// NewSSEServerTransport creates the transport and its HTTP handler. The
// caller mounts Handler() on an http.Server; the transport itself does not
// listen.
func NewSSEServerTransport(config SSEServerConfig) *SSEServerTransport {
	if config.QueueSize <= 0 {
		config.QueueSize = 16
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := sse.New()
	sseServer.AutoReplay = false
	sseServer.CreateStream(sseStreamID)

	t := &SSEServerTransport{
		sseServer: sseServer,
		mux:       http.NewServeMux(),
		logger:    logger,
		msgCh:     make(chan []byte, config.QueueSize),
	}

	t.mux.HandleFunc("/sse", t.handleSSE)
	t.mux.HandleFunc("/messages", t.handleMessages)

	return t
}

// Handler returns the HTTP handler carrying both endpoints.
func (t *SSEServerTransport) Handler() http.Handler {
	return t.mux
}

// handleSSE attaches a client to the response event stream.
func (t *SSEServerTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	// The sse server selects streams by query parameter; pin it so
	// clients subscribing to the bare /sse path land on the right one.
	q := r.URL.Query()
	q.Set("stream", sseStreamID)
	r.URL.RawQuery = q.Encode()

	t.logger.Debug("SSE client connected", zap.String("remote", r.RemoteAddr))
	t.sseServer.ServeHTTP(w, r)
}

// handleMessages accepts one JSON-RPC message per POST and queues it for
// Receive. 202 tells the client to collect the response from the stream.
func (t *SSEServerTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSSEBodyBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}

	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		http.Error(w, "transport closed", http.StatusServiceUnavailable)
		return
	}

	select {
	case t.msgCh <- body:
		w.WriteHeader(http.StatusAccepted)
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
	}
}

// Send publishes a message on the response stream.
func (t *SSEServerTransport) Send(_ context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport closed")
	}

	t.sseServer.Publish(sseStreamID, &sse.Event{Data: message})
	return nil
}

// Receive returns the next posted message.
func (t *SSEServerTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-t.msgCh:
		if !ok {
			return nil, io.EOF
		}
		return msg, nil
	}
}

// Close shuts the event stream down and rejects further posts.
func (t *SSEServerTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	t.logger.Info("closing SSE server transport")
	t.sseServer.Close()
	return nil
}
