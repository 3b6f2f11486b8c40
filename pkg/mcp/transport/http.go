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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

// HTTPTransport is the client side of the HTTP/SSE transport: requests go
// out as POSTs to /messages and responses stream back over the /sse event
// stream. It pairs with SSEServerTransport.
type HTTPTransport struct {
	endpoint   string
	sseClient  *sse.Client
	httpClient *http.Client

	events chan []byte
	errors chan error

	mu     sync.Mutex
	closed bool

	logger *zap.Logger
}

// HTTPConfig configures the HTTP/SSE client transport.
type HTTPConfig struct {
	// Endpoint is the server base URL, e.g. http://localhost:5016.
	Endpoint string

	// Headers are added to the SSE subscription request.
	Headers map[string]string

	// SSEPath overrides the event stream path (default /sse).
	SSEPath string

	// Logger for transport events.
	Logger *zap.Logger
}

// NewHTTPTransport creates the client transport and subscribes to the
// server's event stream in the background. An unreachable server does not
// fail construction; the first Send reports it instead.
func NewHTTPTransport(config HTTPConfig) (*HTTPTransport, error) {
	if config.SSEPath == "" {
		config.SSEPath = "/sse"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sseClient := sse.NewClient(config.Endpoint + config.SSEPath)
	for k, v := range config.Headers {
		sseClient.Headers[k] = v
	}

	t := &HTTPTransport{
		endpoint:  config.Endpoint,
		sseClient: sseClient,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		events: make(chan []byte, 100),
		errors: make(chan error, 1),
		logger: logger,
	}

	sseClient.OnDisconnect(func(*sse.Client) {
		t.logger.Warn("SSE stream disconnected")
		select {
		case t.errors <- fmt.Errorf("SSE stream disconnected"):
		default:
		}
	})

	go t.subscribe(config.Endpoint + config.SSEPath)

	return t, nil
}

// subscribe attaches to the response stream. Subscription runs off the
// constructor so a down server never blocks startup.
func (t *HTTPTransport) subscribe(streamURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.logger.Debug("subscribing to SSE stream", zap.String("url", streamURL))

	err := t.sseClient.SubscribeWithContext(ctx, sseStreamID, func(msg *sse.Event) {
		select {
		case t.events <- msg.Data:
		case <-ctx.Done():
		}
	})
	if err != nil {
		t.logger.Warn("SSE subscription failed", zap.String("url", streamURL), zap.Error(err))
		return
	}
	t.logger.Info("HTTP/SSE transport connected", zap.String("endpoint", t.endpoint))
}

// Send posts one message to /messages. 200 and 202 both mean accepted; the
// response arrives over the event stream.
func (t *HTTPTransport) Send(ctx context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/messages", bytes.NewReader(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Receive returns the next streamed message.
func (t *HTTPTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err, ok := <-t.errors:
		if !ok {
			return nil, io.EOF
		}
		return nil, err
	case data, ok := <-t.events:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	}
}

// Close tears the client down. Pending Receives drain to io.EOF.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	t.logger.Info("closing HTTP/SSE client transport")
	close(t.events)
	close(t.errors)
	return nil
}
