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

// Package transport carries JSON-RPC messages between an MCP client and the
// server's dispatch loop. Two server transports exist: newline-framed stdio
// for desktop clients that spawn the server as a child process, and HTTP
// with server-sent events for network deployments.
package transport

import "context"

// Transport moves whole JSON-RPC messages. Framing is the transport's
// concern; callers hand over and receive complete message payloads.
type Transport interface {
	// Send delivers one message to the peer.
	Send(ctx context.Context, message []byte) error

	// Receive blocks until the next message arrives, the context is
	// cancelled, or the transport ends (io.EOF).
	Receive(ctx context.Context) ([]byte, error)

	// Close releases the transport. Further sends and receives fail.
	Close() error
}
