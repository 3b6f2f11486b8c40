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
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// stdioReadBufferSize bounds one inbound message line.
const stdioReadBufferSize = 1024 * 1024

// lineRead is one line delivered by the reader goroutine.
type lineRead struct {
	data []byte
	err  error
}

// StdioServerTransport frames JSON-RPC messages as single newline-terminated
// lines over a reader/writer pair, typically os.Stdin and os.Stdout.
//
// One reader goroutine runs for the transport's lifetime and feeds lineCh.
// Receive selects over that channel and the caller's context, so a cancelled
// Receive never strands a goroutine mid-read.
type StdioServerTransport struct {
	reader *bufio.Reader
	writer io.Writer

	mu     sync.Mutex // guards writer and closed
	closed bool

	lineCh   chan lineRead
	readOnce sync.Once
}

// NewStdioServerTransport wraps the given reader and writer. Neither is
// closed by the transport; stdin and stdout belong to the process.
func NewStdioServerTransport(r io.Reader, w io.Writer) *StdioServerTransport {
	return &StdioServerTransport{
		reader: bufio.NewReaderSize(r, stdioReadBufferSize),
		writer: w,
		lineCh: make(chan lineRead, 1),
	}
}

// startReader launches the reader goroutine on first use. The goroutine
// exits after delivering its first error, io.EOF included, and closes
// lineCh behind itself.
func (t *StdioServerTransport) startReader() {
	t.readOnce.Do(func() {
		go func() {
			defer close(t.lineCh)
			for {
				line, err := t.reader.ReadBytes('\n')
				t.lineCh <- lineRead{data: line, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// Send writes one message line. The lock orders concurrent sends so response
// and notification lines never interleave.
func (t *StdioServerTransport) Send(_ context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport closed")
	}
	if _, err := t.writer.Write(message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if _, err := t.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Receive returns the next non-empty message line, stripped of its
// newline and any trailing carriage return. Blank lines are skipped.
func (t *StdioServerTransport) Receive(ctx context.Context) ([]byte, error) {
	t.startReader()

	for {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return nil, fmt.Errorf("transport closed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case read, ok := <-t.lineCh:
			if !ok {
				// Reader goroutine already delivered its error and left.
				return nil, io.EOF
			}
			if read.err != nil {
				if read.err == io.EOF {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("read message: %w", read.err)
			}

			line := read.data
			if n := len(line); n > 0 && line[n-1] == '\n' {
				line = line[:n-1]
			}
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			if len(line) == 0 {
				continue
			}
			return line, nil
		}
	}
}

// Close marks the transport closed. The underlying reader and writer stay
// open; the reader goroutine drains out when its source ends.
func (t *StdioServerTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
