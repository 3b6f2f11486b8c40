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
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zap.InfoLevel, parseLogLevel("info"))
	assert.Equal(t, zap.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zap.ErrorLevel, parseLogLevel("error"))
	// Unknown levels fall back to info rather than failing startup.
	assert.Equal(t, zap.InfoLevel, parseLogLevel("verbose"))
	assert.Equal(t, zap.InfoLevel, parseLogLevel(""))
}

func TestBuildLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heddle.log")

	logger, err := buildLogger(path, "debug")
	require.NoError(t, err)
	logger.Info("started", zap.String("transport", "stdio"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, string(data), `"transport":"stdio"`)
}

func TestBuildLogger_BadPath(t *testing.T) {
	_, err := buildLogger(filepath.Join(t.TempDir(), "missing", "heddle.log"), "info")
	require.Error(t, err)
}

func TestBuildBackend_UnknownType(t *testing.T) {
	config = &Config{Backend: BackendConfig{Type: "oracle"}}
	t.Cleanup(func() { config = nil })

	_, err := buildBackend(t.Context(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
