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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/teradata-labs/heddle/internal/version"
	"github.com/teradata-labs/heddle/pkg/catalog"
	"github.com/teradata-labs/heddle/pkg/catalog/databricks"
	"github.com/teradata-labs/heddle/pkg/catalog/sqldb"
	"github.com/teradata-labs/heddle/pkg/charts"
	"github.com/teradata-labs/heddle/pkg/charts/gonum"
	"github.com/teradata-labs/heddle/pkg/generator"
	"github.com/teradata-labs/heddle/pkg/generator/anthropic"
	"github.com/teradata-labs/heddle/pkg/generator/bedrock"
	"github.com/teradata-labs/heddle/pkg/mcp/server"
	"github.com/teradata-labs/heddle/pkg/mcp/transport"
	"github.com/teradata-labs/heddle/pkg/registry"
)

const serverName = "heddle"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: heredoc.Doc(`
		Start the heddle MCP server.

		The server connects to the configured catalog backend, builds the
		tool, resource, and prompt catalogs, and serves the Model Context
		Protocol on the selected transport.

		With the stdio transport (the default), stdout carries the protocol;
		all logging goes to stderr or the configured log file.
	`),
	Example: heredoc.Doc(`
		# Serve a Databricks workspace over stdio
		DATABRICKS_HOST=https://adb-123.azuredatabricks.net \
		DATABRICKS_TOKEN=dapi... heddle serve

		# Serve a local SQLite database over HTTP/SSE
		heddle serve --backend sqlite --dsn ./analytics.db --transport sse
	`),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("transport", "", "transport (stdio, sse); overrides config")
	serveCmd.Flags().String("http-addr", "", "listen address for the sse transport; overrides config")
	serveCmd.Flags().Bool("check-backend", false, "fail startup when the backend is unreachable")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := buildLogger(config.Logging.File, config.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	transportKind := config.Serve.Transport
	if flagVal, _ := cmd.Flags().GetString("transport"); flagVal != "" {
		transportKind = flagVal
	}
	httpAddr := config.Serve.HTTPAddr
	if flagVal, _ := cmd.Flags().GetString("http-addr"); flagVal != "" {
		httpAddr = flagVal
	}

	logger.Info("starting heddle",
		zap.String("version", version.Get()),
		zap.String("backend", config.Backend.Type),
		zap.String("transport", transportKind),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	// Collaborators. The registries receive ready handles and never read
	// configuration themselves.
	backend, err := buildBackend(ctx, logger)
	if err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	if backend != nil {
		defer func() { _ = backend.Close() }()
	}

	if checkBackend, _ := cmd.Flags().GetBool("check-backend"); checkBackend && backend != nil {
		if err := backend.Ping(ctx); err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
	}

	gen, err := buildGenerator(ctx, logger)
	if err != nil {
		// A missing generator disables query_natural_language only.
		logger.Warn("SQL generator unavailable", zap.Error(err))
		gen = nil
	}

	var renderer charts.Renderer = gonum.NewRenderer(gonum.Config{Logger: logger.Named("charts")})

	// Registries.
	toolReg := registry.NewToolRegistry(backend, gen, renderer,
		registry.ToolConfig{DefaultWarehouseID: config.Backend.WarehouseID},
		logger.Named("tools"))
	resourceReg := registry.NewResourceRegistry(backend, logger.Named("resources"))
	promptReg := registry.NewPromptRegistry(backend, logger.Named("prompts"))

	if config.Prompts.Dir != "" {
		if err := promptReg.LoadOverlay(config.Prompts.Dir); err != nil {
			return fmt.Errorf("prompt overlay: %w", err)
		}
	}

	mcpServer := server.NewMCPServer(serverName, version.Get(), logger.Named("mcp"),
		server.WithToolProvider(toolReg),
		server.WithResourceProvider(resourceReg),
		server.WithPromptProvider(promptReg),
	)

	if config.Prompts.Dir != "" && config.Prompts.HotReload {
		watcher, err := registry.NewOverlayWatcher(promptReg, config.Prompts.Dir,
			mcpServer.NotifyPromptListChanged, logger.Named("overlay"))
		if err != nil {
			return fmt.Errorf("prompt overlay watcher: %w", err)
		}
		watcher.Start(ctx)
		defer func() { _ = watcher.Close() }()
	}

	if backend != nil && config.Backend.HealthSchedule != "" {
		monitor, err := catalog.NewMonitor(backend, config.Backend.HealthSchedule, logger.Named("health"))
		if err != nil {
			return fmt.Errorf("health monitor: %w", err)
		}
		monitor.Start()
		defer monitor.Stop()
	}

	switch transportKind {
	case "stdio":
		return serveStdio(ctx, mcpServer, logger)
	case "sse":
		return serveSSE(ctx, mcpServer, httpAddr, logger)
	default:
		return fmt.Errorf("unknown transport %q (expected stdio or sse)", transportKind)
	}
}

func serveStdio(ctx context.Context, mcpServer *server.MCPServer, logger *zap.Logger) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "heddle serve: stdio transport started on a terminal; this command is meant to be launched by an MCP client")
	}

	stdioTransport := transport.NewStdioServerTransport(os.Stdin, os.Stdout)
	logger.Info("MCP server ready on stdio")

	return reportServeOutcome(ctx, mcpServer.Serve(ctx, stdioTransport), logger)
}

func serveSSE(ctx context.Context, mcpServer *server.MCPServer, addr string, logger *zap.Logger) error {
	sseTransport := transport.NewSSEServerTransport(transport.SSEServerConfig{Logger: logger.Named("sse")})
	defer func() { _ = sseTransport.Close() }()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           sseTransport.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("MCP server ready on HTTP/SSE", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	return reportServeOutcome(ctx, mcpServer.Serve(ctx, sseTransport), logger)
}

// reportServeOutcome maps a cancelled context to a clean exit.
func reportServeOutcome(ctx context.Context, err error, logger *zap.Logger) error {
	if err != nil && ctx.Err() == nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func buildBackend(ctx context.Context, logger *zap.Logger) (catalog.Backend, error) {
	switch config.Backend.Type {
	case "databricks":
		return databricks.NewBackend(ctx, databricks.Config{
			Host:    config.Backend.DatabricksHost,
			Token:   config.Backend.DatabricksToken,
			Profile: config.Backend.DatabricksProfile,
			Logger:  logger.Named("databricks"),
		})
	case "sqlite", "postgres", "mysql":
		return sqldb.NewBackend(ctx, sqldb.Config{
			Driver: config.Backend.Type,
			DSN:    config.Backend.DSN,
			Logger: logger.Named("sqldb"),
		})
	default:
		return nil, fmt.Errorf("unknown backend type %q", config.Backend.Type)
	}
}

func buildGenerator(ctx context.Context, logger *zap.Logger) (generator.Generator, error) {
	switch config.Generator.Provider {
	case "none", "":
		return nil, nil
	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:      config.Generator.AnthropicAPIKey,
			Model:       config.Generator.AnthropicModel,
			MaxTokens:   config.Generator.MaxTokens,
			Temperature: config.Generator.Temperature,
			Logger:      logger.Named("anthropic"),
		})
	case "bedrock":
		return bedrock.NewClient(ctx, bedrock.Config{
			ModelID:         config.Generator.BedrockModelID,
			Region:          config.Generator.BedrockRegion,
			AccessKeyID:     config.Generator.BedrockAccessKeyID,
			SecretAccessKey: config.Generator.BedrockSecretAccessKey,
			SessionToken:    config.Generator.BedrockSessionToken,
			MaxTokens:       config.Generator.MaxTokens,
			Temperature:     config.Generator.Temperature,
			Logger:          logger.Named("bedrock"),
		})
	default:
		return nil, fmt.Errorf("unknown generator provider %q", config.Generator.Provider)
	}
}

// buildLogger creates a zap logger that writes to a file, or stderr when no
// file is configured. The logger must NEVER write to stdout: stdout is the
// MCP stdio transport.
func buildLogger(logFile, logLevel string) (*zap.Logger, error) {
	level := parseLogLevel(logLevel)

	var output zapcore.WriteSyncer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- log file path from config
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		output = zapcore.AddSync(f)
	} else {
		output = zapcore.AddSync(os.Stderr)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		output,
		level,
	)

	return zap.New(core), nil
}

// parseLogLevel converts a string log level to a zapcore.Level.
func parseLogLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
