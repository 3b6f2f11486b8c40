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

// Package anthropic implements generator.Generator against the Anthropic
// Messages API using the official SDK.
package anthropic

import (
	"context"
	"fmt"
	"os"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/generator"
)

const (
	// DefaultModel is the default Claude model for SQL generation.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultMaxTokens bounds the generated statement length. SQL for a
	// single question fits comfortably; anything longer is a runaway.
	DefaultMaxTokens = 1024
)

// Config holds configuration for the Anthropic generator.
type Config struct {
	// APIKey authenticates against the Anthropic API. Empty falls back to
	// the ANTHROPIC_API_KEY environment variable.
	APIKey string

	// Model selects the Claude model. Empty falls back to
	// ANTHROPIC_DEFAULT_MODEL, then DefaultModel.
	Model string

	// MaxTokens caps the response length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature, when positive, is passed to the API. Zero leaves the
	// API default in place.
	Temperature float64

	// Logger for generation operations.
	Logger *zap.Logger
}

// Client implements generator.Generator for Anthropic's Claude API.
type Client struct {
	client      sdk.Client
	model       string
	maxTokens   int64
	temperature float64
	logger      *zap.Logger
}

// NewClient creates an Anthropic generator client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY)")
	}
	if cfg.Model == "" {
		if envModel := os.Getenv("ANTHROPIC_DEFAULT_MODEL"); envModel != "" {
			cfg.Model = envModel
		} else {
			cfg.Model = DefaultModel
		}
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		client:      sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}, nil
}

// GenerateSQL sends the grounded prompt as a single user message and
// returns the model's text output, trimmed.
func (c *Client) GenerateSQL(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating sql",
		zap.String("model", c.model),
		zap.Int("prompt_tokens_est", generator.EstimateTokens(prompt)))

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = sdk.Float(c.temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic invocation failed: %w", err)
	}

	text := textContent(message)
	if text == "" {
		return "", fmt.Errorf("model returned no text content")
	}

	c.logger.Debug("sql generated",
		zap.Int64("input_tokens", message.Usage.InputTokens),
		zap.Int64("output_tokens", message.Usage.OutputTokens))

	return text, nil
}

// textContent concatenates the text blocks of a response, trimmed of
// surrounding whitespace.
func textContent(message *sdk.Message) string {
	var out string
	for _, block := range message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return strings.TrimSpace(out)
}

var _ generator.Generator = (*Client)(nil)
