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

// Package bedrock implements generator.Generator against Claude models
// hosted on AWS Bedrock, using the Anthropic SDK's Bedrock backend for
// request signing and endpoint resolution.
package bedrock

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"go.uber.org/zap"

	"github.com/teradata-labs/heddle/pkg/generator"
)

const (
	// DefaultModelID is the default Bedrock inference profile for SQL
	// generation.
	DefaultModelID = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	// DefaultRegion is the default AWS region.
	DefaultRegion = "us-west-2"
	// DefaultMaxTokens bounds the generated statement length.
	DefaultMaxTokens = 1024
)

// Config holds configuration for the Bedrock generator.
type Config struct {
	// ModelID selects the Bedrock model. Empty falls back to
	// AWS_BEDROCK_MODEL_ID, then DefaultModelID.
	ModelID string

	// Region selects the AWS region. Empty falls back to
	// AWS_DEFAULT_REGION, then DefaultRegion.
	Region string

	// AccessKeyID and SecretAccessKey, when both set, are used as static
	// credentials. SessionToken is optional alongside them.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Profile names a shared-config profile. Used only when static
	// credentials are absent; empty means the default credential chain.
	Profile string

	// MaxTokens caps the response length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature, when positive, is passed to the API. Zero leaves the
	// API default in place.
	Temperature float64

	// Logger for generation operations.
	Logger *zap.Logger
}

// Client implements generator.Generator for Claude on AWS Bedrock.
type Client struct {
	client      anthropic.Client
	modelID     string
	region      string
	maxTokens   int64
	temperature float64
	logger      *zap.Logger
}

// NewClient creates a Bedrock generator client. Credentials resolve in
// order: static keys from Config, the named profile, then the default
// AWS credential chain.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ModelID == "" {
		if envModel := os.Getenv("AWS_BEDROCK_MODEL_ID"); envModel != "" {
			cfg.ModelID = envModel
		} else {
			cfg.ModelID = DefaultModelID
		}
	}
	if cfg.Region == "" {
		if envRegion := os.Getenv("AWS_DEFAULT_REGION"); envRegion != "" {
			cfg.Region = envRegion
		} else {
			cfg.Region = DefaultRegion
		}
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var awsCfg aws.Config
	var err error
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				cfg.SessionToken,
			)),
		)
	} else if cfg.Profile != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithSharedConfigProfile(cfg.Profile),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		client:      anthropic.NewClient(bedrock.WithConfig(awsCfg)),
		modelID:     cfg.ModelID,
		region:      cfg.Region,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}, nil
}

// GenerateSQL sends the grounded prompt as a single user message and
// returns the model's text output, trimmed.
func (c *Client) GenerateSQL(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating sql",
		zap.String("model_id", c.modelID),
		zap.String("region", c.region),
		zap.Int("prompt_tokens_est", generator.EstimateTokens(prompt)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelID),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("bedrock invocation failed: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned no text content")
	}

	c.logger.Debug("sql generated",
		zap.Int64("input_tokens", message.Usage.InputTokens),
		zap.Int64("output_tokens", message.Usage.OutputTokens))

	return text, nil
}

var _ generator.Generator = (*Client)(nil)
