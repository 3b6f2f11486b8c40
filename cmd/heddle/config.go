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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	// ServiceName for keyring storage
	ServiceName = "heddle"

	// DefaultConfigFileName without extension
	DefaultConfigFileName = "heddle"
)

// Config is the full heddle configuration, loaded from file, environment,
// flags, and keyring (in ascending precedence for flags/env, keyring last
// as a fallback for empty secrets).
type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// BackendConfig selects and configures the catalog backend.
type BackendConfig struct {
	// Type is "databricks", "sqlite", "postgres", or "mysql".
	Type string `mapstructure:"type"`

	DatabricksHost    string `mapstructure:"databricks_host"`
	DatabricksToken   string `mapstructure:"databricks_token"` // From CLI/env/keyring only
	DatabricksProfile string `mapstructure:"databricks_profile"`

	// WarehouseID is the default SQL warehouse for statement execution.
	WarehouseID string `mapstructure:"warehouse_id"`

	// DSN is the connection string for SQL database backends.
	DSN string `mapstructure:"dsn"`

	// HealthSchedule is the cron cadence for background health probes.
	// Empty disables the monitor.
	HealthSchedule string `mapstructure:"health_schedule"`
}

// GeneratorConfig selects and configures the SQL generator.
type GeneratorConfig struct {
	// Provider is "anthropic", "bedrock", or "none".
	Provider string `mapstructure:"provider"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"` // From CLI/env/keyring only
	AnthropicModel  string `mapstructure:"anthropic_model"`

	BedrockRegion          string `mapstructure:"bedrock_region"`
	BedrockModelID         string `mapstructure:"bedrock_model_id"`
	BedrockAccessKeyID     string `mapstructure:"bedrock_access_key_id"`     // From CLI/env/keyring only
	BedrockSecretAccessKey string `mapstructure:"bedrock_secret_access_key"` // From CLI/env/keyring only
	BedrockSessionToken    string `mapstructure:"bedrock_session_token"`     // From CLI/env/keyring only

	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// ServeConfig configures the transport.
type ServeConfig struct {
	// Transport is "stdio" or "sse".
	Transport string `mapstructure:"transport"`

	// HTTPAddr is the listen address for the SSE transport.
	HTTPAddr string `mapstructure:"http_addr"`
}

// PromptsConfig configures the overlay prompt set.
type PromptsConfig struct {
	// Dir is a directory of YAML overlay prompts. Empty disables overlays.
	Dir string `mapstructure:"dir"`

	// HotReload swaps the overlay set when files change.
	HotReload bool `mapstructure:"hot_reload"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LoadConfig loads configuration from file, environment, and keyring.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".heddle"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(DefaultConfigFileName) // heddle.yaml
		viper.SetConfigType("yaml")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
		// Missing config file is fine: env, flags, and defaults carry it.
	}

	viper.SetEnvPrefix("HEDDLE")
	viper.AutomaticEnv()

	// Vendor-conventional variables bound explicitly so existing
	// environments work without the HEDDLE_ prefix.
	_ = viper.BindEnv("backend.databricks_host", "HEDDLE_BACKEND_DATABRICKS_HOST", "DATABRICKS_HOST")
	_ = viper.BindEnv("backend.databricks_token", "HEDDLE_BACKEND_DATABRICKS_TOKEN", "DATABRICKS_TOKEN")
	_ = viper.BindEnv("backend.warehouse_id", "HEDDLE_BACKEND_WAREHOUSE_ID", "DATABRICKS_WAREHOUSE_ID")
	_ = viper.BindEnv("generator.anthropic_api_key", "HEDDLE_GENERATOR_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Load secrets from keyring if not provided via CLI/env/config.
	// Non-fatal: keyring might not be available.
	_ = loadSecretsFromKeyring(&config)

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("backend.type", "databricks")
	viper.SetDefault("backend.health_schedule", "")

	viper.SetDefault("generator.provider", "anthropic")
	viper.SetDefault("generator.bedrock_region", "us-west-2")
	viper.SetDefault("generator.max_tokens", 1024)

	viper.SetDefault("serve.transport", "stdio")
	viper.SetDefault("serve.http_addr", "localhost:5016")

	viper.SetDefault("prompts.hot_reload", true)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}

// SecretMapping defines how to load a secret from keyring into the config.
type SecretMapping struct {
	KeyringKey string
	Setter     func(*Config, string)
	IsSet      func(*Config) bool // Returns true if the value is already set (skip keyring lookup)
}

// GetSecretMappings returns all secret mappings for the application.
func GetSecretMappings() []SecretMapping {
	return []SecretMapping{
		{
			KeyringKey: "databricks_token",
			Setter:     func(c *Config, val string) { c.Backend.DatabricksToken = val },
			IsSet:      func(c *Config) bool { return c.Backend.DatabricksToken != "" },
		},
		{
			KeyringKey: "anthropic_api_key",
			Setter:     func(c *Config, val string) { c.Generator.AnthropicAPIKey = val },
			IsSet:      func(c *Config) bool { return c.Generator.AnthropicAPIKey != "" },
		},
		{
			KeyringKey: "bedrock_access_key_id",
			Setter:     func(c *Config, val string) { c.Generator.BedrockAccessKeyID = val },
			IsSet:      func(c *Config) bool { return c.Generator.BedrockAccessKeyID != "" },
		},
		{
			KeyringKey: "bedrock_secret_access_key",
			Setter:     func(c *Config, val string) { c.Generator.BedrockSecretAccessKey = val },
			IsSet:      func(c *Config) bool { return c.Generator.BedrockSecretAccessKey != "" },
		},
		{
			KeyringKey: "bedrock_session_token",
			Setter:     func(c *Config, val string) { c.Generator.BedrockSessionToken = val },
			IsSet:      func(c *Config) bool { return c.Generator.BedrockSessionToken != "" },
		},
	}
}

// loadSecretsFromKeyring loads secrets from the system keyring using the
// secret mappings. Values already set from CLI/env/config win.
func loadSecretsFromKeyring(config *Config) error {
	for _, mapping := range GetSecretMappings() {
		if mapping.IsSet(config) {
			continue
		}
		value, err := GetSecretFromKeyring(mapping.KeyringKey)
		if err == nil && value != "" {
			mapping.Setter(config, value)
		}
		// Non-fatal: if keyring doesn't have the key, just continue
	}
	return nil
}

// GetSecretFromKeyring retrieves a secret from the system keyring.
func GetSecretFromKeyring(key string) (string, error) {
	return keyring.Get(ServiceName, key)
}

// SaveSecretToKeyring saves a secret to the system keyring.
func SaveSecretToKeyring(key, value string) error {
	return keyring.Set(ServiceName, key, value)
}

// DeleteSecretFromKeyring removes a secret from the system keyring.
func DeleteSecretFromKeyring(key string) error {
	return keyring.Delete(ServiceName, key)
}

// ListAvailableSecretKeys returns all known secret keys that can be stored
// in the keyring.
func ListAvailableSecretKeys() []string {
	mappings := GetSecretMappings()
	keys := make([]string, len(mappings))
	for i, mapping := range mappings {
		keys[i] = mapping.KeyringKey
	}
	return keys
}
