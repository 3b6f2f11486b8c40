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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teradata-labs/heddle/internal/version"
)

var (
	cfgFile string
	config  *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "heddle",
	Short:   "Heddle - MCP server for lakehouse data catalogs",
	Long:    `Heddle exposes a lakehouse data catalog over the Model Context Protocol: catalog browsing, SQL execution, natural-language querying, and chart rendering for LLM agents.`,
	Version: version.Get(),
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.heddle/heddle.yaml)")

	// Backend flags
	rootCmd.PersistentFlags().String("backend", "databricks", "catalog backend (databricks, sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().String("databricks-host", "", "Databricks workspace URL (or DATABRICKS_HOST)")
	rootCmd.PersistentFlags().String("databricks-token", "", "Databricks access token (or keyring/env)")
	rootCmd.PersistentFlags().String("warehouse-id", "", "default SQL warehouse ID (or DATABRICKS_WAREHOUSE_ID)")
	rootCmd.PersistentFlags().String("dsn", "", "connection string for SQL database backends")

	// Generator flags
	rootCmd.PersistentFlags().String("generator", "anthropic", "SQL generator provider (anthropic, bedrock, none)")
	rootCmd.PersistentFlags().String("anthropic-key", "", "Anthropic API key (or use keyring/env)")
	rootCmd.PersistentFlags().String("anthropic-model", "", "Claude model for SQL generation")

	// Prompt overlay flags
	rootCmd.PersistentFlags().String("prompts-dir", "", "directory of YAML overlay prompts (hot-reloaded)")

	// Logging flags
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path (default: stderr; never stdout)")

	// Bind flags to viper
	_ = viper.BindPFlag("backend.type", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("backend.databricks_host", rootCmd.PersistentFlags().Lookup("databricks-host"))
	_ = viper.BindPFlag("backend.databricks_token", rootCmd.PersistentFlags().Lookup("databricks-token"))
	_ = viper.BindPFlag("backend.warehouse_id", rootCmd.PersistentFlags().Lookup("warehouse-id"))
	_ = viper.BindPFlag("backend.dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	_ = viper.BindPFlag("generator.provider", rootCmd.PersistentFlags().Lookup("generator"))
	_ = viper.BindPFlag("generator.anthropic_api_key", rootCmd.PersistentFlags().Lookup("anthropic-key"))
	_ = viper.BindPFlag("generator.anthropic_model", rootCmd.PersistentFlags().Lookup("anthropic-model"))

	_ = viper.BindPFlag("prompts.dir", rootCmd.PersistentFlags().Lookup("prompts-dir"))

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}
