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
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with secrets redacted",
	RunE:  runConfigShow,
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key>",
	Short: "Store a secret in the system keyring",
	Long: heredoc.Doc(`
		Store a secret in the system keyring under the heddle service.

		The value is read from the terminal without echo. Secrets in the
		keyring are used only when the same key is not provided via flag,
		environment, or config file.
	`),
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetSecret,
}

var configDeleteSecretCmd = &cobra.Command{
	Use:   "delete-secret <key>",
	Short: "Remove a secret from the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigDeleteSecret,
}

var configListSecretsCmd = &cobra.Command{
	Use:   "list-secrets",
	Short: "List the secret keys heddle can store",
	RunE:  runConfigListSecrets,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetSecretCmd, configDeleteSecretCmd, configListSecretsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	redacted := *config
	redacted.Backend.DatabricksToken = redactSecret(redacted.Backend.DatabricksToken)
	redacted.Generator.AnthropicAPIKey = redactSecret(redacted.Generator.AnthropicAPIKey)
	redacted.Generator.BedrockAccessKeyID = redactSecret(redacted.Generator.BedrockAccessKeyID)
	redacted.Generator.BedrockSecretAccessKey = redactSecret(redacted.Generator.BedrockSecretAccessKey)
	redacted.Generator.BedrockSessionToken = redactSecret(redacted.Generator.BedrockSessionToken)

	out, err := yaml.Marshal(redacted)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func redactSecret(value string) string {
	if value == "" {
		return ""
	}
	return "[set]"
}

func runConfigSetSecret(_ *cobra.Command, args []string) error {
	keyName := args[0]
	if !isKnownSecretKey(keyName) {
		return fmt.Errorf("unknown secret key %q (see: heddle config list-secrets)", keyName)
	}

	fmt.Fprintf(os.Stderr, "Enter value for %s: ", keyName)
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return fmt.Errorf("empty secret not stored")
	}

	if err := SaveSecretToKeyring(keyName, secret); err != nil {
		return fmt.Errorf("storing secret in keyring: %w", err)
	}
	fmt.Printf("Stored %s in keyring\n", keyName)
	return nil
}

func runConfigDeleteSecret(_ *cobra.Command, args []string) error {
	keyName := args[0]
	if err := DeleteSecretFromKeyring(keyName); err != nil {
		return fmt.Errorf("deleting secret from keyring: %w", err)
	}
	fmt.Printf("Deleted %s from keyring\n", keyName)
	return nil
}

func runConfigListSecrets(_ *cobra.Command, _ []string) error {
	for _, key := range ListAvailableSecretKeys() {
		fmt.Println(key)
	}
	return nil
}

func isKnownSecretKey(key string) bool {
	for _, known := range ListAvailableSecretKeys() {
		if known == key {
			return true
		}
	}
	return false
}
