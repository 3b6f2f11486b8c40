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

package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teradata-labs/heddle/pkg/catalog"
	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// Failure codes carried in the failure payload. The set is closed;
// callers discriminate failures by code, not by message text.
const (
	codeValidationError         = "validation_error"
	codeBackendNotInitialized   = "backend_not_initialized"
	codeGeneratorNotInitialized = "generator_not_initialized"
	codeNoWarehouse             = "no_warehouse"
	codeBackendError            = "backend_error"
	codeNoData                  = "no_data"
	codeUnknownTool             = "unknown_tool"
	codeUnknownPrompt           = "unknown_prompt"
	codeInvalidAddress          = "invalid_address"
	codeChartError              = "chart_error"
	codeGeneratorError          = "generator_error"
)

// failurePayload is the uniform JSON body of every failed tool call and
// resource read.
type failurePayload struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// marshalPayload renders a tool or resource payload as indented JSON.
func marshalPayload(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// successResult wraps a payload in a single-text-part tool result.
func successResult(payload interface{}) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{protocol.NewTextContent(marshalPayload(payload))},
	}
}

// failureResult wraps a failure payload in a tool result with IsError set.
func failureResult(code, message string, details interface{}) *protocol.CallToolResult {
	payload := failurePayload{Error: message, Code: code, Details: details}
	return &protocol.CallToolResult{
		Content: []protocol.Content{protocol.NewTextContent(marshalPayload(payload))},
		IsError: true,
	}
}

// collaboratorFailure converts a collaborator error into a failure
// result. Typed backend errors contribute their message and details;
// anything else is reported verbatim under the given code.
func collaboratorFailure(code string, err error) *protocol.CallToolResult {
	message, details := errorParts(err)
	return failureResult(code, message, details)
}

// errorParts splits an error into a clean message and optional details.
func errorParts(err error) (string, interface{}) {
	var cerr *catalog.Error
	if errors.As(err, &cerr) {
		if len(cerr.Details) > 0 {
			return cerr.Message, cerr.Details
		}
		return cerr.Message, nil
	}
	return err.Error(), nil
}

// argString reads a string argument, returning "" when absent.
func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}
