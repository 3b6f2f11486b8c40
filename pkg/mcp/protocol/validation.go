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
package protocol

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldViolation names one schema violation on one argument field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every schema violation found in an argument
// mapping, not just the first. It is deterministic for a given schema and
// argument set and carries no state beyond the violations themselves.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Field == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// Fields returns the violated field names in reported order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field != "" {
			fields = append(fields, v.Field)
		}
	}
	return fields
}

// Details renders the violations as a JSON-friendly list for failure payloads.
func (e *ValidationError) Details() []map[string]string {
	details := make([]map[string]string, len(e.Violations))
	for i, v := range e.Violations {
		details[i] = map[string]string{"field": v.Field, "message": v.Message}
	}
	return details
}

// TrimArguments returns a copy of the argument mapping with every top-level
// string value trimmed of surrounding whitespace. Validation runs on the
// trimmed copy, so a whitespace-only value on a minLength field is rejected
// rather than silently accepted, and handlers see the trimmed values.
func TrimArguments(arguments map[string]interface{}) map[string]interface{} {
	if arguments == nil {
		return map[string]interface{}{}
	}
	trimmed := make(map[string]interface{}, len(arguments))
	for key, value := range arguments {
		if s, ok := value.(string); ok {
			trimmed[key] = strings.TrimSpace(s)
			continue
		}
		trimmed[key] = value
	}
	return trimmed
}

// ValidateToolArguments checks an argument mapping against the tool's declared
// input schema. The returned error is a *ValidationError listing every
// violation. Schemas are closed: fields not declared in the schema are
// violations, never pass-through.
func ValidateToolArguments(tool Tool, arguments map[string]interface{}) error {
	if len(tool.InputSchema) == 0 {
		return nil
	}
	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	schemaLoader := gojsonschema.NewGoLoader(tool.InputSchema)
	argsLoader := gojsonschema.NewGoLoader(arguments)

	result, err := gojsonschema.Validate(schemaLoader, argsLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Violations: make([]FieldViolation, 0, len(result.Errors()))}
	for _, re := range result.Errors() {
		verr.Violations = append(verr.Violations, FieldViolation{
			Field:   violatedField(re),
			Message: re.Description(),
		})
	}
	return verr
}

// violatedField extracts the offending field name from a gojsonschema result.
// Missing-required and unknown-field violations name the property from the
// error details because their Field() points at the parent object.
func violatedField(re gojsonschema.ResultError) string {
	switch re.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := re.Details()["property"].(string); ok {
			return prop
		}
	}
	field := re.Field()
	if field == "(root)" {
		return ""
	}
	return field
}
