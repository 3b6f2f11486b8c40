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
package catalog

import (
	"errors"
	"fmt"
)

// Machine-readable error codes for backend failures.
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeUnavailable  = "unavailable"
	ErrCodeQueryFailed  = "query_failed"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeTimeout      = "timeout"
	ErrCodeBackendError = "backend_error"
)

// Error is a structured backend error with a machine-readable code.
type Error struct {
	// Code is a machine-readable error code.
	Code string

	// Message is a human-readable error message.
	Message string

	// Details provides additional error context.
	Details map[string]interface{}

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion provides a hint for fixing the error.
	Suggestion string

	// cause is the underlying error, if any.
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewNotFound builds a not-found error for a named object.
// kind is the object class ("catalog", "schema", "table").
func NewNotFound(kind, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", kind, name),
		Details: map[string]interface{}{"kind": kind, "name": name},
	}
}

// NewQueryFailed wraps a statement execution failure.
func NewQueryFailed(statement string, cause error) *Error {
	return &Error{
		Code:      ErrCodeQueryFailed,
		Message:   "statement execution failed",
		Details:   map[string]interface{}{"statement": statement},
		Retryable: false,
		cause:     cause,
	}
}

// NewUnavailable wraps a connectivity failure. Unavailable errors are
// retryable since the backend may recover.
func NewUnavailable(backend string, cause error) *Error {
	return &Error{
		Code:      ErrCodeUnavailable,
		Message:   fmt.Sprintf("backend %q unavailable", backend),
		Retryable: true,
		cause:     cause,
	}
}

// IsNotFound reports whether err is, or wraps, a not-found backend error.
func IsNotFound(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Code == ErrCodeNotFound
}

// IsRetryable reports whether err is, or wraps, a retryable backend error.
func IsRetryable(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Retryable
}
