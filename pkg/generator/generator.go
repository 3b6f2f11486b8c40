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

// Package generator defines the contract for turning natural language
// questions into SQL, plus the prompt construction and output cleanup shared
// by all provider implementations. Concrete providers live in subpackages
// (anthropic, bedrock).
package generator

import "context"

// Generator produces a single SQL statement from a fully grounded prompt.
// The prompt carries all table context; implementations are stateless
// transports to a model.
type Generator interface {
	GenerateSQL(ctx context.Context, prompt string) (string, error)
}
