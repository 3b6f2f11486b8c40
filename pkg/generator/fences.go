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
package generator

import "strings"

// StripSQLFences removes a surrounding markdown code fence from model
// output. Models occasionally wrap SQL in ``` blocks despite instructions;
// the opening fence (with or without a language tag) and the closing fence
// are dropped, leaving the statement itself. Text without a leading fence
// passes through after whitespace trimming.
func StripSQLFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	switch {
	case len(lines) > 2:
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	case len(lines) == 1:
		// Inline fence: ```SELECT 1``` or ```sql SELECT 1```.
		inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
		inner = strings.TrimPrefix(inner, "sql ")
		return strings.TrimSpace(inner)
	default:
		return text
	}
}
