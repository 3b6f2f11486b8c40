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

// Package charts defines the contract for turning tabular query results
// into rendered chart images.
package charts

// Chart types accepted by Render. The set is closed; callers validate
// against AllTypes before invoking a renderer.
const (
	TypeBar       = "bar"
	TypeLine      = "line"
	TypeScatter   = "scatter"
	TypePie       = "pie"
	TypeHistogram = "histogram"
	TypeBox       = "box"
)

// AllTypes returns the supported chart types in declaration order.
func AllTypes() []string {
	return []string{TypeBar, TypeLine, TypeScatter, TypePie, TypeHistogram, TypeBox}
}

// Request describes one chart to render from a query result.
type Request struct {
	// Rows holds the result rows, one map per row keyed by column name.
	Rows []map[string]interface{}

	// Columns holds the result column names in statement order. Used to
	// pick default axes when X or Y is empty.
	Columns []string

	// Type is one of the Type* constants.
	Type string

	// X and Y name the columns to plot. Empty X defaults to the first
	// result column; empty Y defaults to the second column when present,
	// otherwise the first. Pie charts use X for slice names and Y for
	// slice values; histograms use only X; box plots use only Y.
	X string
	Y string

	// Title is drawn above the chart. Empty renders no title.
	Title string
}

// Renderer produces a PNG image for a chart request.
type Renderer interface {
	Render(req Request) ([]byte, error)
}
