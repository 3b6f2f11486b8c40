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

package gonum

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gonum.org/v1/plot/plotter"

	"github.com/teradata-labs/heddle/pkg/charts"
)

// resolveAxes picks the columns to plot. Explicit names win; otherwise
// X is the first result column and Y the second, falling back to the
// first for single-column results.
func resolveAxes(req charts.Request) (string, string, error) {
	x, y := req.X, req.Y
	if x == "" || y == "" {
		if len(req.Columns) == 0 {
			return "", "", fmt.Errorf("query result has no columns")
		}
		if x == "" {
			x = req.Columns[0]
		}
		if y == "" {
			if len(req.Columns) > 1 {
				y = req.Columns[1]
			} else {
				y = req.Columns[0]
			}
		}
	}
	return x, y, nil
}

// toFloat64 coerces a result cell to float64. Database drivers hand back
// a mix of Go numerics, and warehouse result sets arrive as strings, so
// both forms are accepted.
func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// labelOf renders a cell as a category label.
func labelOf(val interface{}) string {
	if val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}

// numericColumn extracts the numeric values of one column, skipping
// cells that do not coerce.
func numericColumn(rows []map[string]interface{}, col string) (plotter.Values, error) {
	values := make(plotter.Values, 0, len(rows))
	found := false
	for _, row := range rows {
		cell, ok := row[col]
		if !ok {
			continue
		}
		found = true
		if f, ok := toFloat64(cell); ok {
			values = append(values, f)
		}
	}
	if !found {
		return nil, fmt.Errorf("column %q not found in query result", col)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("column %q has no numeric values", col)
	}
	return values, nil
}

// labelsAndValues extracts (label, value) pairs for bar and pie charts.
// Rows whose value cell does not coerce are skipped.
func labelsAndValues(rows []map[string]interface{}, xCol, yCol string) ([]string, plotter.Values, error) {
	labels := make([]string, 0, len(rows))
	values := make(plotter.Values, 0, len(rows))
	foundX, foundY := false, false
	for _, row := range rows {
		xCell, xOk := row[xCol]
		yCell, yOk := row[yCol]
		foundX = foundX || xOk
		foundY = foundY || yOk
		if !xOk || !yOk {
			continue
		}
		f, ok := toFloat64(yCell)
		if !ok {
			continue
		}
		labels = append(labels, labelOf(xCell))
		values = append(values, f)
	}
	if !foundX {
		return nil, nil, fmt.Errorf("column %q not found in query result", xCol)
	}
	if !foundY {
		return nil, nil, fmt.Errorf("column %q not found in query result", yCol)
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("column %q has no numeric values", yCol)
	}
	return labels, values, nil
}

// xyPoints extracts (x, y) pairs for line and scatter charts. When any x
// cell fails numeric coercion the x axis falls back to row order, which
// keeps categorical x columns plottable.
func xyPoints(rows []map[string]interface{}, xCol, yCol string) (plotter.XYs, error) {
	xNumeric := true
	for _, row := range rows {
		cell, ok := row[xCol]
		if !ok {
			continue
		}
		if _, ok := toFloat64(cell); !ok {
			xNumeric = false
			break
		}
	}

	pts := make(plotter.XYs, 0, len(rows))
	foundX, foundY := false, false
	for i, row := range rows {
		xCell, xOk := row[xCol]
		yCell, yOk := row[yCol]
		foundX = foundX || xOk
		foundY = foundY || yOk
		if !xOk || !yOk {
			continue
		}
		y, ok := toFloat64(yCell)
		if !ok {
			continue
		}
		x := float64(i)
		if xNumeric {
			x, _ = toFloat64(xCell)
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if !foundX {
		return nil, fmt.Errorf("column %q not found in query result", xCol)
	}
	if !foundY {
		return nil, fmt.Errorf("column %q not found in query result", yCol)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("column %q has no numeric values", yCol)
	}
	return pts, nil
}
