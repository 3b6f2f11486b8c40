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
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pieChart draws proportional wedges for one value series. gonum/plot
// has no built-in pie plotter, so wedges are filled directly on the
// canvas.
type pieChart struct {
	values []float64
	total  float64
}

func newPieChart(values []float64) (*pieChart, error) {
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("pie values must be non-negative, got %v", v)
		}
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("pie values sum to zero")
	}
	return &pieChart{values: values, total: total}, nil
}

// Plot implements plot.Plotter. Wedges start at twelve o'clock and
// proceed clockwise in row order.
func (pc *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius *= 0.4

	start := math.Pi / 2
	for i, v := range pc.values {
		sweep := -2 * math.Pi * v / pc.total
		var path vg.Path
		path.Move(center)
		path.Line(pointOnCircle(center, radius, start))
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(plotutil.Color(i))
		c.Fill(path)
		start += sweep
	}
}

func pointOnCircle(center vg.Point, radius vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + radius*vg.Length(math.Cos(angle)),
		Y: center.Y + radius*vg.Length(math.Sin(angle)),
	}
}

// swatch is a legend thumbnail filled with a wedge color.
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}
