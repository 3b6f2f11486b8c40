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

// Package gonum renders chart requests to PNG images with gonum/plot.
package gonum

import (
	"bytes"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/teradata-labs/heddle/pkg/charts"
)

// Output raster dimensions in pixels.
const (
	widthPx  = 1200
	heightPx = 800
	dpi      = 96
)

// Config holds configuration for the renderer.
type Config struct {
	// Logger for render operations.
	Logger *zap.Logger
}

// Renderer implements charts.Renderer with gonum/plot.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a PNG chart renderer.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Renderer{logger: cfg.Logger}
}

// Render builds the requested chart and encodes it as a 1200x800 PNG.
func (r *Renderer) Render(req charts.Request) ([]byte, error) {
	x, y, err := resolveAxes(req)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = req.Title

	switch req.Type {
	case charts.TypeBar:
		err = buildBar(p, req.Rows, x, y)
	case charts.TypeLine:
		err = buildLine(p, req.Rows, x, y)
	case charts.TypeScatter:
		err = buildScatter(p, req.Rows, x, y)
	case charts.TypePie:
		err = buildPie(p, req.Rows, x, y)
	case charts.TypeHistogram:
		err = buildHistogram(p, req.Rows, x)
	case charts.TypeBox:
		err = buildBox(p, req.Rows, y)
	default:
		return nil, fmt.Errorf("unsupported chart type: %s", req.Type)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rendering chart",
		zap.String("type", req.Type),
		zap.String("x", x),
		zap.String("y", y),
		zap.Int("rows", len(req.Rows)))

	return encodePNG(p)
}

func buildBar(p *plot.Plot, rows []map[string]interface{}, x, y string) error {
	labels, values, err := labelsAndValues(rows, x, y)
	if err != nil {
		return err
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return nil
}

func buildLine(p *plot.Plot, rows []map[string]interface{}, x, y string) error {
	pts, err := xyPoints(rows, x, y)
	if err != nil {
		return err
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return nil
}

func buildScatter(p *plot.Plot, rows []map[string]interface{}, x, y string) error {
	pts, err := xyPoints(rows, x, y)
	if err != nil {
		return err
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return nil
}

func buildPie(p *plot.Plot, rows []map[string]interface{}, x, y string) error {
	labels, values, err := labelsAndValues(rows, x, y)
	if err != nil {
		return err
	}
	pie, err := newPieChart(values)
	if err != nil {
		return err
	}
	p.Add(pie)
	p.HideAxes()
	for i, label := range labels {
		p.Legend.Add(label, swatch{color: plotutil.Color(i)})
	}
	p.Legend.Top = true
	return nil
}

func buildHistogram(p *plot.Plot, rows []map[string]interface{}, x string) error {
	values, err := numericColumn(rows, x)
	if err != nil {
		return err
	}
	hist, err := plotter.NewHist(values, histogramBins(len(values)))
	if err != nil {
		return err
	}
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)
	p.X.Label.Text = x
	p.Y.Label.Text = "count"
	return nil
}

func buildBox(p *plot.Plot, rows []map[string]interface{}, y string) error {
	values, err := numericColumn(rows, y)
	if err != nil {
		return err
	}
	box, err := plotter.NewBoxPlot(vg.Points(40), 0, values)
	if err != nil {
		return err
	}
	p.Add(box)
	p.NominalX(y)
	p.Y.Label.Text = y
	return nil
}

// histogramBins applies Sturges' rule.
func histogramBins(n int) int {
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	if bins < 1 {
		bins = 1
	}
	return bins
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthPx)*vg.Inch/dpi, vg.Length(heightPx)*vg.Inch/dpi),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

var _ charts.Renderer = (*Renderer)(nil)
