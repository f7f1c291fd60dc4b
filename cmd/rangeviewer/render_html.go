package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/iafilius/chartviewport/cmd/rangeviewer/uihelpers"
	"github.com/iafilius/chartviewport/src/types"
	"github.com/iafilius/chartviewport/src/viewport"
)

// buildHTMLChart mirrors the viewport as an interactive line chart. Every y
// axis gets its own echarts y axis with min/max fixed to the published range.
func buildHTMLChart(v *viewport.Viewport, ro renderOptions) *charts.Line {
	w, h := uihelpers.ComputeChartDimensions(ro.Width)
	xr := v.XRange()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: ro.Title,
			Width:     strconv.Itoa(w) + "px",
			Height:    strconv.Itoa(h) + "px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    ro.Title,
			Subtitle: formatRanges(v),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "x",
			Type: "value",
			Min:  xr.Low,
			Max:  xr.High,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for i, id := range v.Axes() {
		ya := htmlYAxis(v, id, i)
		if i == 0 {
			line.SetGlobalOptions(charts.WithYAxisOpts(ya))
		} else {
			line.ExtendYAxis(ya)
		}
		for _, s := range v.Series(id) {
			line.AddSeries(s.Name, lineItems(s, xr),
				charts.WithLineChartOpts(opts.LineChart{YAxisIndex: i, ShowSymbol: opts.Bool(false)}))
		}
	}
	return line
}

func htmlYAxis(v *viewport.Viewport, id types.AxisID, index int) opts.YAxis {
	r, _ := v.YRange(id)
	ya := opts.YAxis{Name: string(id), Type: "value", Min: r.Low, Max: r.High}
	if v.Effective(id).LogScale && r.Low > 0 {
		ya.Type = "log"
	}
	if index > 0 {
		ya.Position = "right"
	}
	return ya
}

// lineItems emits [x, y] pairs inside the x window. Missing values become "-",
// which echarts draws as a gap.
func lineItems(s types.Series, xr types.Range) []opts.LineData {
	items := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		if !xr.Contains(p.X) {
			continue
		}
		var y interface{} = p.Y
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			y = "-"
		}
		items = append(items, opts.LineData{Value: []interface{}{p.X, y}})
	}
	return items
}

func writeHTML(path string, line *charts.Line) error {
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
