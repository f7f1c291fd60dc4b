package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"os"
	"sort"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/chartviewport/cmd/rangeviewer/uihelpers"
	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/types"
	"github.com/iafilius/chartviewport/src/viewport"
)

type renderOptions struct {
	Title string
	Width int
	Hints bool
}

var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// lineStyle returns a thin line with small dots so isolated points stay visible.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
		DotColor:    col,
		DotWidth:    2,
	}
}

// goChartAxis maps a y axis onto go-chart's two slots.
func goChartAxis(id types.AxisID) (chart.YAxisType, bool) {
	switch id {
	case types.AxisY:
		return chart.YAxisPrimary, true
	case types.AxisY2:
		return chart.YAxisSecondary, true
	}
	return 0, false
}

// visiblePoints keeps the finite points inside the x window. When a valued
// point lies beyond an edge, the segment towards it is cut at that edge so
// the line reaches the plot border.
func visiblePoints(s types.Series, xr types.Range) ([]float64, []float64) {
	pts := s.Points
	first := sort.Search(len(pts), func(i int) bool { return pts[i].X >= xr.Low })
	end := sort.Search(len(pts), func(i int) bool { return pts[i].X > xr.High })

	var inside []types.Point
	for _, p := range pts[first:end] {
		if valued(p) {
			inside = append(inside, p)
		}
	}
	before, hasBefore := types.Point{}, false
	for i := first - 1; i >= 0; i-- {
		if valued(pts[i]) {
			before, hasBefore = pts[i], true
			break
		}
	}
	after, hasAfter := types.Point{}, false
	for i := end; i < len(pts); i++ {
		if valued(pts[i]) {
			after, hasAfter = pts[i], true
			break
		}
	}

	var xs, ys []float64
	add := func(x, y float64) {
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if hasBefore {
		next, ok := after, hasAfter
		if len(inside) > 0 {
			next, ok = inside[0], true
		}
		if ok && next.X > xr.Low {
			add(xr.Low, edgeY(before, next, xr.Low))
		}
	}
	for _, p := range inside {
		add(p.X, p.Y)
	}
	if hasAfter {
		prev, ok := before, hasBefore
		if len(inside) > 0 {
			prev, ok = inside[len(inside)-1], true
		}
		if ok && prev.X < xr.High {
			add(xr.High, edgeY(prev, after, xr.High))
		}
	}
	return xs, ys
}

func valued(p types.Point) bool {
	return !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// edgeY interpolates the segment a-b at x.
func edgeY(a, b types.Point, x float64) float64 {
	if b.X == a.X {
		return a.Y
	}
	return a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
}

// axisTicks frames r exactly: go-chart derives an axis range from its ticks.
func axisTicks(r types.Range, logScale bool) []chart.Tick {
	var vals []float64
	if logScale {
		vals = uihelpers.BuildLogTicks(r.Low, r.High)
	}
	if vals == nil {
		vals = uihelpers.BuildNumericTicks(r.Low, r.High, 6)
	}
	ticks := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		ticks = append(ticks, chart.Tick{Value: v, Label: uihelpers.FormatNumericTick(v)})
	}
	return ticks
}

func yAxisFor(v *viewport.Viewport, id types.AxisID, kind chart.YAxisType) chart.YAxis {
	r, _ := v.YRange(id)
	eff := v.Effective(id)
	ya := chart.YAxis{Name: string(id), AxisType: kind, Ticks: axisTicks(r, eff.LogScale && r.Low > 0)}
	if eff.LogScale && r.Low > 0 {
		ya.Range = &chart.LogarithmicRange{Min: r.Low, Max: r.High}
	} else {
		ya.Range = &chart.ContinuousRange{Min: r.Low, Max: r.High}
	}
	return ya
}

// renderChart draws the published viewport. Axes beyond y2 have no slot in
// go-chart and are skipped with a warning.
func renderChart(v *viewport.Viewport, ro renderOptions) image.Image {
	w, h := uihelpers.ComputeChartDimensions(ro.Width)
	xr := v.XRange()

	var series []chart.Series
	hasSecondary := false
	i := 0
	for _, id := range v.Axes() {
		kind, ok := goChartAxis(id)
		if !ok {
			logging.Warnf("png: axis %s not drawn, only y and y2 are supported", id)
			continue
		}
		for _, s := range v.Series(id) {
			xs, ys := visiblePoints(s, xr)
			if len(xs) == 0 {
				continue
			}
			series = append(series, chart.ContinuousSeries{
				Name:    s.Name,
				XValues: xs,
				YValues: ys,
				YAxis:   kind,
				Style:   lineStyle(seriesPalette[i%len(seriesPalette)]),
			})
			i++
			if kind == chart.YAxisSecondary {
				hasSecondary = true
			}
		}
	}
	if len(series) == 0 {
		return blank(w, h)
	}

	padBottom := 28
	if ro.Hints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      ro.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Name:  "x",
			Range: &chart.ContinuousRange{Min: xr.Low, Max: xr.High},
			Ticks: axisTicks(xr, false),
		},
		YAxis:  yAxisFor(v, types.AxisY, chart.YAxisPrimary),
		Series: series,
	}
	if hasSecondary {
		ch.YAxisSecondary = yAxisFor(v, types.AxisY2, chart.YAxisSecondary)
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		logging.Errorf("png: render error: %v; showing blank fallback", err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		logging.Errorf("png: decode error: %v; showing blank fallback", err)
		return blank(w, h)
	}
	if ro.Hints {
		return stampRanges(img, "Ranges: "+formatRanges(v))
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255})
	draw.Draw(img, img.Bounds(), bg, image.Point{}, draw.Src)
	return img
}

// stampRanges copies img and writes label on a dark strip along the bottom.
func stampRanges(img image.Image, label string) image.Image {
	label = strings.TrimSpace(label)
	if img == nil || label == "" {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	m := face.Metrics()
	strip := image.Rect(b.Min.X, b.Max.Y-(m.Ascent+m.Descent).Ceil()-6, b.Max.X, b.Max.Y)
	draw.Draw(out, strip, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(b.Min.X+8, b.Max.Y-3-m.Descent.Ceil()),
	}
	d.DrawString(label)
	return out
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
