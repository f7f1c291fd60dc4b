// Package rangecalc turns data extents plus effective axis options into
// numeric [low, high] ranges. Everything here is pure; the viewport owns state.
package rangecalc

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/iafilius/chartviewport/src/types"
)

// Extent summarises the finite values feeding one axis.
type Extent struct {
	Min         float64
	Max         float64
	MinPositive float64 // smallest value > 0, +Inf when there is none
	Count       int
}

// Empty reports whether no finite value contributed.
func (e Extent) Empty() bool { return e.Count == 0 }

// HasPositive reports whether at least one value is > 0.
func (e Extent) HasPositive() bool { return !math.IsInf(e.MinPositive, 1) }

// ExtentOf reduces values, skipping NaN and ±Inf.
func ExtentOf(values []float64) Extent {
	finite := make([]float64, 0, len(values))
	minPos := math.Inf(1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		finite = append(finite, v)
		if v > 0 && v < minPos {
			minPos = v
		}
	}
	if len(finite) == 0 {
		return Extent{MinPositive: minPos}
	}
	lo, hi := stats.Bounds(finite)
	return Extent{Min: lo, Max: hi, MinPositive: minPos, Count: len(finite)}
}

// XExtent covers every x value of every series.
func XExtent(series []types.Series) Extent {
	var xs []float64
	for _, s := range series {
		for _, p := range s.Points {
			xs = append(xs, p.X)
		}
	}
	return ExtentOf(xs)
}

// YExtent covers the y values of the points whose x lies inside window, plus
// the nearest valued point just outside it on each side: the line segment to
// that neighbour is drawn across the plot edge, so it has to fit as well.
// A nil window covers all points. Points must be ordered by x.
func YExtent(series []types.Series, window *types.Range) Extent {
	var ys []float64
	for _, s := range series {
		ys = appendVisibleY(ys, s.Points, window)
	}
	return ExtentOf(ys)
}

func appendVisibleY(dst []float64, pts []types.Point, window *types.Range) []float64 {
	if window == nil {
		for _, p := range pts {
			dst = append(dst, p.Y)
		}
		return dst
	}
	first := sort.Search(len(pts), func(i int) bool { return pts[i].X >= window.Low })
	end := sort.Search(len(pts), func(i int) bool { return pts[i].X > window.High })
	for i := first; i < end; i++ {
		dst = append(dst, pts[i].Y)
	}
	for i := first - 1; i >= 0; i-- {
		if isFinite(pts[i].Y) {
			dst = append(dst, pts[i].Y)
			break
		}
	}
	for i := end; i < len(pts); i++ {
		if isFinite(pts[i].Y) {
			dst = append(dst, pts[i].Y)
			break
		}
	}
	return dst
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
