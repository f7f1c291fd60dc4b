// Package types holds the data model shared by the range calculator, the axis
// option resolver and the viewport state.
//
// Conventions:
//   - A missing y value is NaN, never a sentinel like 0.
//   - In option and pin context a Range bound may be NaN, meaning "compute this
//     bound from data". Published ranges never contain NaN.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AxisID names a logical axis. There is exactly one x axis; y axes are "y",
// "y2", "y3", ...
type AxisID string

const (
	AxisX  AxisID = "x"
	AxisY  AxisID = "y"
	AxisY2 AxisID = "y2"
)

// AxisIndex returns the y axis id for a zero-based index (0 -> y, 1 -> y2).
func AxisIndex(i int) AxisID {
	if i <= 0 {
		return AxisY
	}
	return AxisID("y" + strconv.Itoa(i+1))
}

// Index is the inverse of AxisIndex. ok is false for ids that are not y axes.
func (a AxisID) Index() (int, bool) {
	s := string(a)
	if s == "y" {
		return 0, true
	}
	if !strings.HasPrefix(s, "y") {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 2 {
		return 0, false
	}
	return n - 1, true
}

// IsYAxis reports whether a is a well formed y axis id.
func (a AxisID) IsYAxis() bool {
	_, ok := a.Index()
	return ok
}

// Point is one sample. Y is NaN when the value is null/missing.
type Point struct {
	X float64
	Y float64
}

// Series is an ordered (by X) sequence of points.
type Series struct {
	Name   string
	Points []Point
}

// Range is a closed [Low, High] interval.
type Range struct {
	Low  float64
	High float64
}

// NewRange is a convenience constructor.
func NewRange(low, high float64) Range { return Range{Low: low, High: high} }

// HasLow reports whether the low bound is concrete (not NaN).
func (r Range) HasLow() bool { return !math.IsNaN(r.Low) }

// HasHigh reports whether the high bound is concrete (not NaN).
func (r Range) HasHigh() bool { return !math.IsNaN(r.High) }

// Concrete reports whether both bounds are set.
func (r Range) Concrete() bool { return r.HasLow() && r.HasHigh() }

// Span returns High-Low, NaN if either bound is unset.
func (r Range) Span() float64 { return r.High - r.Low }

// Contains reports whether v lies within the closed interval.
func (r Range) Contains(v float64) bool { return v >= r.Low && v <= r.High }

// Equal compares bounds treating NaN == NaN as equal.
func (r Range) Equal(o Range) bool {
	return sameBound(r.Low, o.Low) && sameBound(r.High, o.High)
}

func sameBound(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Low), formatBound(r.High))
}

func formatBound(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Source records which option layer supplied an effective value.
type Source int

const (
	SourceDefault Source = iota
	SourceGlobal
	SourceLegacy
	SourceAxes
)

func (s Source) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourceLegacy:
		return "legacy"
	case SourceAxes:
		return "axes"
	default:
		return "default"
	}
}

// EffectiveAxisOptions is the fully resolved option set for one y axis.
// ValueRange is nil when no pin applies; when non-nil either bound may be NaN.
type EffectiveAxisOptions struct {
	Axis        AxisID
	ValueRange  *Range
	IncludeZero bool
	LogScale    bool

	ValueRangeSource  Source
	IncludeZeroSource Source
	LogScaleSource    Source
}
