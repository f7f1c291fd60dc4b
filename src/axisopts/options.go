// Package axisopts resolves chart range options into one effective option set
// per y axis.
//
// Three shapes feed the resolver:
//   - top-level options (valueRange, includeZero, logscale) acting as chart
//     wide fallbacks; valueRange only ever applies to the default axis "y";
//   - the legacy per-series shape where a series declares `axis: {...}` and
//     thereby opens a new axis carrying those options;
//   - the `axes` map keyed by axis id.
//
// Options is the merged, null-free state. Update is the partial form used by
// option updates, where every key distinguishes absent from explicit null.
package axisopts

import (
	"github.com/iafilius/chartviewport/src/types"
)

// AxisOptions holds per-axis settings. Nil pointers mean "not specified here".
type AxisOptions struct {
	ValueRange  *types.Range
	IncludeZero *bool
	LogScale    *bool
}

// IsZero reports whether no field is specified.
func (a AxisOptions) IsZero() bool {
	return a.ValueRange == nil && a.IncludeZero == nil && a.LogScale == nil
}

func (a AxisOptions) clone() AxisOptions {
	out := AxisOptions{}
	if a.ValueRange != nil {
		r := *a.ValueRange
		out.ValueRange = &r
	}
	if a.IncludeZero != nil {
		b := *a.IncludeZero
		out.IncludeZero = &b
	}
	if a.LogScale != nil {
		b := *a.LogScale
		out.LogScale = &b
	}
	return out
}

// SeriesOptions assigns a series to an axis.
//
// Axis names a y axis ("y2") or an earlier series whose axis is shared.
// LegacyAxis is the older `axis: {...}` shape: the series opens a fresh axis
// and the embedded options become that axis' legacy options.
type SeriesOptions struct {
	Axis       types.AxisID
	LegacyAxis *AxisOptions
}

func (s SeriesOptions) clone() SeriesOptions {
	out := SeriesOptions{Axis: s.Axis}
	if s.LegacyAxis != nil {
		l := s.LegacyAxis.clone()
		out.LegacyAxis = &l
	}
	return out
}

// Options is the full, merged range option set of a chart.
type Options struct {
	DateWindow  *types.Range
	ValueRange  *types.Range
	IncludeZero *bool
	LogScale    *bool
	Axes        map[types.AxisID]AxisOptions
	Series      map[string]SeriesOptions
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	out := Options{}
	if o.DateWindow != nil {
		r := *o.DateWindow
		out.DateWindow = &r
	}
	if o.ValueRange != nil {
		r := *o.ValueRange
		out.ValueRange = &r
	}
	if o.IncludeZero != nil {
		b := *o.IncludeZero
		out.IncludeZero = &b
	}
	if o.LogScale != nil {
		b := *o.LogScale
		out.LogScale = &b
	}
	if o.Axes != nil {
		out.Axes = make(map[types.AxisID]AxisOptions, len(o.Axes))
		for id, a := range o.Axes {
			out.Axes[id] = a.clone()
		}
	}
	if o.Series != nil {
		out.Series = make(map[string]SeriesOptions, len(o.Series))
		for name, s := range o.Series {
			out.Series[name] = s.clone()
		}
	}
	return out
}

// Bool returns a pointer to b, handy for literal options.
func Bool(b bool) *bool { return &b }

// RangeOf returns a pointer to [low, high]. Use math.NaN() for an unset bound.
func RangeOf(low, high float64) *types.Range {
	r := types.NewRange(low, high)
	return &r
}

// Opt is one key of a partial update. The zero value means the key was absent.
type Opt[T any] struct {
	Present bool // key appeared in the update
	Null    bool // key appeared with an explicit null
	Value   T
}

// Set returns an Opt carrying v.
func Set[T any](v T) Opt[T] { return Opt[T]{Present: true, Value: v} }

// Null returns an Opt carrying an explicit null.
func Null[T any]() Opt[T] { return Opt[T]{Present: true, Null: true} }

// HasValue reports whether the key carries a non-null value.
func (o Opt[T]) HasValue() bool { return o.Present && !o.Null }

// AxisUpdate is the partial form of AxisOptions.
type AxisUpdate struct {
	ValueRange  Opt[types.Range]
	IncludeZero Opt[bool]
	LogScale    Opt[bool]
}

// Update is a partial option update. A nil entry in Axes or Series removes
// that entry; Null on Axes or Series clears the whole map.
type Update struct {
	DateWindow  Opt[types.Range]
	ValueRange  Opt[types.Range]
	IncludeZero Opt[bool]
	LogScale    Opt[bool]
	Axes        Opt[map[types.AxisID]*AxisUpdate]
	Series      Opt[map[string]*SeriesOptions]
}

// IsEmpty reports whether the update names no key at all.
func (u Update) IsEmpty() bool {
	return !u.DateWindow.Present && !u.ValueRange.Present &&
		!u.IncludeZero.Present && !u.LogScale.Present &&
		!u.Axes.Present && !u.Series.Present
}

// AxisValueRangeTouched reports whether the update sets or clears the
// valueRange of axis id through the axes map.
func (u Update) AxisValueRangeTouched(id types.AxisID) bool {
	if !u.Axes.Present {
		return false
	}
	if u.Axes.Null {
		return true
	}
	au, ok := u.Axes.Value[id]
	if !ok {
		return false
	}
	return au == nil || au.ValueRange.Present
}
