// Package viewport keeps the x window and the per-axis y ranges of one chart.
//
// Ranges come from three places: option pins (dateWindow, valueRange and
// axes[id].valueRange), gesture pins set by ApplyZoom, and data. A gesture pin
// on an axis wins over its option pin; an unpinned bound is computed from the
// data visible in the current x window.
//
// A Viewport is not safe for concurrent use. Every mutating call computes the
// next state aside and commits it only on success.
package viewport

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/iafilius/chartviewport/src/axisopts"
	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/rangecalc"
	"github.com/iafilius/chartviewport/src/types"
)

// ErrUnknownAxis is returned when a gesture names an axis the chart lacks.
var ErrUnknownAxis = errors.New("unknown axis")

// Zoom is a user gesture. A nil X leaves the x window alone; Y lists the y
// axes to pin.
type Zoom struct {
	X *types.Range
	Y map[types.AxisID]types.Range
}

type state struct {
	opts     axisopts.Options
	assign   axisopts.Assignment
	xGesture *types.Range
	yGesture map[types.AxisID]types.Range

	x types.Range
	y map[types.AxisID]types.Range
}

func (s state) clone() state {
	out := s
	out.opts = s.opts.Clone()
	if s.xGesture != nil {
		r := *s.xGesture
		out.xGesture = &r
	}
	out.yGesture = make(map[types.AxisID]types.Range, len(s.yGesture))
	for id, r := range s.yGesture {
		out.yGesture[id] = r
	}
	out.y = nil
	return out
}

// Viewport is the range state of one chart.
type Viewport struct {
	series []types.Series
	labels []string
	st     state
}

// New validates opts and publishes the initial ranges for series.
func New(series []types.Series, opts axisopts.Options) (*Viewport, error) {
	if err := axisopts.ValidateOptions(opts); err != nil {
		return nil, fmt.Errorf("viewport options: %w", err)
	}
	v := &Viewport{}
	v.setSeries(series)
	st := state{opts: opts.Clone(), yGesture: map[types.AxisID]types.Range{}}
	st.assign = axisopts.Assign(v.labels, st.opts)
	v.publish(&st)
	v.st = st
	logging.Debugf("viewport: new with %d series on axes %v", len(v.series), st.assign.Axes)
	return v, nil
}

func (v *Viewport) setSeries(series []types.Series) {
	v.series = make([]types.Series, len(series))
	copy(v.series, series)
	v.labels = make([]string, len(series))
	for i, s := range series {
		v.labels[i] = s.Name
	}
}

// ApplyOptionsUpdate merges u into the options and republishes.
//
// A present dateWindow (value or null) drops the x gesture pin. A present
// top-level valueRange drops the gesture pins of every y axis; touching
// axes[id].valueRange drops the gesture pin of id only. includeZero and
// logscale never unpin. An empty update changes nothing.
func (v *Viewport) ApplyOptionsUpdate(u axisopts.Update) error {
	if u.IsEmpty() {
		return nil
	}
	if err := axisopts.Validate(u); err != nil {
		return fmt.Errorf("options update: %w", err)
	}
	next := v.st.clone()
	next.opts = axisopts.Merge(v.st.opts, u)
	if u.DateWindow.Present {
		next.xGesture = nil
	}
	for id := range next.yGesture {
		if u.ValueRange.Present || u.AxisValueRangeTouched(id) {
			delete(next.yGesture, id)
			logging.Debugf("viewport: option update drops gesture pin on %s", id)
		}
	}
	next.assign = axisopts.Assign(v.labels, next.opts)
	dropMissingAxes(&next)
	v.publish(&next)
	v.st = next
	return nil
}

// ApplyZoom pins the x window and/or y axes from a gesture. Reversed bounds
// are swapped; NaN, infinite or zero-width bounds fail with
// axisopts.ErrInvalidRangeOption and unknown axes with ErrUnknownAxis. On
// failure nothing changes.
func (v *Viewport) ApplyZoom(z Zoom) error {
	next := v.st.clone()
	if z.X != nil {
		r, err := normalizeZoom("zoom.x", *z.X)
		if err != nil {
			return err
		}
		next.xGesture = &r
	}
	for _, id := range sortedIDs(z.Y) {
		if !next.assign.HasAxis(id) {
			return fmt.Errorf("zoom: %w %q", ErrUnknownAxis, id)
		}
		r, err := normalizeZoom("zoom."+string(id), z.Y[id])
		if err != nil {
			return err
		}
		next.yGesture[id] = r
	}
	v.publish(&next)
	v.st = next
	logging.Debugf("viewport: zoom x=%v y=%v", next.x, z.Y)
	return nil
}

// ResetZoom drops the x pin and every y gesture pin, like a double click.
// Option pins on y axes stay in force.
func (v *Viewport) ResetZoom() {
	next := v.st.clone()
	next.xGesture = nil
	next.opts.DateWindow = nil
	next.yGesture = map[types.AxisID]types.Range{}
	v.publish(&next)
	v.st = next
	logging.Debugf("viewport: reset zoom")
}

// SetData replaces the series. Pins are kept; gesture pins on axes that no
// longer exist are dropped.
func (v *Viewport) SetData(series []types.Series) {
	v.setSeries(series)
	next := v.st.clone()
	next.assign = axisopts.Assign(v.labels, next.opts)
	dropMissingAxes(&next)
	v.publish(&next)
	v.st = next
	logging.Debugf("viewport: data replaced, %d series", len(series))
}

// XRange returns the published x window.
func (v *Viewport) XRange() types.Range { return v.st.x }

// YRange returns the published range of axis id.
func (v *Viewport) YRange(id types.AxisID) (types.Range, bool) {
	r, ok := v.st.y[id]
	return r, ok
}

// YRangeByIndex is YRange for the zero-based axis index (0 is "y").
func (v *Viewport) YRangeByIndex(i int) (types.Range, bool) {
	return v.YRange(types.AxisIndex(i))
}

// YRanges returns a copy of every published y range.
func (v *Viewport) YRanges() map[types.AxisID]types.Range {
	out := make(map[types.AxisID]types.Range, len(v.st.y))
	for id, r := range v.st.y {
		out[id] = r
	}
	return out
}

// Axes lists the y axes in index order.
func (v *Viewport) Axes() []types.AxisID {
	return append([]types.AxisID(nil), v.st.assign.Axes...)
}

// SeriesAxis returns the y axis series name is drawn against.
func (v *Viewport) SeriesAxis(name string) (types.AxisID, bool) {
	id, ok := v.st.assign.SeriesAxis[name]
	return id, ok
}

// Series returns the series drawn against axis id, in data order.
func (v *Viewport) Series(id types.AxisID) []types.Series {
	return v.seriesOn(v.st.assign, id)
}

// Options returns a copy of the merged options.
func (v *Viewport) Options() axisopts.Options { return v.st.opts.Clone() }

// Effective returns the resolved options of axis id.
func (v *Viewport) Effective(id types.AxisID) types.EffectiveAxisOptions {
	return v.st.assign.Resolve(v.st.opts, id)
}

// XState reports how the x window is determined.
func (v *Viewport) XState() AxisState {
	switch {
	case v.st.xGesture != nil:
		return pinnedState(PinGesture, *v.st.xGesture)
	case v.st.opts.DateWindow != nil:
		return pinnedState(PinOption, *v.st.opts.DateWindow)
	}
	return AxisState{}
}

// YState reports how axis id is determined.
func (v *Viewport) YState(id types.AxisID) (AxisState, bool) {
	if !v.st.assign.HasAxis(id) {
		return AxisState{}, false
	}
	if r, ok := v.st.yGesture[id]; ok {
		return pinnedState(PinGesture, r), true
	}
	if eff := v.Effective(id); eff.ValueRange != nil {
		return pinnedState(PinOption, *eff.ValueRange), true
	}
	return AxisState{}, true
}

// IsZoomed reports whether any axis is pinned, by gesture or option.
func (v *Viewport) IsZoomed() bool {
	if v.XState().Mode == ModePinned {
		return true
	}
	for _, id := range v.st.assign.Axes {
		if s, _ := v.YState(id); s.Mode == ModePinned {
			return true
		}
	}
	return false
}

// publish recomputes x first, since its window bounds the y extents, then
// every y axis.
func (v *Viewport) publish(st *state) {
	xPin := st.opts.DateWindow
	if st.xGesture != nil {
		xPin = st.xGesture
	}
	if xPin != nil && !xPin.HasLow() && !xPin.HasHigh() {
		xPin = nil
	}
	st.x = rangecalc.ComputeXRange(rangecalc.XExtent(v.series), xPin)
	if !st.x.Equal(v.st.x) {
		logging.Debugf("viewport: x %v -> %v", v.st.x, st.x)
	}
	var window *types.Range
	if xPin != nil {
		w := st.x
		window = &w
	}

	st.y = make(map[types.AxisID]types.Range, len(st.assign.Axes))
	for _, id := range st.assign.Axes {
		if g, ok := st.yGesture[id]; ok {
			st.y[id] = g
			continue
		}
		eff := st.assign.Resolve(st.opts, id)
		ext := rangecalc.YExtent(v.seriesOn(st.assign, id), window)
		st.y[id] = rangecalc.ComputeDefaultRange(ext, eff)
		if logging.GetLogLevel() == logging.LevelDebug {
			logging.Debugf("viewport: %s=%v from %d values (includeZero=%v logscale=%v)",
				id, st.y[id], ext.Count, eff.IncludeZero, eff.LogScale)
		}
	}
}

func (v *Viewport) seriesOn(a axisopts.Assignment, id types.AxisID) []types.Series {
	on := map[string]bool{}
	for _, name := range a.SeriesOn(id, v.labels) {
		on[name] = true
	}
	var out []types.Series
	for _, s := range v.series {
		if on[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func dropMissingAxes(st *state) {
	for id := range st.yGesture {
		if !st.assign.HasAxis(id) {
			delete(st.yGesture, id)
		}
	}
}

func normalizeZoom(key string, r types.Range) (types.Range, error) {
	if !finite(r.Low) || !finite(r.High) {
		return types.Range{}, axisopts.NewRangeOptionError(key, r, "bounds must be finite")
	}
	if r.Low > r.High {
		r.Low, r.High = r.High, r.Low
	}
	if r.Span() == 0 {
		return types.Range{}, axisopts.NewRangeOptionError(key, r, "zero width")
	}
	return r, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func sortedIDs(m map[types.AxisID]types.Range) []types.AxisID {
	ids := make([]types.AxisID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
