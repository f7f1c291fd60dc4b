package axisopts

import (
	"sort"

	"github.com/iafilius/chartviewport/src/types"
)

// Assignment maps series to y axes and carries the legacy per-axis options
// collected from series that opened an axis with `axis: {...}`.
type Assignment struct {
	Axes       []types.AxisID // ordered by index, always starts with "y"
	SeriesAxis map[string]types.AxisID
	Legacy     map[types.AxisID]AxisOptions
}

// Assign walks labels (series names) in order and decides each series' axis:
//   - no series options: default axis "y";
//   - LegacyAxis set: a fresh axis (lowest free y2, y3, ...) with those options;
//   - Axis naming a y axis: that axis;
//   - Axis naming an earlier series: that series' axis;
//   - anything else: "y".
//
// Y axes named only in the axes map are appended so they can be queried.
func Assign(labels []string, o Options) Assignment {
	a := Assignment{
		SeriesAxis: make(map[string]types.AxisID, len(labels)),
		Legacy:     map[types.AxisID]AxisOptions{},
	}
	used := map[types.AxisID]bool{types.AxisY: true}

	// Explicit ids are reserved first so a legacy axis never steals them.
	reserved := map[types.AxisID]bool{}
	for _, name := range labels {
		if so, ok := o.Series[name]; ok && so.LegacyAxis == nil && so.Axis.IsYAxis() {
			reserved[so.Axis] = true
		}
	}
	next := 1
	freshAxis := func() types.AxisID {
		for {
			id := types.AxisIndex(next)
			next++
			if !used[id] && !reserved[id] {
				return id
			}
		}
	}

	for _, name := range labels {
		axis := types.AxisY
		if so, ok := o.Series[name]; ok {
			switch {
			case so.LegacyAxis != nil:
				axis = freshAxis()
				a.Legacy[axis] = so.LegacyAxis.clone()
			case so.Axis.IsYAxis():
				axis = so.Axis
			case so.Axis != "":
				if other, found := a.SeriesAxis[string(so.Axis)]; found {
					axis = other
				}
			}
		}
		a.SeriesAxis[name] = axis
		used[axis] = true
	}
	for id := range o.Axes {
		if id.IsYAxis() {
			used[id] = true
		}
	}

	for id := range used {
		a.Axes = append(a.Axes, id)
	}
	sort.Slice(a.Axes, func(i, j int) bool {
		ii, _ := a.Axes[i].Index()
		jj, _ := a.Axes[j].Index()
		return ii < jj
	})
	return a
}

// HasAxis reports whether id is one of the assigned axes.
func (a Assignment) HasAxis(id types.AxisID) bool {
	for _, ax := range a.Axes {
		if ax == id {
			return true
		}
	}
	return false
}

// SeriesOn returns the names of the series drawn against axis, in label order.
func (a Assignment) SeriesOn(axis types.AxisID, labels []string) []string {
	var out []string
	for _, name := range labels {
		if a.SeriesAxis[name] == axis {
			out = append(out, name)
		}
	}
	return out
}

// Resolve returns the effective options of axis using the legacy options
// collected by Assign.
func (a Assignment) Resolve(o Options, axis types.AxisID) types.EffectiveAxisOptions {
	if l, ok := a.Legacy[axis]; ok {
		return Resolve(o, &l, axis)
	}
	return Resolve(o, nil, axis)
}

// Resolve merges the option layers for one axis. Precedence per field:
// axes map, legacy series axis options, top-level option, built-in default.
// It never fails; unspecified fields fall through to the next layer.
func Resolve(o Options, legacy *AxisOptions, axis types.AxisID) types.EffectiveAxisOptions {
	eff := types.EffectiveAxisOptions{Axis: axis}
	ax, hasAx := o.Axes[axis]

	switch {
	case hasAx && ax.ValueRange != nil:
		eff.ValueRange, eff.ValueRangeSource = copyRange(ax.ValueRange), types.SourceAxes
	case legacy != nil && legacy.ValueRange != nil:
		eff.ValueRange, eff.ValueRangeSource = copyRange(legacy.ValueRange), types.SourceLegacy
	case axis == types.AxisY && o.ValueRange != nil:
		eff.ValueRange, eff.ValueRangeSource = copyRange(o.ValueRange), types.SourceGlobal
	}

	switch {
	case hasAx && ax.IncludeZero != nil:
		eff.IncludeZero, eff.IncludeZeroSource = *ax.IncludeZero, types.SourceAxes
	case legacy != nil && legacy.IncludeZero != nil:
		eff.IncludeZero, eff.IncludeZeroSource = *legacy.IncludeZero, types.SourceLegacy
	case o.IncludeZero != nil:
		eff.IncludeZero, eff.IncludeZeroSource = *o.IncludeZero, types.SourceGlobal
	}

	switch {
	case hasAx && ax.LogScale != nil:
		eff.LogScale, eff.LogScaleSource = *ax.LogScale, types.SourceAxes
	case legacy != nil && legacy.LogScale != nil:
		eff.LogScale, eff.LogScaleSource = *legacy.LogScale, types.SourceLegacy
	case o.LogScale != nil:
		eff.LogScale, eff.LogScaleSource = *o.LogScale, types.SourceGlobal
	}
	return eff
}

func copyRange(r *types.Range) *types.Range {
	c := *r
	return &c
}
