package axisopts

import (
	"math"
	"sort"

	"github.com/iafilius/chartviewport/src/types"
)

// ValidateRange checks a declared range. Either bound may be NaN (unset);
// concrete bounds must be finite and ordered.
func ValidateRange(key string, r types.Range) error {
	if math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return NewRangeOptionError(key, r, "bounds must be finite")
	}
	if r.Concrete() && r.Low > r.High {
		return NewRangeOptionError(key, r, "low bound is greater than high bound")
	}
	return nil
}

// Validate checks every range carried by u. It runs before any merge so a bad
// update is rejected as a whole.
func Validate(u Update) error {
	if u.DateWindow.HasValue() {
		if err := ValidateRange("dateWindow", u.DateWindow.Value); err != nil {
			return err
		}
	}
	if u.ValueRange.HasValue() {
		if err := ValidateRange("valueRange", u.ValueRange.Value); err != nil {
			return err
		}
	}
	if u.Axes.HasValue() {
		for _, id := range sortedAxisKeys(u.Axes.Value) {
			au := u.Axes.Value[id]
			if au == nil || !au.ValueRange.HasValue() {
				continue
			}
			if err := ValidateRange("axes."+string(id)+".valueRange", au.ValueRange.Value); err != nil {
				return err
			}
		}
	}
	if u.Series.HasValue() {
		names := make([]string, 0, len(u.Series.Value))
		for name := range u.Series.Value {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			so := u.Series.Value[name]
			if so == nil || so.LegacyAxis == nil || so.LegacyAxis.ValueRange == nil {
				continue
			}
			if err := ValidateRange("series."+name+".axis.valueRange", *so.LegacyAxis.ValueRange); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateOptions checks the ranges of a full option set.
func ValidateOptions(o Options) error {
	return Validate(AsUpdate(o))
}

// AsUpdate expresses a full option set as an update that sets every
// specified key.
func AsUpdate(o Options) Update {
	u := Update{}
	if o.DateWindow != nil {
		u.DateWindow = Set(*o.DateWindow)
	}
	if o.ValueRange != nil {
		u.ValueRange = Set(*o.ValueRange)
	}
	if o.IncludeZero != nil {
		u.IncludeZero = Set(*o.IncludeZero)
	}
	if o.LogScale != nil {
		u.LogScale = Set(*o.LogScale)
	}
	if o.Axes != nil {
		axes := make(map[types.AxisID]*AxisUpdate, len(o.Axes))
		for id, a := range o.Axes {
			au := &AxisUpdate{}
			if a.ValueRange != nil {
				au.ValueRange = Set(*a.ValueRange)
			}
			if a.IncludeZero != nil {
				au.IncludeZero = Set(*a.IncludeZero)
			}
			if a.LogScale != nil {
				au.LogScale = Set(*a.LogScale)
			}
			axes[id] = au
		}
		u.Axes = Set(axes)
	}
	if o.Series != nil {
		series := make(map[string]*SeriesOptions, len(o.Series))
		for name, s := range o.Series {
			c := s.clone()
			series[name] = &c
		}
		u.Series = Set(series)
	}
	return u
}

// Merge folds u into o and returns the result; o is not modified.
// Absent keys keep their value, explicit nulls delete, values replace.
// The axes map merges per axis and per field, the series map per series.
func Merge(o Options, u Update) Options {
	out := o.Clone()

	mergeRange(&out.DateWindow, u.DateWindow)
	mergeRange(&out.ValueRange, u.ValueRange)
	mergeBool(&out.IncludeZero, u.IncludeZero)
	mergeBool(&out.LogScale, u.LogScale)

	switch {
	case u.Axes.Null:
		out.Axes = nil
	case u.Axes.Present:
		if out.Axes == nil {
			out.Axes = map[types.AxisID]AxisOptions{}
		}
		for id, au := range u.Axes.Value {
			if au == nil {
				delete(out.Axes, id)
				continue
			}
			a := out.Axes[id]
			mergeRange(&a.ValueRange, au.ValueRange)
			mergeBool(&a.IncludeZero, au.IncludeZero)
			mergeBool(&a.LogScale, au.LogScale)
			if a.IsZero() {
				delete(out.Axes, id)
				continue
			}
			out.Axes[id] = a
		}
		if len(out.Axes) == 0 {
			out.Axes = nil
		}
	}

	switch {
	case u.Series.Null:
		out.Series = nil
	case u.Series.Present:
		if out.Series == nil {
			out.Series = map[string]SeriesOptions{}
		}
		for name, so := range u.Series.Value {
			if so == nil {
				delete(out.Series, name)
				continue
			}
			out.Series[name] = so.clone()
		}
		if len(out.Series) == 0 {
			out.Series = nil
		}
	}
	return out
}

func mergeRange(dst **types.Range, o Opt[types.Range]) {
	switch {
	case o.Null:
		*dst = nil
	case o.Present:
		r := o.Value
		*dst = &r
	}
}

func mergeBool(dst **bool, o Opt[bool]) {
	switch {
	case o.Null:
		*dst = nil
	case o.Present:
		b := o.Value
		*dst = &b
	}
}

func sortedAxisKeys[V any](m map[types.AxisID]V) []types.AxisID {
	keys := make([]types.AxisID, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
