package rangecalc

import (
	"math"

	"github.com/iafilius/chartviewport/src/types"
)

const (
	// PaddingFraction of the data span added beyond the data on each padded side.
	PaddingFraction = 0.1
	// LogFloorFactor scales the smallest positive value to get the low bound of
	// a log axis whose data reaches zero or below.
	LogFloorFactor = 0.1
)

var (
	emptyRange    = types.Range{Low: 0, High: 1}
	emptyLogRange = types.Range{Low: 1, High: 10}
)

// ComputeDefaultRange returns the y range of one axis.
//
// A fully concrete eff.ValueRange is returned verbatim. A half-set one pins
// that bound and keeps the other data-derived. Otherwise the range follows the
// data with PaddingFraction padding, zero inclusion and log floors.
// The result always has Low < High; a pin with equal bounds is widened.
func ComputeDefaultRange(ext Extent, eff types.EffectiveAxisOptions) types.Range {
	pin := eff.ValueRange
	if pin != nil && pin.Concrete() {
		return EnsureSpan(*pin)
	}
	var auto types.Range
	if eff.LogScale {
		auto = logRange(ext)
	} else {
		auto = linearRange(ext, eff.IncludeZero)
	}
	if pin == nil {
		return strictSpan(auto)
	}
	return strictSpan(applyPin(auto, *pin, eff.LogScale))
}

// ComputeXRange returns the x window: the data extent without padding, a
// widened window around a single x, or the pin.
func ComputeXRange(ext Extent, pin *types.Range) types.Range {
	if pin != nil && pin.Concrete() {
		return EnsureSpan(*pin)
	}
	auto := emptyRange
	if !ext.Empty() {
		auto = EnsureSpan(types.NewRange(ext.Min, ext.Max))
	}
	if pin == nil {
		return auto
	}
	return strictSpan(applyPin(auto, *pin, false))
}

// EnsureSpan widens a range whose bounds coincide by PaddingFraction of |v|
// on each side, or by 0.5 when v is 0. Other ranges are returned unchanged.
func EnsureSpan(r types.Range) types.Range {
	if r.Low != r.High {
		return r
	}
	w := math.Abs(r.Low) * PaddingFraction
	if w == 0 {
		w = 0.5
	}
	return strictSpan(types.NewRange(clampFinite(r.Low-w), clampFinite(r.High+w)))
}

// strictSpan moves High (or Low, at the top of the float range) one ulp
// outward when padding underflowed and left Low >= High.
func strictSpan(r types.Range) types.Range {
	if r.Low < r.High {
		return r
	}
	if r.High < math.MaxFloat64 {
		r.High = math.Nextafter(r.Low, math.Inf(1))
		if r.High == 0 {
			r.High = 0 // drop the sign of -0
		}
	} else {
		r.Low = math.Nextafter(r.High, math.Inf(-1))
	}
	return r
}

// logFloor keeps a log low bound strictly positive when scaling underflows.
func logFloor(v float64) float64 {
	if v <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return v
}

func linearRange(ext Extent, includeZero bool) types.Range {
	if ext.Empty() {
		return emptyRange
	}
	minY, maxY := ext.Min, ext.Max
	if includeZero {
		if minY > 0 {
			minY = 0
		}
		if maxY < 0 {
			maxY = 0
		}
	}

	var pad float64
	if minY == maxY {
		if maxY != 0 {
			pad = PaddingFraction * math.Abs(maxY)
		} else {
			maxY = 1
			pad = PaddingFraction
		}
	} else {
		pad = padding(minY, maxY)
	}

	low := clampFinite(minY - pad)
	high := clampFinite(maxY + pad)

	// Padding never drags an all non-negative (non-positive) axis across zero.
	if low < 0 && minY >= 0 {
		low = 0
	}
	if high > 0 && maxY <= 0 {
		high = 0
	}
	return types.NewRange(low, high)
}

// logRange keeps the low bound on the smallest value and pads the top only.
// includeZero has no meaning on a log axis and is ignored by the caller.
func logRange(ext Extent) types.Range {
	if ext.Empty() || !ext.HasPositive() {
		return emptyLogRange
	}
	minY, maxY := ext.Min, ext.Max
	if minY <= 0 {
		minY = logFloor(ext.MinPositive * LogFloorFactor)
	}
	pad := padding(minY, maxY)
	if minY == maxY {
		pad = PaddingFraction * math.Abs(maxY)
	}
	return types.NewRange(minY, clampFinite(maxY+pad))
}

func applyPin(auto, pin types.Range, logScale bool) types.Range {
	out := auto
	if pin.HasLow() {
		out.Low = pin.Low
	}
	if pin.HasHigh() {
		out.High = pin.High
	}
	if out.Low < out.High {
		return out
	}
	// The pin sits beyond the data on the free side; keep the pin and move the
	// free bound just past it.
	switch {
	case pin.HasLow():
		out.High = clampFinite(out.Low + freeMargin(out.Low))
	case pin.HasHigh():
		out.Low = clampFinite(out.High - freeMargin(out.High))
		if logScale && out.Low <= 0 && out.High > 0 {
			out.Low = logFloor(out.High * LogFloorFactor)
		}
	}
	return out
}

// padding returns PaddingFraction of (hi-lo). When the difference itself
// overflows it is taken term by term instead.
func padding(lo, hi float64) float64 {
	span := hi - lo
	if !math.IsInf(span, 0) {
		return PaddingFraction * span
	}
	return PaddingFraction*hi - PaddingFraction*lo
}

func freeMargin(v float64) float64 {
	return PaddingFraction * math.Max(math.Abs(v), 1)
}

func clampFinite(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
