package uihelpers

import (
	"math"
	"strconv"
)

// ComputeChartDimensions turns a requested width into the rendered size: at
// least 800 wide, a third as tall, height kept within [280, 520].
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// pow10Floor is the power of ten at or below x; 1 for x <= 0.
func pow10Floor(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(x)))
}

// round6 rounds to 6 significant places relative to step so labels stay stable.
func round6(v, step float64) float64 {
	if step <= 0 || math.IsInf(step, 0) {
		return v
	}
	q := pow10Floor(step) * 1e-6
	return math.Round(v/q) * q
}

// BuildNumericTicks returns ticks for the closed range [min,max] using the
// 1,2,2.5,5 step pattern, aiming for about n ticks. The first and last ticks
// are min and max themselves so a renderer fed these ticks keeps the exact
// range. Interior ticks closer than a fifth of a step to an end are dropped.
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	if max <= min {
		return []float64{min, max}
	}
	span := max - min
	if math.IsInf(span, 0) {
		return []float64{min, max}
	}
	mag := pow10Floor(span / float64(n-1))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Floor(span/step) + 1
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	out := []float64{min}
	slack := bestStep * 0.2
	start := math.Ceil(min / bestStep)
	// Bounded so a step lost in float precision cannot spin forever.
	for k := 0.0; k <= float64(4*n); k++ {
		v := (start + k) * bestStep
		if v >= max {
			break
		}
		if v-min < slack || max-v < slack {
			continue
		}
		out = append(out, round6(v, bestStep))
	}
	return append(out, max)
}

// BuildLogTicks returns ticks at 1, 2 and 5 times powers of ten inside
// (min,max), framed by min and max. min must be > 0.
func BuildLogTicks(min, max float64) []float64 {
	if !(min > 0) || !(max > min) || math.IsInf(max, 0) {
		return nil
	}
	out := []float64{min}
	lo := math.Floor(math.Log10(min))
	hi := math.Ceil(math.Log10(max))
	mults := []float64{1, 2, 5}
	if hi-lo > 6 {
		mults = []float64{1}
	}
	for e := lo; e <= hi; e++ {
		p := math.Pow(10, e)
		for _, m := range mults {
			v := m * p
			if v <= min*1.05 || v >= max/1.05 {
				continue
			}
			out = append(out, v)
		}
	}
	return append(out, max)
}

// FormatNumericTick provides a compact label; very large or small magnitudes
// switch to exponent form.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av == 0:
		return "0"
	case av >= 1e6 || av < 1e-4:
		return strconv.FormatFloat(v, 'g', 3, 64)
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
