package viewport

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/chartviewport/src/axisopts"
	"github.com/iafilius/chartviewport/src/types"
)

// zeroToFiftySteps has x = 10 + step/5 and y = step for step 0..50.
func zeroToFiftySteps() []types.Series {
	s := types.Series{Name: "Y"}
	for step := 0; step <= 50; step++ {
		s.Points = append(s.Points, types.Point{X: 10 + float64(step)/5, Y: float64(step)})
	}
	return []types.Series{s}
}

func twoSeries() []types.Series {
	a := types.Series{Name: "A"}
	b := types.Series{Name: "B"}
	for i, y := range []float64{50, 80, 110} {
		a.Points = append(a.Points, types.Point{X: float64(i), Y: y})
	}
	for i, y := range []float64{110, 70, 50} {
		b.Points = append(b.Points, types.Point{X: float64(i), Y: y})
	}
	return []types.Series{a, b}
}

func yRange(t *testing.T, v *Viewport, id types.AxisID) types.Range {
	t.Helper()
	r, ok := v.YRange(id)
	require.True(t, ok, "axis %s", id)
	return r
}

func assertRange(t *testing.T, want, got types.Range) {
	t.Helper()
	assert.InDelta(t, want.Low, got.Low, 1e-9, "low of %v", got)
	assert.InDelta(t, want.High, got.High, 1e-9, "high of %v", got)
}

func TestViewport_RangeSetOperations(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{})
	require.NoError(t, err)
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Equal(t, types.NewRange(0, 55), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{DateWindow: axisopts.Set(types.NewRange(12, 18))}))
	assert.Equal(t, types.NewRange(12, 18), v.XRange())
	assertRange(t, types.NewRange(5.8, 44.2), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{ValueRange: axisopts.Set(types.NewRange(10, 40))}))
	assert.Equal(t, types.NewRange(10, 40), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{ValueRange: axisopts.Set(types.NewRange(10, math.NaN()))}))
	assertRange(t, types.NewRange(10, 44.2), yRange(t, v, types.AxisY))
	st, _ := v.YState(types.AxisY)
	assert.True(t, st.LowPinned)
	assert.False(t, st.HighPinned)

	before := yRange(t, v, types.AxisY)
	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{}))
	assert.Equal(t, before, yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(12, 18), v.XRange())

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{Axes: axisopts.Set(map[types.AxisID]*axisopts.AxisUpdate{
		types.AxisY: {ValueRange: axisopts.Set(types.NewRange(15, 20))},
	})}))
	assert.Equal(t, types.NewRange(15, 20), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{
		DateWindow: axisopts.Null[types.Range](),
		ValueRange: axisopts.Null[types.Range](),
		Axes:       axisopts.Null[map[types.AxisID]*axisopts.AxisUpdate](),
	}))
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Equal(t, types.NewRange(0, 55), yRange(t, v, types.AxisY))
	assert.False(t, v.IsZoomed())
}

func TestViewport_ZoomSurvivesEmptyUpdate(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{})
	require.NoError(t, err)

	x := types.NewRange(12, 18)
	require.NoError(t, v.ApplyZoom(Zoom{X: &x, Y: map[types.AxisID]types.Range{types.AxisY: types.NewRange(5, 30)}}))
	assert.True(t, v.IsZoomed())
	assert.Equal(t, PinGesture, v.XState().Source)

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{}))
	assert.Equal(t, x, v.XRange())
	assert.Equal(t, types.NewRange(5, 30), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{
		DateWindow: axisopts.Null[types.Range](),
		ValueRange: axisopts.Null[types.Range](),
	}))
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Equal(t, types.NewRange(0, 55), yRange(t, v, types.AxisY))
	assert.False(t, v.IsZoomed())
}

func TestViewport_GestureBeatsOptionPin(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{ValueRange: axisopts.RangeOf(0, 100)})
	require.NoError(t, err)

	require.NoError(t, v.ApplyZoom(Zoom{Y: map[types.AxisID]types.Range{types.AxisY: types.NewRange(30, 20)}}))
	assert.Equal(t, types.NewRange(20, 30), yRange(t, v, types.AxisY), "reversed bounds swapped")

	// Neither style options nor data replacement unpin.
	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{IncludeZero: axisopts.Set(true)}))
	assert.Equal(t, types.NewRange(20, 30), yRange(t, v, types.AxisY))
	v.SetData(zeroToFiftySteps()[:1])
	assert.Equal(t, types.NewRange(20, 30), yRange(t, v, types.AxisY))

	v.ResetZoom()
	assert.Equal(t, types.NewRange(0, 100), yRange(t, v, types.AxisY), "option pin restored")
	st, _ := v.YState(types.AxisY)
	assert.Equal(t, PinOption, st.Source)
}

func TestViewport_AxisValueRangeDropsOnlyThatGesture(t *testing.T) {
	opts := axisopts.Options{Series: map[string]axisopts.SeriesOptions{"B": {Axis: types.AxisY2}}}
	v, err := New(twoSeries(), opts)
	require.NoError(t, err)

	require.NoError(t, v.ApplyZoom(Zoom{Y: map[types.AxisID]types.Range{
		types.AxisY:  types.NewRange(1, 2),
		types.AxisY2: types.NewRange(3, 4),
	}}))
	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{Axes: axisopts.Set(map[types.AxisID]*axisopts.AxisUpdate{
		types.AxisY2: {ValueRange: axisopts.Null[types.Range]()},
	})}))
	assert.Equal(t, types.NewRange(1, 2), yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY2))
}

func TestViewport_PerAxisIncludeZero(t *testing.T) {
	opts := axisopts.Options{
		Series: map[string]axisopts.SeriesOptions{"B": {Axis: types.AxisY2}},
	}
	v, err := New(twoSeries(), opts)
	require.NoError(t, err)
	assert.Equal(t, []types.AxisID{types.AxisY, types.AxisY2}, v.Axes())
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY2))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{Axes: axisopts.Set(map[types.AxisID]*axisopts.AxisUpdate{
		types.AxisY2: {IncludeZero: axisopts.Set(true)},
	})}))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(0, 121), yRange(t, v, types.AxisY2))

	r, ok := v.YRangeByIndex(1)
	require.True(t, ok)
	assert.Equal(t, types.NewRange(0, 121), r)
	assert.Len(t, v.YRanges(), 2)
}

func TestViewport_LegacyAxisWithAxesOverride(t *testing.T) {
	opts := axisopts.Options{
		Series: map[string]axisopts.SeriesOptions{
			"B": {LegacyAxis: &axisopts.AxisOptions{IncludeZero: axisopts.Bool(true)}},
		},
	}
	v, err := New(twoSeries(), opts)
	require.NoError(t, err)
	id, ok := v.SeriesAxis("B")
	require.True(t, ok)
	assert.Equal(t, types.AxisY2, id)
	assert.Equal(t, types.NewRange(0, 121), yRange(t, v, types.AxisY2))
	assert.Equal(t, types.SourceLegacy, v.Effective(types.AxisY2).IncludeZeroSource)

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{Axes: axisopts.Set(map[types.AxisID]*axisopts.AxisUpdate{
		types.AxisY2: {IncludeZero: axisopts.Set(false)},
	})}))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY2))
	assert.Equal(t, types.SourceAxes, v.Effective(types.AxisY2).IncludeZeroSource)
}

func TestViewport_TopLevelSeriesOptions(t *testing.T) {
	opts, err := axisopts.ParseOptions([]byte(`{
		"A": {"pointSize": 10},
		"B": {"axis": {}},
		"axes": {"y": {"includeZero": true}, "y2": {"includeZero": false}}
	}`))
	require.NoError(t, err)
	v, err := New(twoSeries(), opts)
	require.NoError(t, err)
	id, ok := v.SeriesAxis("B")
	require.True(t, ok)
	assert.Equal(t, types.AxisY2, id)
	assert.Equal(t, types.NewRange(0, 121), yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY2))

	u, err := axisopts.ParseUpdate([]byte(`axes: {y: {includeZero: false}, y2: {includeZero: true}}`))
	require.NoError(t, err)
	require.NoError(t, v.ApplyOptionsUpdate(u))
	assert.Equal(t, types.NewRange(44, 116), yRange(t, v, types.AxisY))
	assert.Equal(t, types.NewRange(0, 121), yRange(t, v, types.AxisY2))
}

func TestViewport_LogScale(t *testing.T) {
	s := types.Series{Name: "A"}
	for i, y := range []float64{10, 20, 500, 1000} {
		s.Points = append(s.Points, types.Point{X: float64(i), Y: y})
	}
	v, err := New([]types.Series{s}, axisopts.Options{LogScale: axisopts.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, types.NewRange(10, 1099), yRange(t, v, types.AxisY))

	require.NoError(t, v.ApplyOptionsUpdate(axisopts.Update{LogScale: axisopts.Set(false)}))
	assert.Equal(t, types.NewRange(0, 1099), yRange(t, v, types.AxisY))
}

func TestViewport_ZoomErrorsLeaveStateUnchanged(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{})
	require.NoError(t, err)

	good := types.NewRange(12, 14)
	err = v.ApplyZoom(Zoom{X: &good, Y: map[types.AxisID]types.Range{"y7": types.NewRange(1, 2)}})
	assert.True(t, errors.Is(err, ErrUnknownAxis))

	err = v.ApplyZoom(Zoom{Y: map[types.AxisID]types.Range{types.AxisY: types.NewRange(3, 3)}})
	assert.True(t, errors.Is(err, axisopts.ErrInvalidRangeOption))

	bad := types.NewRange(math.NaN(), 4)
	err = v.ApplyZoom(Zoom{X: &bad})
	assert.True(t, errors.Is(err, axisopts.ErrInvalidRangeOption))

	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Equal(t, types.NewRange(0, 55), yRange(t, v, types.AxisY))
	assert.False(t, v.IsZoomed())
}

func TestViewport_InvalidUpdateIsAtomic(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{})
	require.NoError(t, err)

	err = v.ApplyOptionsUpdate(axisopts.Update{
		DateWindow: axisopts.Set(types.NewRange(12, 18)),
		ValueRange: axisopts.Set(types.NewRange(40, 10)),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, axisopts.ErrInvalidRangeOption))
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Nil(t, v.Options().DateWindow)

	_, err = New(nil, axisopts.Options{DateWindow: axisopts.RangeOf(5, 1)})
	assert.True(t, errors.Is(err, axisopts.ErrInvalidRangeOption))
}

func TestViewport_EmptyData(t *testing.T) {
	v, err := New(nil, axisopts.Options{})
	require.NoError(t, err)
	assert.Equal(t, types.NewRange(0, 1), v.XRange())
	assert.Equal(t, types.NewRange(0, 1), yRange(t, v, types.AxisY))

	_, ok := v.YRange(types.AxisY2)
	assert.False(t, ok)
	_, ok = v.YState(types.AxisY2)
	assert.False(t, ok)
}

func TestViewport_PublishedRangesNeverNaN(t *testing.T) {
	s := types.Series{Name: "A", Points: []types.Point{{X: 1, Y: math.NaN()}, {X: 2, Y: 7}, {X: 3, Y: math.NaN()}}}
	v, err := New([]types.Series{s}, axisopts.Options{ValueRange: axisopts.RangeOf(math.NaN(), 20)})
	require.NoError(t, err)
	for id, r := range v.YRanges() {
		assert.False(t, math.IsNaN(r.Low) || math.IsNaN(r.High), "axis %s", id)
		assert.Less(t, r.Low, r.High, "axis %s", id)
	}
	assert.Equal(t, 20.0, yRange(t, v, types.AxisY).High)
}

func TestViewport_XStateOptionPin(t *testing.T) {
	v, err := New(zeroToFiftySteps(), axisopts.Options{DateWindow: axisopts.RangeOf(11, math.NaN())})
	require.NoError(t, err)
	st := v.XState()
	assert.Equal(t, ModePinned, st.Mode)
	assert.Equal(t, PinOption, st.Source)
	assert.True(t, st.LowPinned)
	assert.False(t, st.HighPinned)
	assert.Equal(t, types.NewRange(11, 20), v.XRange())

	v.ResetZoom()
	assert.Equal(t, ModeDefault, v.XState().Mode)
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
}

func TestViewport_OptionsReturnsCopy(t *testing.T) {
	v, err := New(nil, axisopts.Options{ValueRange: axisopts.RangeOf(1, 2)})
	require.NoError(t, err)
	o := v.Options()
	o.ValueRange.Low = 99
	assert.Equal(t, 1.0, v.Options().ValueRange.Low)
}

func TestViewport_RangeWithoutBoundsHoldsNothing(t *testing.T) {
	nan := math.NaN()
	v, err := New(zeroToFiftySteps(), axisopts.Options{
		DateWindow: axisopts.RangeOf(nan, nan),
		ValueRange: axisopts.RangeOf(nan, nan),
	})
	require.NoError(t, err)
	assert.False(t, v.IsZoomed())
	assert.Equal(t, ModeDefault, v.XState().Mode)
	st, ok := v.YState(types.AxisY)
	require.True(t, ok)
	assert.Equal(t, ModeDefault, st.Mode)
	assert.Equal(t, types.NewRange(10, 20), v.XRange())
	assert.Equal(t, types.NewRange(0, 55), yRange(t, v, types.AxisY))

	u, err := axisopts.ParseUpdate([]byte(`{dateWindow: [null, null], axes: {y: {valueRange: [.nan, .nan]}}}`))
	require.NoError(t, err)
	require.NoError(t, v.ApplyOptionsUpdate(u))
	assert.False(t, v.IsZoomed())
}

func TestViewport_SeriesFollowAssignment(t *testing.T) {
	opts := axisopts.Options{Series: map[string]axisopts.SeriesOptions{"B": {Axis: types.AxisY2}}}
	v, err := New(twoSeries(), opts)
	require.NoError(t, err)
	require.Len(t, v.Series(types.AxisY), 1)
	assert.Equal(t, "A", v.Series(types.AxisY)[0].Name)
	require.Len(t, v.Series(types.AxisY2), 1)
	assert.Equal(t, "B", v.Series(types.AxisY2)[0].Name)
}
