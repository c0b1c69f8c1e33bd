package depth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
)

func linearSeries(lo, hi, step float64) depth.Series {
	var s depth.Series
	for p := lo; p <= hi; p += step {
		s = append(s, depth.Entry{Price: p, ActiveLiquidity: 10 + p/10})
	}
	return s
}

func TestBuildScales_ScenarioMapping(t *testing.T) {
	t.Parallel()

	scales, ok := depth.BuildScales(
		linearSeries(0, 1000, 100),
		depth.Dimensions{Width: 500, Height: 300},
		depth.Margins{Bottom: 20},
	)
	require.True(t, ok)

	assert.InDelta(t, 0, scales.X.Map(0), 1e-9)
	assert.InDelta(t, 500, scales.X.Map(1000), 1e-9)
	assert.InDelta(t, 280, scales.Y.Map(0), 1e-9, "zero liquidity sits on the bottom margin")
	assert.InDelta(t, 0, scales.Y.Map(110), 1e-9, "max liquidity reaches the top")
}

func TestBuildScales_RoundTrip(t *testing.T) {
	t.Parallel()

	scales, ok := depth.BuildScales(
		depth.Series{{Price: 1234.5, ActiveLiquidity: 1}, {Price: 98765.25, ActiveLiquidity: 3}},
		depth.Dimensions{Width: 731, Height: 211},
		depth.Margins{Top: 3, Right: 7, Bottom: 19, Left: 11},
	)
	require.True(t, ok)

	for _, v := range []float64{1234.5, 2000, 50000.125, 98765.25} {
		assert.InDelta(t, v, scales.X.Invert(scales.X.Map(v)), 1e-7)
	}
}

func TestBuildScales_NothingToDraw(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		series depth.Series
		dims   depth.Dimensions
	}{
		{"empty series", nil, depth.Dimensions{Width: 100, Height: 100}},
		{"zero width", linearSeries(0, 10, 1), depth.Dimensions{Width: 0, Height: 100}},
		{"zero height", linearSeries(0, 10, 1), depth.Dimensions{Width: 100, Height: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := depth.BuildScales(tc.series, tc.dims, depth.Margins{})
			assert.False(t, ok)
		})
	}
}

func TestLinearScale_DegenerateDomain(t *testing.T) {
	t.Parallel()

	s := depth.NewLinearScale(5, 5, 0, 100)
	assert.Equal(t, 50.0, s.Map(5))
	assert.Equal(t, 5.0, s.Invert(73))
}

func TestLinearScale_Ticks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		d0, d1 float64
		count  int
		want   []float64
	}{
		{0, 1000, 6, []float64{0, 200, 400, 600, 800, 1000}},
		{0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{3, 17, 3, []float64{5, 10, 15}},
		{1000, 0, 5, []float64{1000, 800, 600, 400, 200, 0}},
	}
	for _, tc := range cases {
		got := depth.NewLinearScale(tc.d0, tc.d1, 0, 100).Ticks(tc.count)
		require.Len(t, got, len(tc.want), "domain [%v,%v]", tc.d0, tc.d1)
		for i := range got {
			assert.InDelta(t, tc.want[i], got[i], 1e-9)
		}
	}

	assert.Nil(t, depth.NewLinearScale(0, 1, 0, 1).Ticks(0))
	assert.Equal(t, []float64{4}, depth.NewLinearScale(4, 4, 0, 1).Ticks(3))
}
