// Package depth implements the liquidity-depth chart engine: scales, the
// zoom and brush controllers, and the synchronization engine that turns
// chart inputs into a renderer-independent Scene.
package depth

import (
	"math"
)

// Entry is a single sample of the liquidity series.
type Entry struct {
	Price           float64
	ActiveLiquidity float64
}

// Series is a snapshot of the liquidity distribution, sorted ascending by price.
type Series []Entry

// Dimensions is the chart size in pixel units.
type Dimensions struct {
	Width  float64
	Height float64
}

// Margins are pixel insets applied to both axes.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// LinearScale is a continuous, invertible, monotonic mapping between a
// domain and a pixel range.
//
// LinearScale is a value type; callers derive new scales instead of
// mutating a shared instance.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinearScale returns a scale mapping [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{
		Domain: [2]float64{d0, d1},
		Range:  [2]float64{r0, r1},
	}
}

// Map converts a domain value to a pixel coordinate.
func (s LinearScale) Map(v float64) float64 {
	dd := s.Domain[1] - s.Domain[0]
	if dd == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - s.Domain[0]) / dd
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Invert converts a pixel coordinate back to a domain value.
func (s LinearScale) Invert(px float64) float64 {
	dr := s.Range[1] - s.Range[0]
	if dr == 0 {
		return s.Domain[0]
	}
	t := (px - s.Range[0]) / dr
	return s.Domain[0] + t*(s.Domain[1]-s.Domain[0])
}

// WithDomain returns a copy of the scale with a new domain.
func (s LinearScale) WithDomain(d0, d1 float64) LinearScale {
	s.Domain = [2]float64{d0, d1}
	return s
}

// RangeMin returns the smaller end of the pixel range.
func (s LinearScale) RangeMin() float64 {
	return math.Min(s.Range[0], s.Range[1])
}

// RangeMax returns the larger end of the pixel range.
func (s LinearScale) RangeMax() float64 {
	return math.Max(s.Range[0], s.Range[1])
}

// Contains reports whether px lies within the pixel range (inclusive).
func (s LinearScale) Contains(px float64) bool {
	return px >= s.RangeMin() && px <= s.RangeMax()
}

// Scales is the pair of mappings used for a single render pass.
type Scales struct {
	X LinearScale
	Y LinearScale
}

// BuildScales derives the horizontal and vertical scales from the series.
//
// Returns false when there is nothing to draw: an empty series or a
// chart without any drawable area. No error is reported in that case.
func BuildScales(series Series, dims Dimensions, margins Margins) (Scales, bool) {
	if len(series) == 0 {
		return Scales{}, false
	}
	if !(dims.Width > 0) || !(dims.Height > 0) {
		return Scales{}, false
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	maxLiquidity := 0.0
	for _, e := range series {
		if !isFinite(e.Price) || !isFinite(e.ActiveLiquidity) {
			continue
		}
		minPrice = math.Min(minPrice, e.Price)
		maxPrice = math.Max(maxPrice, e.Price)
		maxLiquidity = math.Max(maxLiquidity, e.ActiveLiquidity)
	}
	if !isFinite(minPrice) || !isFinite(maxPrice) {
		return Scales{}, false
	}

	return Scales{
		X: NewLinearScale(
			minPrice, maxPrice,
			margins.Left, dims.Width-margins.Right,
		),
		Y: NewLinearScale(
			0, maxLiquidity,
			dims.Height-margins.Bottom, margins.Top,
		),
	}, true
}

// Ticks returns approximately count uniformly spaced, human-friendly
// values within the scale's domain (steps of 1, 2 or 5 times a power of ten).
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.Domain[0], s.Domain[1]
	if count <= 0 || !isFinite(start) || !isFinite(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}

	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := range n {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
