package depth

import "math"

const (
	// DefaultMinZoom and DefaultMaxZoom bound the zoom scale factor.
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 5.0

	// DefaultWheelStep is the log2 zoom delta applied per wheel notch.
	DefaultWheelStep = 0.15
)

// Transform is a horizontal scale+translate applied to pixel coordinates.
//
// A Transform is immutable; every operation returns a new value.
type Transform struct {
	K float64
	X float64
}

// Identity is the transform that leaves every coordinate unchanged.
var Identity = Transform{K: 1, X: 0}

// Apply maps an untransformed pixel coordinate to its transformed position.
func (t Transform) Apply(x float64) float64 {
	return x*t.K + t.X
}

// Invert maps a transformed pixel coordinate back to its untransformed position.
func (t Transform) Invert(px float64) float64 {
	return (px - t.X) / t.K
}

// Scale returns t with its scale factor multiplied by k.
func (t Transform) Scale(k float64) Transform {
	if k == 1 {
		return t
	}
	return Transform{K: t.K * k, X: t.X}
}

// Translate returns t shifted by dx untransformed pixels.
func (t Transform) Translate(dx float64) Transform {
	if dx == 0 {
		return t
	}
	return Transform{K: t.K, X: t.X + t.K*dx}
}

// RescaleX returns a copy of base whose domain reflects the transform.
//
// The result is always derived from the untouched base scale, so any
// sequence of zoom operations that returns to the same transform yields
// the same domain.
func (t Transform) RescaleX(base LinearScale) LinearScale {
	d0 := base.Invert(t.Invert(base.Range[0]))
	d1 := base.Invert(t.Invert(base.Range[1]))
	return base.WithDomain(d0, d1)
}

// IsIdentity reports whether t leaves coordinates unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// ZoomController owns the current zoom transform of a chart.
//
// All requests are clamped to the scale extent and to the viewport
// translate envelope; nothing is reported as an error.
type ZoomController struct {
	transform Transform

	minK, maxK float64
	wheelStep  float64

	width, height float64
}

// NewZoomController returns a controller at identity for the given viewport.
func NewZoomController(width, height float64) *ZoomController {
	return &ZoomController{
		transform: Identity,
		minK:      DefaultMinZoom,
		maxK:      DefaultMaxZoom,
		wheelStep: DefaultWheelStep,
		width:     width,
		height:    height,
	}
}

// Transform returns the current transform.
func (z *ZoomController) Transform() Transform {
	return z.transform
}

// ScaleExtent returns the allowed range of the scale factor.
func (z *ZoomController) ScaleExtent() (float64, float64) {
	return z.minK, z.maxK
}

// SetScaleExtent changes the allowed scale factor range and re-constrains
// the current transform.
func (z *ZoomController) SetScaleExtent(minK, maxK float64) {
	if !(minK > 0) || !(maxK >= minK) {
		return
	}
	z.minK, z.maxK = minK, maxK
	z.ScaleTo(z.transform.K, z.width/2)
}

// SetWheelStep sets the log2 zoom delta applied per wheel notch.
func (z *ZoomController) SetWheelStep(step float64) {
	if step > 0 && isFinite(step) {
		z.wheelStep = step
	}
}

// SetViewport updates the translate envelope and re-constrains the transform.
func (z *ZoomController) SetViewport(width, height float64) bool {
	z.width, z.height = width, height
	return z.set(z.transform)
}

// SetTransform replaces the transform, subject to the zoom constraints.
// Returns true if the stored transform changed.
func (z *ZoomController) SetTransform(t Transform) bool {
	if !isFinite(t.K) || !isFinite(t.X) || t.K <= 0 {
		return false
	}
	t.K = z.clampK(t.K)
	return z.set(t)
}

// ScaleBy multiplies the scale factor by k, keeping pivotX fixed on screen.
func (z *ZoomController) ScaleBy(k, pivotX float64) bool {
	return z.ScaleTo(z.transform.K*k, pivotX)
}

// ScaleTo sets the scale factor to k, keeping pivotX fixed on screen.
func (z *ZoomController) ScaleTo(k, pivotX float64) bool {
	if !isFinite(k) || k <= 0 || !isFinite(pivotX) {
		return false
	}
	k = z.clampK(k)
	p0 := z.transform.Invert(pivotX)
	return z.set(Transform{K: k, X: pivotX - p0*k})
}

// TranslateBy pans the view by dx untransformed pixels.
func (z *ZoomController) TranslateBy(dx float64) bool {
	if !isFinite(dx) {
		return false
	}
	return z.set(z.transform.Translate(dx))
}

// Wheel zooms by the given number of wheel notches around pivotX.
// Positive steps zoom in.
func (z *ZoomController) Wheel(steps, pivotX float64) bool {
	return z.ScaleBy(math.Pow(2, steps*z.wheelStep), pivotX)
}

// Reset returns the controller to the identity transform.
func (z *ZoomController) Reset() bool {
	return z.set(Identity)
}

func (z *ZoomController) clampK(k float64) float64 {
	return math.Max(z.minK, math.Min(z.maxK, k))
}

func (z *ZoomController) set(t Transform) bool {
	t = z.constrain(t)
	if t == z.transform {
		return false
	}
	z.transform = t
	return true
}

// constrain keeps the viewport [0, width] inside the translate extent,
// centring the content when it is narrower than the viewport.
func (z *ZoomController) constrain(t Transform) Transform {
	if !(z.width > 0) {
		return t
	}
	dx0 := t.Invert(0) - 0
	dx1 := t.Invert(z.width) - z.width

	var dx float64
	switch {
	case dx1 > dx0:
		dx = (dx0 + dx1) / 2
	case math.Min(0, dx0) != 0:
		dx = math.Min(0, dx0)
	default:
		dx = math.Max(0, dx1)
	}
	return t.Translate(dx)
}
