package depth

import "math"

// DefaultHandleHitTolerance is the pixel distance within which a pointer-down
// grabs a handle instead of moving or restarting the selection.
const DefaultHandleHitTolerance = 6.0

// BrushState is the lifecycle state of the brush.
type BrushState int

const (
	BrushIdle BrushState = iota
	BrushDragging
	BrushCommitted
)

func (s BrushState) String() string {
	switch s {
	case BrushDragging:
		return "dragging"
	case BrushCommitted:
		return "committed"
	default:
		return "idle"
	}
}

// BrushMode is what the active gesture manipulates.
type BrushMode int

const (
	BrushModeNone BrushMode = iota
	BrushModeNew
	BrushModeMove
	BrushModeResizeWest
	BrushModeResizeEast
)

func (m BrushMode) String() string {
	switch m {
	case BrushModeNew:
		return "new"
	case BrushModeMove:
		return "move"
	case BrushModeResizeWest:
		return "resize-w"
	case BrushModeResizeEast:
		return "resize-e"
	default:
		return "none"
	}
}

// PixelInterval is a selection in pixel space, ordered low to high.
type PixelInterval [2]float64

// Degenerate reports whether the interval is collapsed or numerically invalid.
func (p PixelInterval) Degenerate() bool {
	return !isFinite(p[0]) || !isFinite(p[1]) || p[0] == p[1]
}

func orderedInterval(a, b float64) PixelInterval {
	if b < a {
		return PixelInterval{b, a}
	}
	return PixelInterval{a, b}
}

// BrushController tracks a draggable horizontal pixel interval.
//
// It knows nothing about domain values; the engine converts intervals
// through the scale active at the time of each event.
type BrushController struct {
	extent    [2]float64
	tolerance float64

	state BrushState
	mode  BrushMode

	// anchor is the fixed end for new/resize gestures, or the pointer
	// origin for move gestures.
	anchor float64
	origin PixelInterval

	live PixelInterval
}

// NewBrushController creates an idle brush constrained to [lo, hi].
func NewBrushController(lo, hi float64) *BrushController {
	b := &BrushController{tolerance: DefaultHandleHitTolerance}
	b.SetExtent(lo, hi)
	return b
}

// SetExtent sets the brushable pixel range.
func (b *BrushController) SetExtent(lo, hi float64) {
	b.extent = [2]float64(orderedInterval(lo, hi))
}

// Extent returns the brushable pixel range.
func (b *BrushController) Extent() (float64, float64) {
	return b.extent[0], b.extent[1]
}

// SetHitTolerance sets the handle grab distance in pixels.
func (b *BrushController) SetHitTolerance(px float64) {
	if px >= 0 && isFinite(px) {
		b.tolerance = px
	}
}

// State returns the lifecycle state.
func (b *BrushController) State() BrushState { return b.state }

// Mode returns the mode of the active gesture, or BrushModeNone.
func (b *BrushController) Mode() BrushMode { return b.mode }

// Dragging reports whether a gesture is in progress.
func (b *BrushController) Dragging() bool { return b.state == BrushDragging }

// Live returns the pixel interval of the gesture in progress.
func (b *BrushController) Live() (PixelInterval, bool) {
	if b.state != BrushDragging {
		return PixelInterval{}, false
	}
	return b.live, true
}

// HitTest returns the mode a pointer-down at px would start, given the
// currently displayed selection (nil when none is shown).
func (b *BrushController) HitTest(px float64, selection *PixelInterval) BrushMode {
	if !isFinite(px) {
		return BrushModeNone
	}
	if selection != nil && !selection.Degenerate() {
		dw := math.Abs(px - selection[0])
		de := math.Abs(px - selection[1])
		switch {
		case dw <= b.tolerance && dw <= de:
			return BrushModeResizeWest
		case de <= b.tolerance:
			return BrushModeResizeEast
		case px > selection[0] && px < selection[1]:
			return BrushModeMove
		}
	}
	if px < b.extent[0] || px > b.extent[1] {
		return BrushModeNone
	}
	return BrushModeNew
}

// PointerDown starts a gesture. Returns false when px is outside the
// brushable area and not on a handle.
func (b *BrushController) PointerDown(px float64, selection *PixelInterval) bool {
	mode := b.HitTest(px, selection)
	if mode == BrushModeNone {
		return false
	}

	b.mode = mode
	b.state = BrushDragging
	switch mode {
	case BrushModeResizeWest:
		b.origin = *selection
		b.anchor = selection[1]
		b.live = *selection
	case BrushModeResizeEast:
		b.origin = *selection
		b.anchor = selection[0]
		b.live = *selection
	case BrushModeMove:
		b.origin = *selection
		b.anchor = px
		b.live = *selection
	case BrushModeNew:
		p := b.clamp(px)
		b.anchor = p
		b.live = PixelInterval{p, p}
	}
	return true
}

// PointerMove updates the live interval. Handles that cross are swapped so
// the interval stays ordered. Returns false when no gesture is active.
func (b *BrushController) PointerMove(px float64) (PixelInterval, bool) {
	if b.state != BrushDragging {
		return PixelInterval{}, false
	}
	if !isFinite(px) {
		b.live = PixelInterval{math.NaN(), math.NaN()}
		return b.live, true
	}

	switch b.mode {
	case BrushModeMove:
		dx := px - b.anchor
		dx = math.Max(dx, b.extent[0]-b.origin[0])
		dx = math.Min(dx, b.extent[1]-b.origin[1])
		b.live = PixelInterval{b.origin[0] + dx, b.origin[1] + dx}
	default:
		b.live = orderedInterval(b.anchor, b.clamp(px))
	}
	return b.live, true
}

// PointerUp ends the gesture and returns its final interval. The boolean
// is false when no gesture was active or the final interval is degenerate.
func (b *BrushController) PointerUp() (PixelInterval, bool) {
	if b.state != BrushDragging {
		return PixelInterval{}, false
	}
	final := b.live
	b.state = BrushCommitted
	b.mode = BrushModeNone
	if final.Degenerate() {
		return final, false
	}
	return final, true
}

// Cancel drops the gesture in progress without committing it.
func (b *BrushController) Cancel() {
	if b.state == BrushDragging {
		b.state = BrushIdle
		b.mode = BrushModeNone
	}
}

// Clear returns the brush to idle, e.g. when the selection is removed.
func (b *BrushController) Clear() {
	if b.state != BrushDragging {
		b.state = BrushIdle
	}
}

func (b *BrushController) clamp(px float64) float64 {
	return math.Max(b.extent[0], math.Min(b.extent[1], px))
}
