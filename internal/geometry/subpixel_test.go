package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFromPixels_RoundTripsThroughSubpixelUnits verifies the conversion
// spec §9 requires: fixed-point subpixels (1/64 px) round-trip a whole
// pixel value exactly.
func TestFromPixels_RoundTripsThroughSubpixelUnits(t *testing.T) {
	assert.Equal(t, 150.0, FromPixels(150).ToPixels())
	assert.Equal(t, Subpixel(150*64), FromPixels(150))
}

// TestClamp_ConstraintUnderflowPrefersHi verifies spec §7's deterministic
// fallback for ConstraintUnderflow: when hi < lo (a contradictory min/max),
// clamping resolves to hi rather than lo.
func TestClamp_ConstraintUnderflowPrefersHi(t *testing.T) {
	v := FromPixels(100).Clamp(FromPixels(50), FromPixels(20))
	assert.Equal(t, FromPixels(20), v, "min > max must clamp to max (hi), not min")
}

// TestClamp_WithinBoundsPassesThrough verifies the ordinary case: a value
// inside [lo, hi] is untouched.
func TestClamp_WithinBoundsPassesThrough(t *testing.T) {
	v := FromPixels(30).Clamp(FromPixels(10), FromPixels(50))
	assert.Equal(t, FromPixels(30), v)
}

// TestRect_RoundOnlyHappensAtTheBoundary verifies rounding is a one-shot
// operation on the public PixelRect, not something that leaks back into
// Subpixel arithmetic (spec §9 "round only at the public rectangle
// boundary").
func TestRect_RoundOnlyHappensAtTheBoundary(t *testing.T) {
	r := Rect{X: FromPixels(10.2), Y: FromPixels(10.7), Width: FromPixels(100.4), Height: FromPixels(50.6)}
	px := r.Round()
	assert.Equal(t, PixelRect{X: 10, Y: 11, Width: 100, Height: 51}, px)
}

// TestEdges_HorizontalAndVertical verify the two convenience sums used
// throughout box-model arithmetic (margin/border/padding totals).
func TestEdges_HorizontalAndVertical(t *testing.T) {
	e := Edges{Top: FromPixels(1), Right: FromPixels(2), Bottom: FromPixels(3), Left: FromPixels(4)}
	assert.Equal(t, FromPixels(6), e.Horizontal())
	assert.Equal(t, FromPixels(4), e.Vertical())
}
