package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromHex_ExpandsShorthandAndFullForms verifies the four supported hex
// shapes (#RGB, #RGBA, #RRGGBB, #RRGGBBAA).
func TestFromHex_ExpandsShorthandAndFullForms(t *testing.T) {
	c, err := FromHex("#f00")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 0, 0, 255}, c)

	c, err = FromHex("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 0, 0, 255}, c)

	c, err = FromHex("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)
}

// TestParseColor_NamedAndFunctionalForms verifies named colors, rgb(), and
// rgba() with percentage alpha all resolve to the same straight-alpha Color.
func TestParseColor_NamedAndFunctionalForms(t *testing.T) {
	named, err := ParseColor("red")
	require.NoError(t, err)
	assert.Equal(t, RGB(255, 0, 0), named)

	fn, err := ParseColor("rgb(255, 0, 0)")
	require.NoError(t, err)
	assert.Equal(t, named, fn)

	alpha, err := ParseColor("rgba(255, 0, 0, 0.5)")
	require.NoError(t, err)
	assert.InDelta(t, 127, int(alpha.A), 1)
}

// TestParseColor_HslResolvesToRGBPrimary verifies hsl(0, 100%, 50%) resolves
// to pure red, the canonical HSL->RGB reference point.
func TestParseColor_HslResolvesToRGBPrimary(t *testing.T) {
	c, err := ParseColor("hsl(0, 100%, 50%)")
	require.NoError(t, err)
	assert.Equal(t, RGB(255, 0, 0), c)
}

// TestColor_BlendOverOpaqueBackground verifies straight-alpha "over"
// compositing: a 50%-alpha white over black averages to mid-gray.
func TestColor_BlendOverOpaqueBackground(t *testing.T) {
	bg := Black()
	fg := Color{255, 255, 255, 128}
	blended := bg.Blend(fg)
	assert.InDelta(t, 128, int(blended.R), 2)
	assert.Equal(t, uint8(255), blended.A)
}
