package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocko/internal/style/values"
)

// TestParseProperty_FlexSingleNumberShorthandExpandsToGrow1Shrink1BasisZero
// verifies CSS Flexbox §7.1.1: "flex: 1" means grow=1, shrink=1, basis=0%,
// not grow=1 with shrink/basis left at whatever they were before.
func TestParseProperty_FlexSingleNumberShorthandExpandsToGrow1Shrink1BasisZero(t *testing.T) {
	style := values.NewComputedStyle()
	style.FlexShrink = 5 // pre-existing value that must be overwritten, not preserved
	ParseProperty(style, "flex", "1")

	assert.Equal(t, 1.0, style.FlexGrow)
	assert.Equal(t, 1.0, style.FlexShrink)
	assert.True(t, style.FlexBasis.IsZero())
}

// TestParseProperty_FlexNoneDisablesGrowAndShrink verifies the "none"
// keyword form.
func TestParseProperty_FlexNoneDisablesGrowAndShrink(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "flex", "none")

	assert.Equal(t, 0.0, style.FlexGrow)
	assert.Equal(t, 0.0, style.FlexShrink)
	assert.True(t, style.FlexBasis.IsAuto())
}

// TestParseProperty_MarginShorthandFourValues verifies the CSS box-shorthand
// expansion order: top, right, bottom, left.
func TestParseProperty_MarginShorthandFourValues(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "margin", "1px 2px 3px 4px")

	assert.Equal(t, values.Px(1), style.MarginTop)
	assert.Equal(t, values.Px(2), style.MarginRight)
	assert.Equal(t, values.Px(3), style.MarginBottom)
	assert.Equal(t, values.Px(4), style.MarginLeft)
}

// TestParseProperty_MarginShorthandTwoValues verifies the "vertical
// horizontal" two-value form.
func TestParseProperty_MarginShorthandTwoValues(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "margin", "10px 20px")

	assert.Equal(t, values.Px(10), style.MarginTop)
	assert.Equal(t, values.Px(20), style.MarginRight)
	assert.Equal(t, values.Px(10), style.MarginBottom)
	assert.Equal(t, values.Px(20), style.MarginLeft)
}

// TestParseProperty_FontSizeResolvesEmAgainstParent verifies font-size's
// em/% value resolves against the style's current (pre-assignment, i.e.
// parent-inherited) FontSize rather than a fixed default (spec §4.4).
func TestParseProperty_FontSizeResolvesEmAgainstParent(t *testing.T) {
	style := values.NewComputedStyle()
	style.FontSize = 10 // simulates the inherited parent value already seeded
	ParseProperty(style, "font-size", "2em")

	assert.InDelta(t, 20.0, style.FontSize, 0.01)
}

// TestParseProperty_LineHeightNormalIsAMultiplier verifies "normal"
// resolves to the 1.2 multiplier (spec §4.4), not a pixel value.
func TestParseProperty_LineHeightNormalIsAMultiplier(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "line-height", "normal")

	assert.Equal(t, "number", style.LineHeightUnit)
	assert.InDelta(t, 1.2, style.LineHeight, 0.001)
}

// TestParseProperty_BorderShorthandSplitsWidthStyleColor verifies the
// token-sniffing border shorthand parser recognizes each component
// regardless of order.
func TestParseProperty_BorderShorthandSplitsWidthStyleColor(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "border", "2px solid red")

	assert.Equal(t, values.Px(2), style.BorderTopWidth)
	assert.Equal(t, "solid", style.BorderTopStyle)
	assert.Equal(t, values.RGB(255, 0, 0), style.BorderTopColor)
}

// TestParseProperty_UnknownPropertyIsSilentlyIgnored verifies spec §6:
// unrecognized declarations are parsed and discarded, never panicking or
// erroring.
func TestParseProperty_UnknownPropertyIsSilentlyIgnored(t *testing.T) {
	style := values.NewComputedStyle()
	assert.NotPanics(t, func() {
		ParseProperty(style, "animation-name", "spin")
	})
}

// TestParseProperty_CustomPropertyIsStoredVerbatim verifies --x custom
// properties are collected rather than dispatched through the known-
// property switch (spec §6).
func TestParseProperty_CustomPropertyIsStoredVerbatim(t *testing.T) {
	style := values.NewComputedStyle()
	ParseProperty(style, "--brand-color", "  #ff0000 ")

	assert.Equal(t, "#ff0000", style.CustomProperties["--brand-color"])
}
