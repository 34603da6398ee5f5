package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// TestResolveAbsolutePositioning_LeftTopAgainstPositionedAncestor verifies
// spec §8 scenario S4: an absolutely positioned child with left/top set
// resolves against its nearest positioned ancestor's padding box.
func TestResolveAbsolutePositioning_LeftTopAgainstPositionedAncestor(t *testing.T) {
	parentStyle := values.NewComputedStyle()
	parentStyle.Position = "relative"
	parentStyle.Width, parentStyle.Height = values.Px(200), values.Px(200)
	parent := &Box{Kind: KindBlock, Style: parentStyle}

	childStyle := values.NewComputedStyle()
	childStyle.Position = "absolute"
	childStyle.Left, childStyle.Top = values.Px(10), values.Px(20)
	childStyle.Width, childStyle.Height = values.Px(30), values.Px(40)
	child := &Box{Kind: KindBlock, Style: childStyle}
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))
	ResolveAbsolutePositioning(parent, geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 10.0, child.ContentRect.X.ToPixels(), 1.0)
	assert.InDelta(t, 20.0, child.ContentRect.Y.ToPixels(), 1.0)
	assert.InDelta(t, 30.0, child.ContentRect.Width.ToPixels(), 1.0)
	assert.InDelta(t, 40.0, child.ContentRect.Height.ToPixels(), 1.0)
}

// TestResolveAbsolutePositioning_AutoInsetsKeepStaticPosition verifies the
// "both auto" case of spec §4.10: with no left/right/top/bottom set, the
// element stays at the static position it would have had in normal flow.
func TestResolveAbsolutePositioning_AutoInsetsKeepStaticPosition(t *testing.T) {
	parentStyle := values.NewComputedStyle()
	parentStyle.Position = "relative"
	parentStyle.Width, parentStyle.Height = values.Px(200), values.Px(200)
	parent := &Box{Kind: KindBlock, Style: parentStyle}

	before := &Box{Kind: KindBlock, Style: values.NewComputedStyle()}
	before.Style.Height = values.Px(50)

	childStyle := values.NewComputedStyle()
	childStyle.Position = "absolute"
	childStyle.Width, childStyle.Height = values.Px(30), values.Px(10)
	child := &Box{Kind: KindBlock, Style: childStyle}

	parent.Children = []*Box{before, child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))
	ResolveAbsolutePositioning(parent, geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, before.ContentRect.Y.ToPixels()+before.ContentRect.Height.ToPixels(), child.ContentRect.Y.ToPixels(), 1.0,
		"with both top and bottom auto, the element keeps the static position flow would have given it")
}

// TestResolveAbsolutePositioning_FixedUsesViewportAsContainingBlock verifies
// position:fixed resolves against the initial containing block regardless
// of any intervening positioned ancestor.
func TestResolveAbsolutePositioning_FixedUsesViewportAsContainingBlock(t *testing.T) {
	parentStyle := values.NewComputedStyle()
	parentStyle.Position = "relative"
	parentStyle.Width, parentStyle.Height = values.Px(200), values.Px(200)
	parent := &Box{Kind: KindBlock, Style: parentStyle}

	childStyle := values.NewComputedStyle()
	childStyle.Position = "fixed"
	childStyle.Right, childStyle.Bottom = values.Px(0), values.Px(0)
	childStyle.Width, childStyle.Height = values.Px(50), values.Px(50)
	child := &Box{Kind: KindBlock, Style: childStyle}
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))
	ResolveAbsolutePositioning(parent, geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 1024.0-50.0, child.ContentRect.X.ToPixels(), 1.0, "fixed right:0 pins to the viewport's right edge, not the relative ancestor's")
	assert.InDelta(t, 768.0-50.0, child.ContentRect.Y.ToPixels(), 1.0)
}

// TestResolveAbsolutePositioning_LeftAndRightBothSetSizesToFit verifies the
// CSS 2.1 §10.3.7 "sized to fit" rule: with width auto and both left and
// right set, the margin box stretches to exactly span the gap between them,
// rather than left silently winning and right being discarded.
func TestResolveAbsolutePositioning_LeftAndRightBothSetSizesToFit(t *testing.T) {
	parentStyle := values.NewComputedStyle()
	parentStyle.Position = "relative"
	parentStyle.Width, parentStyle.Height = values.Px(300), values.Px(200)
	parent := &Box{Kind: KindBlock, Style: parentStyle}

	childStyle := values.NewComputedStyle()
	childStyle.Position = "absolute"
	childStyle.Left, childStyle.Right = values.Px(10), values.Px(20)
	childStyle.Height = values.Px(40)
	child := &Box{Kind: KindBlock, Style: childStyle}
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(300), geometry.FromPixels(1024), geometry.FromPixels(768))
	ResolveAbsolutePositioning(parent, geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 10.0, child.ContentRect.X.ToPixels(), 1.0)
	assert.InDelta(t, 300.0-10.0-20.0, child.ContentRect.Width.ToPixels(), 1.0,
		"width should fit exactly between left:10 and right:20 in a 300px containing block")
}

// TestResolveAbsolutePositioning_TopAndBottomBothSetSizesToFit verifies the
// same "sized to fit" rule on the block axis: height auto with both top and
// bottom set stretches to span the gap between them.
func TestResolveAbsolutePositioning_TopAndBottomBothSetSizesToFit(t *testing.T) {
	parentStyle := values.NewComputedStyle()
	parentStyle.Position = "relative"
	parentStyle.Width, parentStyle.Height = values.Px(200), values.Px(300)
	parent := &Box{Kind: KindBlock, Style: parentStyle}

	childStyle := values.NewComputedStyle()
	childStyle.Position = "absolute"
	childStyle.Top, childStyle.Bottom = values.Px(15), values.Px(25)
	childStyle.Width = values.Px(40)
	child := &Box{Kind: KindBlock, Style: childStyle}
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))
	ResolveAbsolutePositioning(parent, geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 15.0, child.ContentRect.Y.ToPixels(), 1.0)
	assert.InDelta(t, 300.0-15.0-25.0, child.ContentRect.Height.ToPixels(), 1.0,
		"height should fit exactly between top:15 and bottom:25 in a 300px containing block")
}
