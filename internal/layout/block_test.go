package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

func blockBox(width, height values.Length) *Box {
	style := values.NewComputedStyle()
	style.Width, style.Height = width, height
	return &Box{Kind: KindBlock, Style: style}
}

// TestLayoutBlock_AutoMarginsCenterAFixedWidthBox verifies CSS 2.1 §10.3.3:
// margin: 0 auto on a box with a definite width splits the remaining
// inline space evenly between the two auto margins.
func TestLayoutBlock_AutoMarginsCenterAFixedWidthBox(t *testing.T) {
	child := blockBox(values.Px(150), values.Auto())
	child.Style.MarginLeft, child.Style.MarginRight = values.Auto(), values.Auto()
	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(450), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, 150.0, child.ContentRect.X.ToPixels(), 1.0, "leftover 300px should split 150/150 around a 150px box")
}

// TestLayoutBlock_AutoMarginsSingleSideAbsorbsRemainder verifies a single
// auto margin takes the entire leftover space.
func TestLayoutBlock_AutoMarginsSingleSideAbsorbsRemainder(t *testing.T) {
	child := blockBox(values.Px(100), values.Auto())
	child.Style.MarginLeft = values.Auto()
	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{child}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(300), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, 200.0, child.ContentRect.X.ToPixels(), 1.0)
}

// TestLayoutBlock_AdjacentSiblingMarginsCollapse verifies the classic
// pairwise case: a 20px bottom margin and a 10px top margin between two
// siblings collapse to 20px, not 30px.
func TestLayoutBlock_AdjacentSiblingMarginsCollapse(t *testing.T) {
	a := blockBox(values.Auto(), values.Px(50))
	a.Style.MarginBottom = values.Px(20)
	b := blockBox(values.Auto(), values.Px(50))
	b.Style.MarginTop = values.Px(10)
	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{a, b}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	gap := b.ContentRect.Y - (a.ContentRect.Y + a.ContentRect.Height)
	assert.InDelta(t, 20.0, gap.ToPixels(), 1.0)
}

// TestLayoutBlock_StructurallyEmptyChainCollapsesThrough verifies a chain
// of empty nested divs doesn't stack each one's own margin as a separate
// gap: only the largest collapses.
func TestLayoutBlock_StructurallyEmptyChainCollapsesThrough(t *testing.T) {
	innerEmpty := blockBox(values.Auto(), values.Auto())
	innerEmpty.Style.MarginTop = values.Px(30)
	outerEmpty := blockBox(values.Auto(), values.Auto())
	outerEmpty.Style.MarginTop = values.Px(10)
	outerEmpty.Children = []*Box{innerEmpty}

	prev := blockBox(values.Auto(), values.Px(20))
	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{prev, outerEmpty}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	gap := outerEmpty.ContentRect.Y - (prev.ContentRect.Y + prev.ContentRect.Height)
	assert.InDelta(t, 30.0, gap.ToPixels(), 1.0, "the chain's largest margin (30px) should win, not 10+30")
}

// TestLayoutBlock_ParentCollapsesWithFirstChild verifies a parent with no
// top border/padding and no BFC of its own lets its first in-flow child's
// top margin pass through rather than stacking on top of its own: the
// child sits flush at the parent's content top, and the parent exposes the
// collapsed (not its own raw) margin upward to whatever positions it.
func TestLayoutBlock_ParentCollapsesWithFirstChild(t *testing.T) {
	first := blockBox(values.Auto(), values.Px(40))
	first.Style.MarginTop = values.Px(25)
	container := blockBox(values.Auto(), values.Auto())
	container.Style.MarginTop = values.Px(5)
	container.Children = []*Box{first}

	LayoutBlock(container, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, container.ContentRect.Y.ToPixels(), first.ContentRect.Y.ToPixels(), 1.0,
		"first child must be flush with container's content top, its own margin already collapsed upward")

	ctx := resolveContextFor(container.Style, geometry.FromPixels(200), 0, geometry.FromPixels(800), geometry.FromPixels(600))
	assert.InDelta(t, 25.0, effectiveMarginTop(container, ctx).ToPixels(), 1.0,
		"container must expose the collapsed max(5,25)=25 margin to its own parent, not its raw 5px")
}

// TestLayoutBlock_LeftFloatNarrowsSiblingAndIsCleared verifies a left
// float reduces a following in-flow sibling's available width/X-origin,
// and that clear: left pushes a subsequent sibling below it.
func TestLayoutBlock_LeftFloatNarrowsSiblingAndIsCleared(t *testing.T) {
	float := blockBox(values.Px(60), values.Px(40))
	float.Style.Float = "left"

	sibling := blockBox(values.Auto(), values.Px(10))

	cleared := blockBox(values.Auto(), values.Px(10))
	cleared.Style.Clear = "left"

	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{float, sibling, cleared}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, 60.0, sibling.ContentRect.X.ToPixels(), 1.0, "sibling should start past the float's right edge")
	assert.InDelta(t, 140.0, sibling.ContentRect.Width.ToPixels(), 1.0, "sibling's available width should shrink by the float's width")
	assert.GreaterOrEqual(t, cleared.ContentRect.Y.ToPixels(), float.ContentRect.Y.ToPixels()+float.ContentRect.Height.ToPixels()-1.0,
		"clear: left must push the box below the float's bottom edge")
}

// TestLayoutBlock_NonBFCParentDoesNotGrowForFloats verifies the classic
// "collapsing parent" case: a box with only floated children and no BFC of
// its own reports zero content height.
func TestLayoutBlock_NonBFCParentDoesNotGrowForFloats(t *testing.T) {
	float := blockBox(values.Px(50), values.Px(80))
	float.Style.Float = "left"
	parent := blockBox(values.Auto(), values.Auto())
	parent.Children = []*Box{float}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, 0.0, parent.ContentRect.Height.ToPixels(), 1.0)
}

// TestLayoutBlock_BFCParentGrowsToContainFloats verifies a box that
// establishes its own BFC (overflow: hidden here) does stretch to contain
// its floated children.
func TestLayoutBlock_BFCParentGrowsToContainFloats(t *testing.T) {
	float := blockBox(values.Px(50), values.Px(80))
	float.Style.Float = "left"
	parent := blockBox(values.Auto(), values.Auto())
	parent.Style.OverflowX, parent.Style.OverflowY = "hidden", "hidden"
	parent.Children = []*Box{float}

	LayoutBlock(parent, 0, 0, geometry.FromPixels(200), geometry.FromPixels(800), geometry.FromPixels(600))

	assert.InDelta(t, 80.0, parent.ContentRect.Height.ToPixels(), 1.0)
}
