package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

func flexBox(kind BoxKind) *Box {
	style := values.NewComputedStyle()
	return &Box{Kind: kind, Style: style}
}

// TestLayoutFlex_RowGrowDistributesFreeSpace verifies spec §8 scenario S3: a
// 300px row container with two items at flex-grow 1 and 2 splits the 300px
// 100/200, placed left to right.
func TestLayoutFlex_RowGrowDistributesFreeSpace(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Display = "flex"
	container.Style.Width = values.Px(300)

	a := flexBox(KindBlock)
	a.Style.FlexGrow = 1
	b := flexBox(KindBlock)
	b.Style.FlexGrow = 2
	container.Children = []*Box{a, b}

	LayoutFlex(container, 0, 0, geometry.FromPixels(300), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 100.0, a.ContentRect.Width.ToPixels(), 1.0, "flex-grow:1 item gets 1/3 of 300px")
	assert.InDelta(t, 200.0, b.ContentRect.Width.ToPixels(), 1.0, "flex-grow:2 item gets 2/3 of 300px")
	assert.InDelta(t, 0.0, a.ContentRect.X.ToPixels(), 1.0)
	assert.InDelta(t, 100.0, b.ContentRect.X.ToPixels(), 1.0)
}

// TestLayoutFlex_GrowZeroLeavesSlackAtEnd verifies spec §8's boundary
// behavior: flex-grow:0 items keep their base size and the container's
// surplus main space sits at the end under the default justify-content
// (flex-start).
func TestLayoutFlex_GrowZeroLeavesSlackAtEnd(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Width = values.Px(300)

	a := flexBox(KindBlock)
	a.Style.Width = values.Px(50)
	container.Children = []*Box{a}

	LayoutFlex(container, 0, 0, geometry.FromPixels(300), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 50.0, a.ContentRect.Width.ToPixels(), 1.0, "flex-grow:0 item keeps its base size")
	assert.InDelta(t, 0.0, a.ContentRect.X.ToPixels(), 1.0, "default justify-content:flex-start leaves slack after the item")
}

// TestLayoutFlex_ShrinkDistributesOverflowWeightedByBase verifies the
// flex-shrink branch: two items whose bases overflow the container shrink
// proportional to shrink*base.
func TestLayoutFlex_ShrinkDistributesOverflowWeightedByBase(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Width = values.Px(150)

	a := flexBox(KindBlock)
	a.Style.Width, a.Style.FlexShrink = values.Px(100), 1
	b := flexBox(KindBlock)
	b.Style.Width, b.Style.FlexShrink = values.Px(100), 1
	container.Children = []*Box{a, b}

	LayoutFlex(container, 0, 0, geometry.FromPixels(150), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 75.0, a.ContentRect.Width.ToPixels(), 1.0, "equal shrink factors split the 50px overflow evenly")
	assert.InDelta(t, 75.0, b.ContentRect.Width.ToPixels(), 1.0)
}

// TestLayoutFlex_JustifyContentCenter verifies the main-axis placement
// branch for a centered line with surplus space.
func TestLayoutFlex_JustifyContentCenter(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Width = values.Px(200)
	container.Style.JustifyContent = "center"

	a := flexBox(KindBlock)
	a.Style.Width = values.Px(100)
	container.Children = []*Box{a}

	LayoutFlex(container, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 50.0, a.ContentRect.X.ToPixels(), 1.0, "100px item in a 200px container centers at x=50")
}

// TestLayoutFlex_AlignItemsStretchFillsCrossSize verifies align-items:
// stretch lifts an item's cross size to the line's cross size when the
// item's own cross size (height, in a row container) is not set.
func TestLayoutFlex_AlignItemsStretchFillsCrossSize(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Width, container.Style.Height = values.Px(200), values.Px(80)
	container.Style.AlignItems = "stretch"

	a := flexBox(KindBlock)
	a.Style.Width = values.Px(50)
	tall := flexBox(KindBlock)
	tall.Style.Width, tall.Style.Height = values.Px(50), values.Px(80)
	container.Children = []*Box{a, tall}

	LayoutFlex(container, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 80.0, a.ContentRect.Height.ToPixels(), 1.0, "stretch should lift the auto-height item to the line's cross size")
}

// TestLayoutFlex_ColumnDirectionSwapsAxes verifies column flex distributes
// flex-grow along the block axis instead of the inline axis.
func TestLayoutFlex_ColumnDirectionSwapsAxes(t *testing.T) {
	container := flexBox(KindFlex)
	container.Style.Width, container.Style.Height = values.Px(200), values.Px(300)
	container.Style.FlexDirection = "column"

	a := flexBox(KindBlock)
	a.Style.FlexGrow = 1
	b := flexBox(KindBlock)
	b.Style.FlexGrow = 1
	container.Children = []*Box{a, b}

	LayoutFlex(container, 0, 0, geometry.FromPixels(200), geometry.FromPixels(1024), geometry.FromPixels(768))

	assert.InDelta(t, 150.0, a.ContentRect.Height.ToPixels(), 1.0, "equal grow in a column container splits block-axis space")
	assert.InDelta(t, 0.0, a.ContentRect.Y.ToPixels(), 1.0)
	assert.InDelta(t, 150.0, b.ContentRect.Y.ToPixels(), 1.0)
}
