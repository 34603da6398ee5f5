package layout

import (
	"gocko/internal/dom"
	"gocko/internal/geometry"
	"gocko/internal/style/values"
)

// Run is the central layout driver (spec §9 "a tagged variant dispatched in
// one central driver"): it normalizes the styled DOM into a box tree and
// runs the block/inline/flex/grid/abspos passes over it, returning the
// fully positioned tree ready for display-list construction.
func Run(store *dom.Store, styles map[dom.NodeID]*values.ComputedStyle, root dom.NodeID, viewportWidth, viewportHeight int) *Box {
	vw := geometry.FromPixels(float64(viewportWidth))
	vh := geometry.FromPixels(float64(viewportHeight))

	tree := BuildBoxTree(store, styles, root)
	dispatchRoot(tree, vw, vh)
	ResolveAbsolutePositioning(tree, vw, vh)
	return tree
}

func dispatchRoot(tree *Box, vw, vh geometry.Subpixel) {
	switch tree.Kind {
	case KindFlex:
		LayoutFlex(tree, 0, 0, vw, vw, vh)
	case KindGrid:
		LayoutGrid(tree, 0, 0, vw, vw, vh)
	default:
		LayoutBlock(tree, 0, 0, vw, vw, vh)
	}
}
