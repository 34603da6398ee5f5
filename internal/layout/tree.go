package layout

import (
	"strings"

	"gocko/internal/dom"
	"gocko/internal/style/values"
)

// BuildBoxTree walks store from root, producing a layout-ready Box tree
// (spec §4.5): display:none subtrees are pruned, display:contents nodes are
// replaced by their children, and runs of inline-level children inside a
// block container that also has block-level children are wrapped in
// anonymous block boxes so the block algorithm never has to special-case
// mixed content.
func BuildBoxTree(store *dom.Store, styles map[dom.NodeID]*values.ComputedStyle, root dom.NodeID) *Box {
	boxes := buildChildren(store, styles, root)
	if len(boxes) == 1 {
		return boxes[0]
	}
	// A document root with multiple top-level boxes is itself wrapped the
	// same way a block container with mixed content would be.
	return &Box{Kind: KindAnonymousBlock, Style: values.NewComputedStyle(), IsAnonymous: true, Children: boxes}
}

func buildBox(store *dom.Store, styles map[dom.NodeID]*values.ComputedStyle, node dom.NodeID) *Box {
	if store.IsText(node) {
		text := collapseWhitespace(store.TextOf(node))
		if text == "" {
			return nil
		}
		return &Box{Node: node, Kind: KindText, Style: styles[node], Text: text}
	}

	style := styles[node]
	if style == nil || style.IsHidden() {
		return nil
	}

	if style.Display == "contents" {
		// Splice children into the parent's run directly: represented here
		// as an anonymous pass-through box; BuildBoxTree's caller flattens
		// it when assembling children (see buildChildren).
		return &Box{Node: node, Kind: KindAnonymousBlock, Style: style, IsAnonymous: true,
			Children: buildChildren(store, styles, node)}
	}

	box := &Box{Node: node, Style: style, Kind: kindFor(style)}
	box.Children = buildChildren(store, styles, node)
	return box
}

func kindFor(style *values.ComputedStyle) BoxKind {
	switch {
	case style.IsFlex():
		return KindFlex
	case style.IsGrid():
		return KindGrid
	case style.Display == "inline-block":
		return KindInlineBlock
	case style.IsBlock():
		return KindBlock
	default:
		return KindInline
	}
}

// buildChildren lays out node's children and wraps mixed inline/block runs
// in anonymous block boxes (spec §4.5). display:contents children are
// spliced in place rather than appearing as a node of their own.
func buildChildren(store *dom.Store, styles map[dom.NodeID]*values.ComputedStyle, node dom.NodeID) []*Box {
	var flat []*Box
	for _, child := range store.Children(node) {
		b := buildBox(store, styles, child)
		if b == nil {
			continue
		}
		if b.IsAnonymous && !store.IsText(child) {
			flat = append(flat, b.Children...)
			continue
		}
		flat = append(flat, b)
	}
	if !hasMixedLevels(flat) {
		return flat
	}
	return wrapInlineRuns(flat)
}

func hasMixedLevels(boxes []*Box) bool {
	var sawBlock, sawInline bool
	for _, b := range boxes {
		if isBlockLevel(b) {
			sawBlock = true
		} else {
			sawInline = true
		}
	}
	return sawBlock && sawInline
}

func isBlockLevel(b *Box) bool {
	switch b.Kind {
	case KindBlock, KindFlex, KindGrid, KindAnonymousBlock:
		return true
	}
	return false
}

func wrapInlineRuns(boxes []*Box) []*Box {
	var out []*Box
	var run []*Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, &Box{Kind: KindAnonymousBlock, Style: values.NewComputedStyle(), IsAnonymous: true, Children: run})
		run = nil
	}
	for _, b := range boxes {
		if isBlockLevel(b) {
			flush()
			out = append(out, b)
		} else {
			run = append(run, b)
		}
	}
	flush()
	return out
}

// collapseWhitespace implements the white-space:normal run-of-whitespace
// collapse (spec §4.7). buildBox applies it to every text node whatever its
// white-space value, so pre and pre-wrap text is collapsed too.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
