package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/css"
	"gocko/internal/dom"
	"gocko/internal/htmlload"
	"gocko/internal/logging"
)

// TestFlatten_ReturnsRectForEveryElement verifies the "{ NodeId -> LayoutRect
// }" query output (spec §6 "Layout query output") includes every real
// element node and excludes anonymous boxes and line boxes.
func TestFlatten_ReturnsRectForEveryElement(t *testing.T) {
	store := dom.NewStore(logging.Default())
	doc, err := htmlload.Load(store, `<html><body><div id="a">hi <span id="b">there</span></div></body></html>`)
	require.NoError(t, err)

	ua := css.BuildUserAgentStylesheet()
	author := css.ParseStylesheet(doc.Stylesheet, css.OriginAuthor)
	idx := css.BuildRuleIndex(css.Merge(ua, author))
	styles := css.NewCascade(store, idx).ResolveTree(dom.RootID)

	tree := Run(store, styles, dom.RootID, 800, 600)
	rects := Flatten(tree)

	a, ok := store.GetElementByID("a")
	require.True(t, ok)
	b, ok := store.GetElementByID("b")
	require.True(t, ok)

	rectA, ok := rects[a]
	require.True(t, ok, "expected a rect for #a")
	rectB, ok := rects[b]
	require.True(t, ok, "expected a rect for #b")

	assert.GreaterOrEqual(t, rectA.Width, 0)
	assert.GreaterOrEqual(t, rectB.Width, 0)
}
