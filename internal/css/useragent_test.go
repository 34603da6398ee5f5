package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/dom"
	"gocko/internal/logging"
)

// TestUserAgentStylesheet_DefaultsDisplay verifies the built-in UA sheet
// assigns the conventional default display for block/inline/none elements
// even with no author rules present (spec §4.2's merged-view base layer).
func TestUserAgentStylesheet_DefaultsDisplay(t *testing.T) {
	store := dom.NewStore(logging.Default())
	root := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: dom.RootID, Node: root, Tag: "html", Pos: -1}}))
	div := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: root, Node: div, Tag: "div", Pos: -1}}))
	span := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: div, Node: span, Tag: "span", Pos: -1}}))
	head := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: root, Node: head, Tag: "head", Pos: -1}}))

	ua := BuildUserAgentStylesheet()
	idx := BuildRuleIndex(ua)
	styles := NewCascade(store, idx).ResolveTree(dom.RootID)

	assert.Equal(t, "block", styles[div].Display)
	assert.Equal(t, "inline", styles[span].Display)
	assert.Equal(t, "none", styles[head].Display)
}

// TestMerge_AuthorWinsOverUserAgent verifies author rules of equal
// specificity override UA defaults, since Merge orders UA rules first
// (spec §4.2 "merged view ordered UA rules first, author rules second").
func TestMerge_AuthorWinsOverUserAgent(t *testing.T) {
	store := dom.NewStore(logging.Default())
	root := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: dom.RootID, Node: root, Tag: "html", Pos: -1}}))
	span := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: root, Node: span, Tag: "span", Pos: -1}}))

	author := ParseStylesheet("span { display: block; }", OriginAuthor)
	merged := Merge(BuildUserAgentStylesheet(), author)
	idx := BuildRuleIndex(merged)
	styles := NewCascade(store, idx).ResolveTree(dom.RootID)

	assert.Equal(t, "block", styles[span].Display)
}
