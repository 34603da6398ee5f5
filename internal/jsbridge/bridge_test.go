package jsbridge

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/css"
	"gocko/internal/dom"
	"gocko/internal/incremental"
	"gocko/internal/logging"
)

func newTestBridge(t *testing.T) (*Bridge, *goja.Runtime, *dom.Store) {
	t.Helper()
	store := dom.NewStore(logging.Default())
	root := store.MintID()
	require.NoError(t, store.Apply(dom.Batch{{Kind: dom.InsertElement, Parent: dom.RootID, Node: root, Tag: "body", Pos: -1}}))

	vm := goja.New()
	b := New(store, incremental.New(), vm)
	b.Install()
	return b, vm, store
}

// TestBridge_CreateAndAppendElement verifies createElement + appendChild
// flushes a pending node into a real InsertElement mutation only once it is
// attached (spec §6 "Host-function contract" has no detached-node concept).
func TestBridge_CreateAndAppendElement(t *testing.T) {
	_, vm, store := newTestBridge(t)

	_, err := vm.RunString(`
		var el = document.createElement("div");
		el.setAttribute("id", "widget");
		document.body.appendChild(el);
	`)
	require.NoError(t, err)

	id, ok := store.GetElementByID("widget")
	require.True(t, ok, "expected #widget to exist after appendChild")
	assert.Equal(t, "div", store.Tag(id))
}

// TestBridge_TextContentRoundTrip verifies the textContent accessor both
// reads and replaces a node's text via Store mutations, not direct struct
// writes.
func TestBridge_TextContentRoundTrip(t *testing.T) {
	_, vm, store := newTestBridge(t)

	_, err := vm.RunString(`
		var el = document.createElement("p");
		document.body.appendChild(el);
		el.textContent = "hello world";
	`)
	require.NoError(t, err)

	ids := store.GetElementsByTagName("p")
	require.Len(t, ids, 1)
	assert.Equal(t, "hello world", store.TextContent(ids[0]))
}

// TestBridge_QuerySelectorByID verifies bare #id selector resolution
// against the live store, reflecting mutations already applied.
func TestBridge_QuerySelectorByID(t *testing.T) {
	_, vm, _ := newTestBridge(t)

	v, err := vm.RunString(`
		var el = document.createElement("span");
		el.setAttribute("id", "target");
		document.body.appendChild(el);
		var found = document.querySelector("#target");
		found ? found.id : null;
	`)
	require.NoError(t, err)
	assert.Equal(t, "target", v.Export())
}

// TestBridge_QuerySelectorAllWithCombinatorNeedsRuleIndex verifies that a
// combinator selector (not one of the bare #id/.class/tag forms) only
// resolves once a RuleIndex has been installed via SetRuleIndex, and then
// matches full selector-list syntax against the live tree rather than just
// the bare forms.
func TestBridge_QuerySelectorAllWithCombinatorNeedsRuleIndex(t *testing.T) {
	b, vm, _ := newTestBridge(t)

	_, err := vm.RunString(`
		var card = document.createElement("div");
		card.setAttribute("class", "card");
		document.body.appendChild(card);
		var title = document.createElement("h2");
		card.appendChild(title);
	`)
	require.NoError(t, err)

	withoutIndex, err := vm.RunString(`document.querySelectorAll(".card h2").length`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), withoutIndex.Export(), "combinator selectors should not match anything before a RuleIndex is installed")

	b.SetRuleIndex(css.BuildRuleIndex(css.ParseStylesheet("", css.OriginAuthor)))

	withIndex, err := vm.RunString(`document.querySelectorAll(".card h2").length`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), withIndex.Export())
}
