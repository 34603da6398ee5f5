package htmlload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocko/internal/dom"
	"gocko/internal/logging"
)

// TestLoad_BuildsElementTree verifies a nested fixture becomes a DOM tree
// reachable from the root, with attributes and text content intact.
func TestLoad_BuildsElementTree(t *testing.T) {
	store := dom.NewStore(logging.Default())
	doc, err := Load(store, `<html><body><div id="main" class="card">hello</div></body></html>`)
	require.NoError(t, err)

	div, ok := store.GetElementByID("main")
	require.True(t, ok, "expected #main to be indexed")
	assert.Equal(t, "div", store.Tag(div))
	assert.True(t, store.HasClass(div, "card"))
	assert.Equal(t, "hello", store.TextContent(div))
	assert.NotEmpty(t, doc.Mutations)
}

// TestLoad_CollectsInlineStylesheet verifies <style> text is gathered into
// Document.Stylesheet in source order; the <style> element stays in the DOM
// but its text never becomes a child node.
func TestLoad_CollectsInlineStylesheet(t *testing.T) {
	store := dom.NewStore(logging.Default())
	doc, err := Load(store, `<html><head><style>div{color:red}</style></head><body></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, doc.Stylesheet, "color:red")

	style := firstOfTag(t, store, "style")
	assert.Empty(t, store.Children(style), "<style> text must not become a DOM child")
}

// TestLoad_SkipsScriptContent verifies script bodies never reach the store
// as text nodes (JS execution is a host-embedder concern, not this loader's).
func TestLoad_SkipsScriptContent(t *testing.T) {
	store := dom.NewStore(logging.Default())
	_, err := Load(store, `<html><body><script>document.write("x")</script></body></html>`)
	require.NoError(t, err)

	script := firstOfTag(t, store, "script")
	assert.Empty(t, store.Children(script), "script content must not become DOM children")
}

// TestLoad_SkipsWhitespaceOnlyText verifies pure-whitespace text nodes
// (formatting noise between tags) are dropped rather than minted as nodes.
func TestLoad_SkipsWhitespaceOnlyText(t *testing.T) {
	store := dom.NewStore(logging.Default())
	_, err := Load(store, "<html>\n  <body>\n    <p>hi</p>\n  </body>\n</html>")
	require.NoError(t, err)

	p := firstOfTag(t, store, "p")
	assert.Equal(t, "hi", store.TextContent(p))
}

func firstOfTag(t *testing.T, store *dom.Store, tag string) dom.NodeID {
	t.Helper()
	ids := store.GetElementsByTagName(tag)
	require.NotEmpty(t, ids, "expected at least one <%s>", tag)
	return ids[0]
}
