// Package htmlload turns an HTML fixture file into the DOM mutation batch
// that is the engine's only legal input (spec §3/§6 "DOM mutation protocol
// ... the entire write surface"). It uses golang.org/x/net/html purely as a
// tokenizer/tree-builder over the raw markup — grounded on
// iansmith-louis14's `cmd/louis14/main.go` html.Parse-then-layout pipeline
// — and discards that tree immediately after translating it into our own
// NodeId-indexed Mutation stream; nothing downstream ever sees an
// *html.Node.
package htmlload

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"gocko/internal/dom"
)

// Document reports the outcome of loading a fixture: every mutation that
// was applied, in order, plus any inline stylesheet text collected from
// <style> elements in document order (concatenated, since cascade order
// only depends on source order, per spec §4.4).
type Document struct {
	Mutations  []dom.Mutation
	Stylesheet string
}

// Load parses htmlSource and applies it to store one mutation at a time.
// Mutations are applied individually rather than as one large batch because
// Store.validate checks each mutation's parent against already-committed
// state (spec §4.1's per-mutation ordering guarantee, not a multi-level
// transaction): a batch containing an element and its not-yet-inserted
// children would fail validation on the children.
func Load(store *dom.Store, htmlSource string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := walk(store, root, dom.RootID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func apply(store *dom.Store, doc *Document, m dom.Mutation) error {
	if err := store.Apply(dom.Batch{m}); err != nil {
		return err
	}
	doc.Mutations = append(doc.Mutations, m)
	return nil
}

func walk(store *dom.Store, n *html.Node, parent dom.NodeID, doc *Document) error {
	switch n.Type {
	case html.ElementNode:
		id := store.MintID()
		if err := apply(store, doc, dom.Mutation{
			Kind: dom.InsertElement, Parent: parent, Node: id, Tag: strings.ToLower(n.Data), Pos: -1,
		}); err != nil {
			return err
		}
		for _, a := range n.Attr {
			if err := apply(store, doc, dom.Mutation{
				Kind: dom.SetAttr, Node: id, Name: a.Key, Value: a.Val,
			}); err != nil {
				return err
			}
		}
		if n.DataAtom == atom.Style {
			doc.Stylesheet += styleText(n) + "\n"
			return nil // <style> content is not a text-node child of the box tree
		}
		if n.DataAtom == atom.Script {
			return nil // script execution is a host-embedder concern, not this engine's
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(store, c, id, doc); err != nil {
				return err
			}
		}
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		id := store.MintID()
		if err := apply(store, doc, dom.Mutation{
			Kind: dom.InsertText, Parent: parent, Node: id, Text: n.Data, Pos: -1,
		}); err != nil {
			return err
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(store, c, parent, doc); err != nil {
				return err
			}
		}
	default:
		// DoctypeNode, CommentNode: discarded per spec §6 "Unknown at-rules
		// ... are parsed and discarded (silently)" extended to non-CSS
		// markup noise the box tree has no use for.
	}
	return nil
}

func styleText(styleEl *html.Node) string {
	var sb strings.Builder
	for c := styleEl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
