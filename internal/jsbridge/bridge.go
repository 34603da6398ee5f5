// Package jsbridge implements the host-function contract the spec's
// external JS engine is expected to call against (spec §6 "Host-function
// contract"): it exposes a document object to a goja runtime, translating
// every mutating call into a dom.Mutation batch applied through
// dom.Store.Apply — jsbridge itself never touches the tree directly. Node
// identity crosses the JS boundary as an opaque decimal-string id, never a
// Go pointer (spec §6 "opaque node-id JS binding handles").
package jsbridge

import (
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"gocko/internal/css"
	"gocko/internal/dom"
	"gocko/internal/incremental"
)

// pendingNode is a createElement/createTextNode result not yet attached to
// the document — the DOM mutation protocol has no concept of a detached
// node, so the bridge holds it here until an appendChild call turns it into
// an InsertElement/InsertText mutation.
type pendingNode struct {
	isText bool
	tag    string
	text   string
	attrs  map[string]string
}

// Bridge connects a goja runtime to a dom.Store.
type Bridge struct {
	store   *dom.Store
	engine  *incremental.Engine
	vm      *goja.Runtime
	index   *css.RuleIndex // rebuilt by the caller on stylesheet change; may be nil
	mu      sync.Mutex
	pending map[dom.NodeID]*pendingNode
	listeners map[dom.NodeID]map[string][]goja.Callable
}

// New creates a Bridge over store, driving invalidation through engine on
// every applied mutation.
func New(store *dom.Store, engine *incremental.Engine, vm *goja.Runtime) *Bridge {
	return &Bridge{
		store:     store,
		engine:    engine,
		vm:        vm,
		pending:   make(map[dom.NodeID]*pendingNode),
		listeners: make(map[dom.NodeID]map[string][]goja.Callable),
	}
}

// SetRuleIndex updates the selector-matching index querySelector uses. A
// nil index makes querySelector/querySelectorAll fall back to tag/id/class
// exact matching only.
func (b *Bridge) SetRuleIndex(idx *css.RuleIndex) { b.index = idx }

func encodeID(id dom.NodeID) string { return strconv.FormatUint(uint64(id), 10) }

func decodeID(s string) (dom.NodeID, bool) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return dom.NodeID(v), true
}

// Install defines window.document on vm.
func (b *Bridge) Install() {
	doc := b.vm.NewObject()

	doc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		id, ok := b.store.GetElementByID(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return b.wrapNode(id)
	})
	doc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return b.wrapList(b.store.GetElementsByClassName(argString(call, 0)))
	})
	doc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return b.wrapList(b.store.GetElementsByTagName(argString(call, 0)))
	})
	doc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		matches := b.query(argString(call, 0))
		if len(matches) == 0 {
			return goja.Null()
		}
		return b.wrapNode(matches[0])
	})
	doc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.wrapList(b.query(argString(call, 0)))
	})
	doc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		id := b.store.MintID()
		b.mu.Lock()
		b.pending[id] = &pendingNode{tag: strings.ToLower(argString(call, 0)), attrs: map[string]string{}}
		b.mu.Unlock()
		return b.wrapNode(id)
	})
	doc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		id := b.store.MintID()
		b.mu.Lock()
		b.pending[id] = &pendingNode{isText: true, text: argString(call, 0)}
		b.mu.Unlock()
		return b.wrapNode(id)
	})
	if root, ok := b.firstByTag("html"); ok {
		doc.Set("documentElement", b.wrapNode(root))
	}
	if body, ok := b.firstByTag("body"); ok {
		doc.Set("body", b.wrapNode(body))
	}

	b.vm.Set("document", doc)
}

func (b *Bridge) firstByTag(tag string) (dom.NodeID, bool) {
	nodes := b.store.GetElementsByTagName(tag)
	if len(nodes) == 0 {
		return 0, false
	}
	return nodes[0], true
}

func argString(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Argument(i).String()
}

// query resolves selector against the live store. With a RuleIndex
// installed (SetRuleIndex), full selector-list syntax (combinators,
// attribute selectors, compound selectors) is matched against every node in
// document order via css.MatchesComplex; otherwise this degrades to the
// three bare #id/.class/tag forms a host script most commonly passes.
func (b *Bridge) query(selector string) []dom.NodeID {
	selector = strings.TrimSpace(selector)
	if b.index != nil {
		if sels := css.ParseSelectorList(selector); len(sels) > 0 {
			return b.queryComplex(sels)
		}
	}
	switch {
	case strings.HasPrefix(selector, "#"):
		if id, ok := b.store.GetElementByID(selector[1:]); ok {
			return []dom.NodeID{id}
		}
		return nil
	case strings.HasPrefix(selector, "."):
		return b.store.GetElementsByClassName(selector[1:])
	default:
		return b.store.GetElementsByTagName(selector)
	}
}

// queryComplex walks the whole tree in document order, returning every node
// that matches any selector in sels.
func (b *Bridge) queryComplex(sels []css.ComplexSelector) []dom.NodeID {
	var out []dom.NodeID
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if !b.store.IsText(id) {
			for _, sel := range sels {
				if css.MatchesComplex(b.store, sel, id) {
					out = append(out, id)
					break
				}
			}
		}
		for _, c := range b.store.Children(id) {
			walk(c)
		}
	}
	for _, c := range b.store.Children(dom.RootID) {
		walk(c)
	}
	return out
}

func (b *Bridge) wrapList(ids []dom.NodeID) *goja.Object {
	arr := b.vm.NewArray()
	for i, id := range ids {
		arr.Set(strconv.Itoa(i), b.wrapNode(id))
	}
	arr.Set("length", len(ids))
	return arr
}

// wrapNode builds the JS-facing node object for id — an element already in
// the store or a still-pending createElement/createTextNode result.
func (b *Bridge) wrapNode(id dom.NodeID) *goja.Object {
	obj := b.vm.NewObject()
	obj.Set("__nodeId", encodeID(id))

	b.mu.Lock()
	pend, isPending := b.pending[id]
	b.mu.Unlock()

	if isPending {
		if pend.isText {
			obj.Set("nodeType", 3)
			obj.Set("nodeValue", pend.text)
		} else {
			obj.Set("nodeType", 1)
			obj.Set("tagName", strings.ToUpper(pend.tag))
		}
	} else {
		if b.store.IsText(id) {
			obj.Set("nodeType", 3)
			obj.Set("nodeValue", b.store.TextOf(id))
		} else {
			obj.Set("nodeType", 1)
			obj.Set("tagName", strings.ToUpper(b.store.Tag(id)))
			if v, ok := b.store.Attr(id, "id"); ok {
				obj.Set("id", v)
			}
			if v, ok := b.store.Attr(id, "class"); ok {
				obj.Set("className", v)
			}
		}
	}

	obj.DefineAccessorProperty("textContent",
		b.vm.ToValue(func(goja.FunctionCall) goja.Value { return b.vm.ToValue(b.store.TextContent(id)) }),
		b.vm.ToValue(func(call goja.FunctionCall) goja.Value { b.setTextContent(id, argString(call, 0)); return goja.Undefined() }),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := b.store.Attr(id, argString(call, 0))
		if !ok {
			return goja.Null()
		}
		return b.vm.ToValue(v)
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		b.setAttr(id, argString(call, 0), argString(call, 1))
		return goja.Undefined()
	})
	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		b.setAttr(id, argString(call, 0), "")
		return goja.Undefined()
	})
	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		childID, ok := b.nodeIDFromArg(call, 0)
		if ok {
			b.appendChild(id, childID)
		}
		return call.Argument(0)
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		b.remove(id)
		return goja.Undefined()
	})
	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if fn, ok := goja.AssertFunction(call.Argument(1)); ok {
			b.mu.Lock()
			if b.listeners[id] == nil {
				b.listeners[id] = make(map[string][]goja.Callable)
			}
			b.listeners[id][argString(call, 0)] = append(b.listeners[id][argString(call, 0)], fn)
			b.mu.Unlock()
		}
		return goja.Undefined()
	})
	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		b.dispatch(id, argString(call, 0))
		return b.vm.ToValue(true)
	})

	return obj
}

func (b *Bridge) nodeIDFromArg(call goja.FunctionCall, i int) (dom.NodeID, bool) {
	if i >= len(call.Arguments) {
		return 0, false
	}
	obj := call.Argument(i).ToObject(b.vm)
	if obj == nil {
		return 0, false
	}
	return decodeID(obj.Get("__nodeId").String())
}

// appendChild flushes a pending createElement/createTextNode result into a
// real InsertElement/InsertText mutation, or re-parents an already-live
// node by removing then re-inserting it (the mutation protocol has no
// single move primitive, matching spec §3's six fixed variants).
func (b *Bridge) appendChild(parent, child dom.NodeID) {
	b.mu.Lock()
	pend, isPending := b.pending[child]
	if isPending {
		delete(b.pending, child)
	}
	b.mu.Unlock()

	var mutations []dom.Mutation
	if isPending {
		if pend.isText {
			mutations = append(mutations, dom.Mutation{Kind: dom.InsertText, Node: child, Parent: parent, Pos: -1, Text: pend.text})
		} else {
			mutations = append(mutations, dom.Mutation{Kind: dom.InsertElement, Node: child, Parent: parent, Pos: -1, Tag: pend.tag})
			for k, v := range pend.attrs {
				mutations = append(mutations, dom.Mutation{Kind: dom.SetAttr, Node: child, Name: k, Value: v})
			}
		}
	} else if b.store.Exists(child) {
		// Re-parenting an already-live node: NodeIDs are never reused (spec
		// §3), so the move is a remove-then-insert-under-a-fresh-id, not an
		// in-place reparent. Only leaf nodes are supported here — moving a
		// subtree would require recursively cloning every descendant under
		// a fresh id, which this bridge does not implement.
		if b.store.IsText(child) {
			mutations = append(mutations, dom.Mutation{Kind: dom.RemoveNode, Node: child})
			mutations = append(mutations, dom.Mutation{Kind: dom.InsertText, Node: b.store.MintID(), Parent: parent, Pos: -1, Text: b.store.TextOf(child)})
		} else if len(b.store.Children(child)) == 0 {
			tag := b.store.Tag(child)
			attrs := b.store.Attrs(child)
			mutations = append(mutations, dom.Mutation{Kind: dom.RemoveNode, Node: child})
			newID := b.store.MintID()
			mutations = append(mutations, dom.Mutation{Kind: dom.InsertElement, Node: newID, Parent: parent, Pos: -1, Tag: tag})
			for _, a := range attrs {
				mutations = append(mutations, dom.Mutation{Kind: dom.SetAttr, Node: newID, Name: a.Name, Value: a.Value})
			}
		}
	}
	b.apply(mutations)
}

func (b *Bridge) setAttr(id dom.NodeID, name, value string) {
	b.mu.Lock()
	if pend, ok := b.pending[id]; ok && !pend.isText {
		pend.attrs[name] = value
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.apply([]dom.Mutation{{Kind: dom.SetAttr, Node: id, Name: name, Value: value}})
}

func (b *Bridge) setTextContent(id dom.NodeID, text string) {
	if !b.store.Exists(id) {
		return
	}
	var mutations []dom.Mutation
	for _, child := range b.store.Children(id) {
		mutations = append(mutations, dom.Mutation{Kind: dom.RemoveNode, Node: child})
	}
	mutations = append(mutations, dom.Mutation{Kind: dom.InsertText, Node: b.store.MintID(), Parent: id, Pos: -1, Text: text})
	b.apply(mutations)
}

func (b *Bridge) remove(id dom.NodeID) {
	if !b.store.Exists(id) {
		return
	}
	b.apply([]dom.Mutation{{Kind: dom.RemoveNode, Node: id}})
}

// apply commits each mutation as its own batch rather than one combined
// batch: Store.validate checks a mutation's referenced node/parent against
// already-committed state, so a multi-step sequence like
// InsertElement-then-SetAttr-on-that-element must be applied incrementally,
// not atomically, or the second step fails validation against a node the
// first step hasn't committed yet.
func (b *Bridge) apply(mutations []dom.Mutation) {
	for _, m := range mutations {
		if err := b.store.Apply(dom.Batch{m}); err != nil {
			return
		}
		b.engine.InvalidateNode(m.Node)
		if m.Parent != dom.RootID {
			b.engine.InvalidateNode(m.Parent)
		}
	}
}

// dispatch synchronously invokes every listener registered for (id, event),
// matching the spec §6 host-function contract's synchronous callback model.
func (b *Bridge) dispatch(id dom.NodeID, event string) {
	b.mu.Lock()
	fns := append([]goja.Callable(nil), b.listeners[id][event]...)
	b.mu.Unlock()
	evtObj := b.vm.NewObject()
	evtObj.Set("type", event)
	for _, fn := range fns {
		fn(goja.Undefined(), b.vm.ToValue(evtObj))
	}
}
