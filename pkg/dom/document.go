package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns an element tree rooted at a body element, the listeners
// registered on the document surface, and the registered layouts.
//
// A Document is not safe for concurrent use. Hosts serialize access, which
// matches the single-threaded event model of the browser.
type Document struct {
	body      *Element
	elements  map[*html.Node]*Element
	byHID     map[string]*Element
	nextHID   uint64
	selectors selectorCache
	listeners listenerSet

	observers []observerEntry
	nextObsID uint64
	layouts   []layoutEntry
}

type layoutEntry struct {
	el     *Element
	layout Layout
}

// NewDocument creates an empty document with a body element.
func NewDocument() *Document {
	d := &Document{
		elements:  make(map[*html.Node]*Element),
		byHID:     make(map[string]*Element),
		selectors: make(selectorCache),
	}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.wrap(n)
}

// Parse parses an HTML fragment in body context and returns its top-level
// elements, detached. Every element in the fragment receives an HID in
// document order.
func (d *Document) Parse(markup string) ([]*Element, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), d.body.node)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	var out []*Element
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		adopt(n, d.wrap)
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// MustParse is like Parse but panics on error and expects exactly one
// top-level element.
func (d *Document) MustParse(markup string) *Element {
	els, err := d.Parse(markup)
	if err != nil {
		panic(err)
	}
	if len(els) != 1 {
		panic(fmt.Sprintf("dom: MustParse: want 1 top-level element, got %d", len(els)))
	}
	return els[0]
}

// ByHID returns the connected element with the given hydration ID, or nil.
func (d *Document) ByHID(hid string) *Element {
	el := d.byHID[hid]
	if el == nil || !el.Connected() {
		return nil
	}
	return el
}

// Registered returns the number of element wrappers the document itself
// holds. Removed subtrees are owned by their removed root instead.
func (d *Document) Registered() int {
	return len(d.elements)
}

// adopt wraps every element under n.
func adopt(n *html.Node, wrap func(*html.Node) *Element) {
	if n.Type == html.ElementNode {
		wrap(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		adopt(c, wrap)
	}
}

// wrap returns the document-owned Element for n, creating it on first sight.
func (d *Document) wrap(n *html.Node) *Element {
	return d.wrapIn(nil, n)
}

// wrapIn returns the Element for n from the table of root, or of the
// document when root is nil.
func (d *Document) wrapIn(root *Element, n *html.Node) *Element {
	table := d.table(root)
	if el, ok := table[n]; ok {
		return el
	}
	d.nextHID++
	el := &Element{doc: d, node: n, hid: fmt.Sprintf("h%d", d.nextHID), root: root}
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool { return a.Key == HIDAttr })
	n.Attr = append(n.Attr, html.Attribute{Key: HIDAttr, Val: el.hid})
	table[n] = el
	if root == nil {
		d.byHID[el.hid] = el
	}
	return el
}

func (d *Document) table(root *Element) map[*html.Node]*Element {
	if root == nil {
		return d.elements
	}
	return root.detached
}

// detach makes e the root of its own removed subtree. The wrappers under e
// leave their current table, and the document forgets their HIDs, so a
// subtree nobody re-inserts is garbage once its last reference goes.
func (d *Document) detach(e *Element) {
	if e.root == e {
		return
	}
	from := d.table(e.root)
	e.detached = make(map[*html.Node]*Element)
	d.rehome(e.node, from, e)
}

// attach moves child's subtree into the table that owns parent. A removed
// root stops being one.
func (d *Document) attach(parent, child *Element) {
	if child.root == parent.root {
		return
	}
	wasRoot := child.root == child
	d.rehome(child.node, d.table(child.root), parent.root)
	if wasRoot {
		child.detached = nil
	}
}

// rehome moves the wrappers of n's subtree from one table to root's.
func (d *Document) rehome(n *html.Node, from map[*html.Node]*Element, root *Element) {
	to := d.table(root)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if el, ok := from[n]; ok {
			delete(from, n)
			switch {
			case root == nil:
				d.byHID[el.hid] = el
			case el.root == nil:
				delete(d.byHID, el.hid)
			}
			el.root = root
			to[n] = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
}

// =============================================================================
// Document surface
// =============================================================================

// On registers a document-level listener for the space-separated types.
func (d *Document) On(types string, fn Listener) Handle {
	return d.listeners.add(types, fn)
}

// ListenerCount returns the number of document-level listeners for typ.
func (d *Document) ListenerCount(typ string) int {
	return d.listeners.count(typ)
}

// Selectable reports whether text selection is enabled on the document.
func (d *Document) Selectable() bool {
	return d.body.Attr("unselectable") != "on"
}

// SetSelectable toggles text selection. Disabling it sets the body's
// unselectable attribute to "on"; enabling it sets "off".
func (d *Document) SetSelectable(on bool) {
	if on {
		d.body.SetAttr("unselectable", "off")
	} else {
		d.body.SetAttr("unselectable", "on")
	}
}

// =============================================================================
// Dispatch
// =============================================================================

// Dispatch delivers ev to its target, then to each ancestor, then to the
// document, stopping after the level at which StopPropagation was called.
// A nil target dispatches to the document only.
func (d *Document) Dispatch(ev *Event) {
	for el := ev.Target; el != nil; el = el.Parent() {
		ev.CurrentTarget = el
		for _, fn := range el.listeners.matching(ev.Type) {
			fn(ev)
		}
		if ev.stopped {
			ev.CurrentTarget = nil
			return
		}
	}
	ev.CurrentTarget = nil
	for _, fn := range d.listeners.matching(ev.Type) {
		fn(ev)
	}
}

// ElementAt returns the topmost connected element whose box contains p.
// Later elements in document order paint above earlier ones. The body is
// returned when nothing else is hit.
func (d *Document) ElementAt(p Point) *Element {
	hit := d.body
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			el := d.wrap(c)
			if el.box.Contains(p) {
				hit = el
			}
			walk(c)
		}
	}
	walk(d.body.node)
	return hit
}

// Pointer synthesizes a pointer event at p, targets the element under the
// pointer and dispatches it. Touch events carry p as their only touch,
// except touchend and touchcancel which carry none.
func (d *Document) Pointer(typ string, p Point, button int) *Event {
	target := d.ElementAt(p)
	ev := &Event{
		Type:   typ,
		Target: target,
		Button: button,
		Client: p,
		Offset: p.Sub(target.Box().Origin()),
	}
	if ev.IsTouch() && typ != EventTouchEnd && typ != EventTouchCancel {
		ev.Touches = []Point{p}
	}
	d.Dispatch(ev)
	return ev
}

// =============================================================================
// Layout
// =============================================================================

// SetLayout registers l for container. A nil layout unregisters it.
func (d *Document) SetLayout(container *Element, l Layout) {
	i := slices.IndexFunc(d.layouts, func(e layoutEntry) bool { return e.el == container })
	switch {
	case l == nil && i >= 0:
		d.layouts = slices.Delete(d.layouts, i, i+1)
	case l == nil:
	case i >= 0:
		d.layouts[i].layout = l
	default:
		d.layouts = append(d.layouts, layoutEntry{el: container, layout: l})
	}
}

// Reflow runs every registered layout in registration order.
func (d *Document) Reflow() {
	for _, e := range d.layouts {
		e.layout.Arrange(e.el)
	}
}

// =============================================================================
// Observation
// =============================================================================

// Observe registers fn to receive mutations of connected elements. The
// returned function unregisters it.
func (d *Document) Observe(fn Observer) (cancel func()) {
	d.nextObsID++
	id := d.nextObsID
	d.observers = append(d.observers, observerEntry{id: id, fn: fn})
	return func() {
		d.observers = slices.DeleteFunc(d.observers, func(o observerEntry) bool {
			return o.id == id
		})
	}
}

func (d *Document) notify(m Mutation) {
	if len(d.observers) == 0 {
		return
	}
	switch m.Kind {
	case AttrSet, AttrRemoved:
		if !m.Target.Connected() {
			return
		}
	}
	for _, o := range slices.Clone(d.observers) {
		o.fn(m)
	}
}
