package dom

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HIDAttr is the attribute that mirrors an element's hydration ID.
const HIDAttr = "data-hid"

// Element is a live element in a Document.
type Element struct {
	doc       *Document
	node      *html.Node
	hid       string
	box       Rect
	listeners listenerSet

	// root is the removed element whose table owns e, nil while the
	// document owns it. detached is that table, set on the root only.
	root     *Element
	detached map[*html.Node]*Element
}

// wrap returns the Element for n, which must be in e's tree.
func (e *Element) wrap(n *html.Node) *Element {
	return e.doc.wrapIn(e.root, n)
}

// HID returns the element's hydration ID.
func (e *Element) HID() string {
	return e.hid
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Node exposes the underlying html node. Mutating it directly bypasses
// mutation observers.
func (e *Element) Node() *html.Node {
	return e.node
}

// =============================================================================
// Attributes
// =============================================================================

// Attr returns the attribute value, or "" when absent.
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the attribute value and whether it is present.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing any previous value.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			if a.Val == value {
				return
			}
			e.node.Attr[i].Val = value
			e.doc.notify(Mutation{Kind: AttrSet, Target: e, Name: name, Value: value})
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
	e.doc.notify(Mutation{Kind: AttrSet, Target: e, Name: name, Value: value})
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	n := len(e.node.Attr)
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
	if len(e.node.Attr) != n {
		e.doc.notify(Mutation{Kind: AttrRemoved, Target: e, Name: name})
	}
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.Attr("id")
}

// =============================================================================
// Classes
// =============================================================================

// Classes returns the class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

// HasClass reports whether the element carries class name.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes(), name)
}

// AddClass adds each class that is not already present.
func (e *Element) AddClass(names ...string) {
	classes := e.Classes()
	changed := false
	for _, name := range names {
		for _, c := range strings.Fields(name) {
			if !slices.Contains(classes, c) {
				classes = append(classes, c)
				changed = true
			}
		}
	}
	if changed {
		e.SetAttr("class", strings.Join(classes, " "))
	}
}

// RemoveClass removes each listed class.
func (e *Element) RemoveClass(names ...string) {
	classes := e.Classes()
	n := len(classes)
	for _, name := range names {
		for _, c := range strings.Fields(name) {
			classes = slices.DeleteFunc(classes, func(s string) bool { return s == c })
		}
	}
	if len(classes) == n {
		return
	}
	if len(classes) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(classes, " "))
}

// =============================================================================
// Inline style
// =============================================================================

type styleDecl struct {
	prop  string
	value string
}

func parseStyle(s string) []styleDecl {
	var out []styleDecl
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		out = append(out, styleDecl{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []styleDecl) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteByte(';')
	}
	return b.String()
}

// Style returns an inline style property, or "".
func (e *Element) Style(prop string) string {
	for _, d := range parseStyle(e.Attr("style")) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	decls := parseStyle(e.Attr("style"))
	i := slices.IndexFunc(decls, func(d styleDecl) bool { return d.prop == prop })
	switch {
	case value == "" && i < 0:
		return
	case value == "":
		decls = slices.Delete(decls, i, i+1)
	case i < 0:
		decls = append(decls, styleDecl{prop: prop, value: value})
	default:
		if decls[i].value == value {
			return
		}
		decls[i].value = value
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(decls))
}

// Absolute reports whether the element is absolutely positioned and so
// taken out of flow.
func (e *Element) Absolute() bool {
	return e.Style("position") == "absolute"
}

// =============================================================================
// Geometry
// =============================================================================

// Box returns the element's offset box.
func (e *Element) Box() Rect {
	return e.box
}

// SetBox sets the offset box without touching styles.
func (e *Element) SetBox(r Rect) {
	e.box = r
}

// Place sets the offset box and mirrors it into left/top/width/height
// styles, so a rendered copy shows the element at the same place.
func (e *Element) Place(r Rect) {
	e.box = r
	e.SetStyle("left", px(r.Left))
	e.SetStyle("top", px(r.Top))
	e.SetStyle("width", px(r.Width))
	e.SetStyle("height", px(r.Height))
}

// MoveBy translates the box. Absolutely positioned elements also get their
// left/top styles updated.
func (e *Element) MoveBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	e.box = e.box.Translate(dx, dy)
	if e.Absolute() {
		e.SetStyle("left", px(e.box.Left))
		e.SetStyle("top", px(e.box.Top))
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// =============================================================================
// Tree
// =============================================================================

// Parent returns the parent element, or nil when detached or at the body.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.wrap(p)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.wrap(c))
		}
	}
	return out
}

// Index returns the position among the parent's element children, or -1.
func (e *Element) Index() int {
	if e.node.Parent == nil {
		return -1
	}
	i := 0
	for c := e.node.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == e.node {
			return i
		}
		if c.Type == html.ElementNode {
			i++
		}
	}
	return -1
}

// Connected reports whether the element is attached to its document's body.
func (e *Element) Connected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.body.node {
			return true
		}
	}
	return false
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// AppendChild appends child, moving it if it is already in the tree.
func (e *Element) AppendChild(child *Element) {
	e.InsertChild(-1, child)
}

// InsertChild inserts child so that it ends up at element index i among e's
// children. A negative or out-of-range index appends.
func (e *Element) InsertChild(i int, child *Element) {
	if child == nil || child == e || child.Contains(e) {
		return
	}
	wasConnected := child.Connected()
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.doc.attach(e, child)
	siblings := e.Children()
	if i < 0 || i >= len(siblings) {
		e.node.AppendChild(child.node)
	} else {
		e.node.InsertBefore(child.node, siblings[i].node)
	}

	switch connected := child.Connected(); {
	case connected && wasConnected:
		e.doc.notify(Mutation{Kind: ChildMoved, Target: child, Parent: e, Index: child.Index()})
	case connected:
		e.doc.notify(Mutation{Kind: ChildInserted, Target: child, Parent: e, Index: child.Index()})
	case wasConnected:
		e.doc.notify(Mutation{Kind: ChildRemoved, Target: child})
	}
}

// Remove detaches the element from its parent. The document stops
// resolving the subtree's HIDs until it is inserted again.
func (e *Element) Remove() {
	if e.node.Parent == nil {
		return
	}
	connected := e.Connected()
	e.node.Parent.RemoveChild(e.node)
	e.doc.detach(e)
	if connected {
		e.doc.notify(Mutation{Kind: ChildRemoved, Target: e})
	}
}

// CloneContent replaces e's children with deep copies of src's children.
// Copied elements get fresh HIDs and no listeners.
func (e *Element) CloneContent(src *Element) {
	e.dropChildren()
	for c := src.node.FirstChild; c != nil; c = c.NextSibling {
		cp := cloneNode(c)
		adopt(cp, e.wrap)
		e.node.AppendChild(cp)
	}
	if e.Connected() {
		e.doc.notify(Mutation{Kind: ContentReplaced, Target: e})
	}
}

// dropChildren unlinks every child node. Dropped elements become removed
// roots like Remove leaves them.
func (e *Element) dropChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		var el *Element
		if c.Type == html.ElementNode {
			el = e.wrap(c)
		}
		e.node.RemoveChild(c)
		if el != nil {
			e.doc.detach(el)
		}
		c = next
	}
}

func cloneNode(n *html.Node) *html.Node {
	cp := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.DeleteFunc(slices.Clone(n.Attr), func(a html.Attribute) bool { return a.Key == HIDAttr }),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(cloneNode(c))
	}
	return cp
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(s string) {
	e.dropChildren()
	if s != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
	if e.Connected() {
		e.doc.notify(Mutation{Kind: ContentReplaced, Target: e})
	}
}

// OuterHTML renders the element and its subtree.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.node)
	return b.String()
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// =============================================================================
// Listeners
// =============================================================================

// On registers fn for each space-separated event type in types.
func (e *Element) On(types string, fn Listener) Handle {
	return e.listeners.add(types, fn)
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	return e.listeners.count(typ)
}
