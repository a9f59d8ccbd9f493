package drag

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/vango-go/sortable/pkg/dom"
)

// State is the controller's drag state.
type State uint8

const (
	Idle State = iota
	Dragging
)

// String returns "idle" or "dragging".
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Controller manages drag-to-reorder for one container.
type Controller struct {
	doc       *dom.Document
	container *dom.Element
	opts      Options
	logger    *slog.Logger

	// starts holds the armed start listener of each item.
	starts map[*dom.Element]dom.Handle

	// Active drag. All nil/zero while idle.
	active  *dom.Element
	proxy   *dom.Element
	last    dom.Point
	session *dragSession

	closed bool
}

// New creates a controller for container and arms the current items.
// A nil opts uses DefaultOptions. opts is copied.
func New(doc *dom.Document, container *dom.Element, opts *Options) *Controller {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.fill()

	c := &Controller{
		doc:       doc,
		container: container,
		opts:      o,
		logger:    o.Logger.With("component", "drag", "container", container.HID()),
		starts:    make(map[*dom.Element]dom.Handle),
	}
	c.Refresh()
	return c
}

// Options returns a copy of the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Container returns the controlled container.
func (c *Controller) Container() *dom.Element {
	return c.container
}

// State reports whether a drag is in progress.
func (c *Controller) State() State {
	if c.active != nil {
		return Dragging
	}
	return Idle
}

// Active returns the dragged item, or nil.
func (c *Controller) Active() *dom.Element {
	return c.active
}

// Proxy returns the floating proxy, or nil.
func (c *Controller) Proxy() *dom.Element {
	return c.proxy
}

// Items returns the container's current items in document order. The list is
// recomputed on every call and never contains the proxy.
func (c *Controller) Items() []*dom.Element {
	items := c.container.QueryAll(c.opts.Items)
	if c.proxy != nil {
		items = slices.DeleteFunc(items, func(el *dom.Element) bool {
			return c.proxy.Contains(el)
		})
	}
	return items
}

// Refresh detaches every start listener and, when idle, arms one per current
// item. Calling it repeatedly leaves exactly one listener per item.
func (c *Controller) Refresh() {
	c.disarm()
	if c.closed || c.active != nil {
		return
	}
	for _, item := range c.Items() {
		c.starts[item] = item.On("mousedown touchstart", func(ev *dom.Event) {
			c.DragStart(ev, item)
		})
	}
	c.logger.Debug("armed items", "count", len(c.starts))
}

func (c *Controller) disarm() {
	for item, h := range c.starts {
		h.Remove()
		delete(c.starts, item)
	}
}

// DragStart starts dragging item. Non-primary buttons, pointer-downs
// outside the handle and cancellation by OnDragStart leave the controller
// idle.
func (c *Controller) DragStart(ev *dom.Event, item *dom.Element) {
	if c.closed || c.active != nil || item == nil {
		return
	}
	if !ev.IsPrimary() {
		return
	}
	if c.opts.Handle != "" {
		if ev.Target == nil || ev.Target.Closest(c.opts.Handle) == nil {
			return
		}
	}

	c.opts.OnDragStart(ev)
	if ev.PropagationStopped() {
		c.logger.Debug("drag start cancelled", "item", item.HID())
		return
	}

	c.session = acquireSession(c)
	item.AddClass(c.opts.ActiveClass)
	c.container.AddClass(c.opts.ContainerClass)

	c.active = item
	c.proxy = c.createProxy(item)
	c.disarm()
	c.last = ev.Point()

	c.logger.Debug("drag started", "item", item.HID(), "x", c.last.X, "y", c.last.Y)
}

// createProxy builds the floating copy of item: same tag, cloned content,
// same box, absolutely positioned above everything else.
func (c *Controller) createProxy(item *dom.Element) *dom.Element {
	proxy := c.doc.CreateElement(item.Tag())
	proxy.CloneContent(item)
	proxy.AddClass(c.opts.ProxyClass)
	proxy.SetStyle("position", "absolute")
	proxy.SetStyle("z-index", strconv.Itoa(c.opts.ProxyZIndex))
	proxy.Place(item.Box())

	parent := item.Parent()
	if parent == nil {
		parent = c.container
	}
	parent.AppendChild(proxy)
	return proxy
}

// Drag handles a pointer move during a drag.
func (c *Controller) Drag(ev *dom.Event) {
	if c.active == nil {
		return
	}

	c.opts.OnDrag(ev)
	if ev.PropagationStopped() {
		return
	}

	p := ev.Point()
	hit := c.hitPoint(ev)

	dx, dy := p.X-c.last.X, p.Y-c.last.Y
	if c.opts.LockX {
		dx = 0
	}
	if c.opts.LockY {
		dy = 0
	}
	c.proxy.MoveBy(dx, dy)

	items := c.Items()
	from := slices.Index(items, c.active)
	if from < 0 {
		// The active item left the list mid-drag; nothing to reorder.
		c.last = p
		return
	}
	for j, item := range items {
		if item == c.active {
			continue
		}
		if item.Box().ContainsStrict(hit) {
			c.logger.Debug("reorder", "from", from, "to", j)
			c.opts.OnReorder(from, j)
			break
		}
	}

	c.last = p
}

// hitPoint returns the pointer in the container's offset space: the
// target's box origin plus the event offset. Events without a target fall
// back to the client point.
func (c *Controller) hitPoint(ev *dom.Event) dom.Point {
	if ev.Target == nil || ev.Target == c.doc.Body() {
		return ev.Point()
	}
	return ev.Target.Box().Origin().Add(ev.Offset)
}

// DragEnd finishes the drag. OnDragEnd runs first; cleanup always follows,
// even if the callback stops propagation.
func (c *Controller) DragEnd(ev *dom.Event) {
	if c.active == nil {
		return
	}
	c.opts.OnDragEnd(ev)
	c.logger.Debug("drag ended", "item", c.active.HID())
	c.teardown()
	c.Refresh()
}

// teardown releases the drag without invoking callbacks.
func (c *Controller) teardown() {
	if c.session != nil {
		c.session.release()
		c.session = nil
	}
	if c.active != nil {
		c.active.RemoveClass(c.opts.ActiveClass)
	}
	c.container.RemoveClass(c.opts.ContainerClass)
	if c.proxy != nil {
		c.proxy.Remove()
	}
	c.active = nil
	c.proxy = nil
	c.last = dom.Point{}
}

// Close releases every listener the controller holds and abandons any drag
// in progress without invoking callbacks. The controller is inert afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.teardown()
	c.disarm()
	c.closed = true
}
