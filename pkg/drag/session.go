package drag

import "github.com/vango-go/sortable/pkg/dom"

// dragSession owns the document-level state of one drag: the move, end and
// selectstart listeners and the disabled text selection. It is acquired on
// drag start and released exactly once on every exit path.
type dragSession struct {
	doc      *dom.Document
	handles  []dom.Handle
	released bool
}

func acquireSession(c *Controller) *dragSession {
	s := &dragSession{doc: c.doc}
	c.doc.SetSelectable(false)
	s.handles = []dom.Handle{
		c.doc.On("mousemove touchmove", c.Drag),
		c.doc.On("mouseup touchend touchcancel", c.DragEnd),
		c.doc.On(dom.EventSelectStart, func(ev *dom.Event) { ev.PreventDefault() }),
	}
	return s
}

func (s *dragSession) release() {
	if s.released {
		return
	}
	s.released = true
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = nil
	s.doc.SetSelectable(true)
}
