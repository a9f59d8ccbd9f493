package dom

import "strings"

// Mouse button values, matching MouseEvent.button in the browser.
const (
	ButtonMain      = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// Event types the sortable widgets care about.
const (
	EventMouseDown   = "mousedown"
	EventMouseMove   = "mousemove"
	EventMouseUp     = "mouseup"
	EventTouchStart  = "touchstart"
	EventTouchMove   = "touchmove"
	EventTouchEnd    = "touchend"
	EventTouchCancel = "touchcancel"
	EventSelectStart = "selectstart"
)

// Event is a DOM event travelling through a Document.
type Event struct {
	// Type is the event name, e.g. "mousedown".
	Type string

	// Target is the element the event was dispatched to.
	Target *Element

	// CurrentTarget is the element whose listeners are running. It is nil
	// while document-level listeners run.
	CurrentTarget *Element

	// Button is the mouse button for mouse events.
	Button int

	// Client is the pointer position. For touch events it mirrors the first
	// changed touch.
	Client Point

	// Offset is the pointer position relative to Target's box origin.
	Offset Point

	// Touches holds the active touch points of a touch event.
	Touches []Point

	stopped   bool
	prevented bool
}

// StopPropagation prevents the event from reaching further ancestors and the
// document. Listeners on the current element still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// PreventDefault marks the browser default action as cancelled.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// IsTouch reports whether the event is a touch event.
func (e *Event) IsTouch() bool {
	return strings.HasPrefix(e.Type, "touch")
}

// IsPrimary reports whether the event came from the primary pointer. Touch
// input is always primary; mouse input only for the main button.
func (e *Event) IsPrimary() bool {
	return e.IsTouch() || e.Button == ButtonMain
}

// Point returns the pointer position: the first touch for touch events that
// carry touches, otherwise Client.
func (e *Event) Point() Point {
	if e.IsTouch() && len(e.Touches) > 0 {
		return e.Touches[0]
	}
	return e.Client
}
