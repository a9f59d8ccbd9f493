package drag

import (
	"log/slog"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/dom"
)

// Defaults for Options.
const (
	DefaultItems          = ".sortable-element"
	DefaultActiveClass    = "sortable-element-active"
	DefaultContainerClass = "sortable-active"
	DefaultProxyClass     = "sortable-element-dragitem"
	DefaultProxyZIndex    = 1000
)

// Options configures a Controller. The zero value is usable: empty strings
// and nil callbacks are replaced by their defaults.
type Options struct {
	// Items selects the draggable children of the container.
	Items string

	// Handle, when set, restricts drag starts to pointer-downs inside an
	// element matching it. Empty means the whole item.
	Handle string

	// LockX and LockY freeze the proxy on that axis. Hit-testing still
	// follows the pointer.
	LockX bool
	LockY bool

	// ActiveClass is added to the dragged item.
	ActiveClass string

	// ContainerClass is added to the container during a drag.
	ContainerClass string

	// ProxyClass is added to the floating proxy.
	ProxyClass string

	// ProxyZIndex is the proxy's z-index.
	ProxyZIndex int

	// OnDragStart runs before a drag starts. Calling ev.StopPropagation
	// cancels the drag.
	OnDragStart func(ev *dom.Event)

	// OnDrag runs on every pointer move. Calling ev.StopPropagation skips
	// the proxy move and hit-test for this event.
	OnDrag func(ev *dom.Event)

	// OnDragEnd runs when the pointer is released. Cleanup runs regardless.
	OnDragEnd func(ev *dom.Event)

	// OnReorder receives (from, to) when the pointer overlaps another item.
	OnReorder func(from, to int)

	// Logger receives debug logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() *Options {
	o := &Options{}
	o.fill()
	return o
}

// Validate reports malformed selectors.
func (o *Options) Validate() error {
	items := o.Items
	if items == "" {
		items = DefaultItems
	}
	if err := dom.ValidSelector(items); err != nil {
		return errors.New(errors.CodeInvalidItemSelector).
			WithDetailf("items selector %q does not parse", items).
			WithSuggestion("Use a CSS selector such as " + DefaultItems).
			Wrap(err)
	}
	if o.Handle != "" {
		if err := dom.ValidSelector(o.Handle); err != nil {
			return errors.New(errors.CodeInvalidHandleSelector).
				WithDetailf("handle selector %q does not parse", o.Handle).
				WithSuggestion("Leave handle empty to drag by the whole item").
				Wrap(err)
		}
	}
	return nil
}

func (o *Options) fill() {
	if o.Items == "" {
		o.Items = DefaultItems
	}
	if o.ActiveClass == "" {
		o.ActiveClass = DefaultActiveClass
	}
	if o.ContainerClass == "" {
		o.ContainerClass = DefaultContainerClass
	}
	if o.ProxyClass == "" {
		o.ProxyClass = DefaultProxyClass
	}
	if o.ProxyZIndex == 0 {
		o.ProxyZIndex = DefaultProxyZIndex
	}
	if o.OnDragStart == nil {
		o.OnDragStart = func(*dom.Event) {}
	}
	if o.OnDrag == nil {
		o.OnDrag = func(*dom.Event) {}
	}
	if o.OnDragEnd == nil {
		o.OnDragEnd = func(*dom.Event) {}
	}
	if o.OnReorder == nil {
		o.OnReorder = func(int, int) {}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
