// Package sortable makes the children of a container reorderable by drag,
// and keeps a reactive collection in step with the new order.
//
// This is the recommended import for most uses:
//
//	import "github.com/vango-go/sortable"
//
// Usage:
//
//	items := sortable.NewSignal([]string{"Apples", "Bread", "Cheese"})
//	list, err := sortable.Attach(doc, ul, items, &sortable.ListOptions[string]{
//	    Render: renderItem,
//	})
//	if err != nil {
//	    return err
//	}
//	defer list.Close()
//
// The lower-level pieces live in pkg/drag (the controller), pkg/binding
// (the collection adapter), pkg/dom (the host document) and pkg/reactive.
package sortable

import (
	"github.com/vango-go/sortable/pkg/binding"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
	"github.com/vango-go/sortable/pkg/reactive"
)

// Container attributes read by Attach.
const (
	// ItemsAttr holds the item selector.
	ItemsAttr = "data-sortable-items"

	// HandlesAttr holds the handle selector.
	HandlesAttr = "data-sortable-handles"
)

// =============================================================================
// Controller (re-export from pkg/drag)
// =============================================================================

// Controller manages drag-to-reorder for one container.
type Controller = drag.Controller

// Options configures a Controller.
type Options = drag.Options

// State is Idle or Dragging.
type State = drag.State

const (
	Idle     = drag.Idle
	Dragging = drag.Dragging
)

// New attaches a controller to container. See drag.New.
func New(doc *dom.Document, container *dom.Element, opts *Options) *Controller {
	return drag.New(doc, container, opts)
}

// =============================================================================
// Binding (re-export from pkg/binding)
// =============================================================================

// ListOptions configures a bound list.
type ListOptions[T any] = binding.Options[T]

// Signal is a reactive value.
type Signal[T any] = reactive.Signal[T]

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return reactive.NewSignal(initial)
}

// Bind binds container to items with opts as given. See binding.Bind.
func Bind[T any](doc *dom.Document, container *dom.Element, items *Signal[[]T], opts *ListOptions[T]) *binding.List[T] {
	return binding.Bind(doc, container, items, opts)
}

// Attach is Bind configured from the container's markup. Item and handle
// selectors left empty in opts are taken from the container's ItemsAttr and
// HandlesAttr attributes. The resulting drag options are validated before
// anything is attached.
func Attach[T any](doc *dom.Document, container *dom.Element, items *Signal[[]T], opts *ListOptions[T]) (*binding.List[T], error) {
	var o ListOptions[T]
	if opts != nil {
		o = *opts
	}
	if o.Drag.Items == "" {
		o.Drag.Items = container.Attr(ItemsAttr)
	}
	if o.Drag.Handle == "" {
		o.Drag.Handle = container.Attr(HandlesAttr)
	}
	if err := o.Drag.Validate(); err != nil {
		return nil, err
	}
	return binding.Bind(doc, container, items, &o), nil
}
