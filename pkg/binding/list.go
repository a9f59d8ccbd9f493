package binding

import (
	"fmt"
	"log/slog"

	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
	"github.com/vango-go/sortable/pkg/reactive"
)

// Options configures a List.
type Options[T any] struct {
	// Drag configures the underlying controller. Its OnReorder is replaced
	// by the list; use Reorder and OnReorder below instead.
	Drag drag.Options

	// Reorder, when set, replaces the default move. apply performs the
	// default move and may be called, or not, at any point.
	Reorder func(from, to int, apply func())

	// OnReorder runs after every reorder, whatever Reorder did.
	OnReorder func(from, to int)

	// Key identifies an item for rendering. Defaults to fmt.Sprint.
	Key func(item T) string

	// Render creates the element for an item. When nil the list does not
	// touch the container's children.
	Render func(doc *dom.Document, item T) *dom.Element
}

// List is a drag controller bound to a reactive collection.
type List[T any] struct {
	doc       *dom.Document
	container *dom.Element
	items     *reactive.Signal[[]T]
	opts      Options[T]
	ctrl      *drag.Controller
	effect    *reactive.Effect
	logger    *slog.Logger

	lastLen   int
	refreshes int

	rendered map[string]*dom.Element
	order    []string
}

// Bind creates a List for container, backed by items. A nil opts uses the
// defaults.
func Bind[T any](doc *dom.Document, container *dom.Element, items *reactive.Signal[[]T], opts *Options[T]) *List[T] {
	var o Options[T]
	if opts != nil {
		o = *opts
	}
	if o.Key == nil {
		o.Key = func(item T) string { return fmt.Sprint(item) }
	}
	if o.OnReorder == nil {
		o.OnReorder = func(int, int) {}
	}

	l := &List[T]{
		doc:       doc,
		container: container,
		items:     items,
		opts:      o,
		lastLen:   -1,
		rendered:  make(map[string]*dom.Element),
	}

	dragOpts := o.Drag
	dragOpts.OnReorder = l.handleReorder
	l.ctrl = drag.New(doc, container, &dragOpts)
	l.logger = l.ctrl.Options().Logger.With("component", "binding", "container", container.HID())

	l.effect = reactive.CreateEffect(func() reactive.Cleanup {
		l.sync(l.items.Get())
		return nil
	})
	return l
}

// sync brings the DOM in line with xs and refreshes the controller when the
// length changed or rendering created or removed an element. A pure
// reorder keeps the existing listeners.
func (l *List[T]) sync(xs []T) {
	var churned bool
	if l.opts.Render != nil {
		reactive.Untracked(func() { churned = l.render(xs) })
	}
	l.doc.Reflow()

	if len(xs) == l.lastLen && !churned {
		return
	}
	l.logger.Debug("collection changed", "from", l.lastLen, "to", len(xs), "replaced", churned)
	l.lastLen = len(xs)
	l.refreshes++
	l.ctrl.Refresh()
}

// render reconciles the container's children with xs by key. Children the
// list did not render (the drag proxy, static markup) stay after the keyed
// ones. It reports whether any element was created or removed.
func (l *List[T]) render(xs []T) bool {
	keys := make([]string, len(xs))
	seen := make(map[string]int, len(xs))
	for i, item := range xs {
		k := l.opts.Key(item)
		if n := seen[k]; n > 0 {
			seen[k] = n + 1
			k = fmt.Sprintf("%s#%d", k, n)
		} else {
			seen[k] = 1
		}
		keys[i] = k
	}

	current := make(map[string]bool, len(keys))
	for _, k := range keys {
		current[k] = true
	}

	churned := false
	for _, k := range l.order {
		if !current[k] {
			l.rendered[k].Remove()
			delete(l.rendered, k)
			churned = true
		}
	}

	for i, k := range keys {
		el, ok := l.rendered[k]
		if !ok {
			el = l.opts.Render(l.doc, xs[i])
			l.rendered[k] = el
			churned = true
		}
		if el.Parent() != l.container || el.Index() != i {
			l.container.InsertChild(i, el)
		}
	}
	l.order = keys
	return churned
}

func (l *List[T]) handleReorder(from, to int) {
	apply := func() { l.Reorder(from, to) }
	if l.opts.Reorder != nil {
		l.opts.Reorder(from, to, apply)
	} else {
		apply()
	}
	l.opts.OnReorder(from, to)
}

// Reorder moves the item at from to index to inside the reactive cycle.
// It is the default reorder behavior and does nothing when from == to.
func (l *List[T]) Reorder(from, to int) {
	if from == to {
		return
	}
	reactive.Commit(func() {
		if reactive.Move(l.items, from, to) {
			l.logger.Debug("moved item", "from", from, "to", to)
		}
	})
}

// Controller returns the underlying drag controller.
func (l *List[T]) Controller() *drag.Controller {
	return l.ctrl
}

// Items returns the bound collection.
func (l *List[T]) Items() *reactive.Signal[[]T] {
	return l.items
}

// Element returns the element rendered for key, or nil.
func (l *List[T]) Element(key string) *dom.Element {
	return l.rendered[key]
}

// Close disposes the effect and the controller. The rendered elements stay
// in the document.
func (l *List[T]) Close() {
	l.effect.Dispose()
	l.ctrl.Close()
}
