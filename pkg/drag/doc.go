// Package drag implements the sortable drag controller: pointer-driven
// reordering of the items inside a container element.
//
// A Controller arms a "mousedown touchstart" listener on every element
// matching the item selector. Pressing on an item (optionally only on its
// handle) starts a drag: the document becomes non-selectable, the item and
// container receive their active classes, and a floating proxy copy of the
// item is appended next to it. Every pointer move shifts the proxy by the
// pointer delta and hit-tests the pointer against the other items; the
// first item strictly containing the pointer produces a reorder
// notification (from, to). Releasing the pointer restores everything and
// re-arms the items.
//
//	c := drag.New(doc, list, &drag.Options{
//	    OnReorder: func(from, to int) { log.Println(from, "->", to) },
//	})
//	defer c.Close()
//
// The controller never moves items itself. Whoever owns the collection
// reacts to OnReorder and re-renders; see package binding.
//
// A Controller is not safe for concurrent use; it runs on the goroutine
// that dispatches its document's events.
package drag
