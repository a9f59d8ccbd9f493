// Package binding connects a drag controller to an externally owned
// reactive collection.
//
// Bind wires the controller's reorder notifications to an in-place move of
// the collection (remove, then insert) committed inside a reactive batch,
// so every subscriber sees the new order before the pointer event returns.
// An effect watches the collection and refreshes the controller whenever
// its length changes, arming newly added items.
//
// With Options.Render set, the list also renders the container's children
// from the collection, reusing one element per key, and reflows the
// document after each change:
//
//	fruits := reactive.NewSignal([]string{"apple", "banana", "cherry"})
//	list := binding.Bind(doc, ul, fruits, &binding.Options[string]{
//	    Render: func(doc *dom.Document, s string) *dom.Element {
//	        li := doc.CreateElement("li")
//	        li.AddClass("sortable-element")
//	        li.SetText(s)
//	        return li
//	    },
//	})
//	defer list.Close()
package binding
