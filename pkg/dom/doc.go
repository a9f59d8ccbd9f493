// Package dom provides the live document model that sortable widgets run on.
//
// Unlike a virtual DOM, the tree here is the source of truth: elements carry
// geometry (their offset box), event listeners and inline styles, and every
// mutation of a connected element is reported to observers so a host can
// mirror it elsewhere (for example as patches sent to a browser).
//
// # Tree
//
// Elements wrap golang.org/x/net/html nodes, so markup can be parsed with
// Document.Parse and rendered back with OuterHTML/InnerHTML. Each element
// receives a hydration ID (HID) when it is created or adopted; the HID is
// mirrored to the data-hid attribute.
//
//	doc := dom.NewDocument()
//	els, _ := doc.Parse(`<ul><li class="sortable-element">A</li></ul>`)
//	doc.Body().AppendChild(els[0])
//
// # Selectors
//
// Matches, Closest, Query and QueryAll accept CSS selectors compiled with
// cascadia. An invalid selector matches nothing.
//
// # Events
//
// Listeners are registered per element (or on the document surface) for one
// or more space-separated event types and return a Handle used to detach
// them. Document.Dispatch delivers an Event to its target, then bubbles it
// through the ancestors and finally to the document, stopping as soon as a
// listener calls StopPropagation.
//
// # Geometry
//
// Boxes live in the container's offset coordinate space. Layouts registered
// with Document.SetLayout assign boxes on Reflow; hosts that know real
// geometry (a browser) can set boxes directly.
package dom
