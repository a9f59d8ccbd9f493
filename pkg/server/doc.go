// Package server serves a sortable list over HTTP and WebSocket.
//
// GET / renders the list as static markup and loads the thin client. The
// client opens a WebSocket to /_sortable/ws, where the server starts a
// Session: a private document holding the list, bound to the session's own
// copy of the items and driven by a drag controller.
//
// # Wire flow
//
//	server → client  Patches (mount: body HID + body HTML), FlagFinal
//	client → server  Layout (boxes of the root and every [data-hid])
//	client → server  Event  (mousedown/mousemove/mouseup or touch*)
//	server → client  Patches (proxy insert, class changes, moves), FlagFinal
//	client → server  Layout ...
//
// Patches produced while handling one frame are flushed together. A batch
// that does not fit a single frame is split; only the last frame carries
// FlagFinal, after which the client re-measures and reports its layout.
// Layout frames never produce patches.
//
// Pointer coordinates and boxes are relative to the client's mount root.
// The server ignores the client's offsets and recomputes them from its own
// boxes, so hit-testing always follows the reported pointer.
//
// # Concurrency
//
// Each session runs on its WebSocket handler goroutine. The document and
// the reactive graph are only touched there; Close, the heartbeat and
// Shutdown only touch the connection.
//
// # Observability
//
// Every server registers its collectors on its own Prometheus registry,
// exposed at /metrics when enabled. Each drag is one OpenTelemetry span
// named "sortable.drag" with a "reorder" event per reorder.
package server
