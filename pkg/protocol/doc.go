// Package protocol implements the binary wire protocol between the sortable
// server and its thin browser client.
//
// The browser forwards pointer events and element geometry; the server runs
// the drag controller against its own copy of the document and answers with
// DOM patches.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameEvent (0x01): Client → Server pointer events
//   - FramePatches (0x02): Server → Client DOM patches
//   - FrameLayout (0x03): Client → Server element boxes
//   - FrameError (0x05): Error message, either direction
//
// # Encoding
//
//   - Varint: unsigned integers (protobuf-style)
//   - ZigZag: signed integers as unsigned varints
//   - Length-prefixed: strings, varint length first
//   - Big-endian: fixed-width integers and IEEE 754 float64 coordinates
//
// # Events
//
//	[Seq: varint][Type: byte][HID: string][payload]
//
// Mouse payloads carry client and offset coordinates, the button, the
// pressed-buttons mask and modifiers. Touch payloads carry the active and
// changed touch lists.
//
// # Patches
//
//	[Seq: varint][Count: varint]([Op: byte][HID: string][op fields])*
//
// InsertNode and SetHTML carry rendered HTML rather than a node tree: the
// client parses it with the browser's own parser.
//
// # Limits
//
// Decoders reject length prefixes above DefaultMaxAllocation and
// collections above MaxCollectionCount (or the tighter per-collection
// limits in limits.go), so a hostile peer cannot force large allocations.
package protocol
