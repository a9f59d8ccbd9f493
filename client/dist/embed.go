package clientdist

import _ "embed"

// SortableJS is the thin client JavaScript bundle.
//
// It is served at "/_sortable/client.js".
//
//go:embed sortable.js
var SortableJS []byte
