package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	clientdist "github.com/vango-go/sortable/client/dist"
)

// staticAsset is an embedded file served with a content-hash ETag.
type staticAsset struct {
	name        string
	contentType string
	body        []byte
	etag        string
}

func newStaticAsset(name, contentType string, body []byte) *staticAsset {
	sum := sha256.Sum256(body)
	return &staticAsset{
		name:        name,
		contentType: contentType,
		body:        body,
		etag:        `"` + hex.EncodeToString(sum[:16]) + `"`,
	}
}

// ServeHTTP serves the asset. Conditional requests (If-None-Match, with
// weak tags and "*") and HEAD are handled by http.ServeContent.
func (a *staticAsset) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(a.body) == 0 {
		http.Error(w, a.name+" not available", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("ETag", a.etag)
	h.Set("Content-Type", a.contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "public, max-age=0, must-revalidate")
	http.ServeContent(w, r, a.name, time.Time{}, bytes.NewReader(a.body))
}

var thinClient = newStaticAsset("sortable.js", "application/javascript; charset=utf-8", clientdist.SortableJS)

func (s *Server) serveThinClient(w http.ResponseWriter, r *http.Request) {
	thinClient.ServeHTTP(w, r)
}
