package server

import (
	"html/template"
	"net/http"

	"github.com/vango-go/sortable/pkg/drag"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
[data-sortable-root] { position: relative; margin: 0; padding: 0; }
[data-sortable-offline] { opacity: .5; }
.sortable { list-style: none; margin: 0; padding: 0; display: flex; flex-direction: column; gap: {{.Gap}}px; }
.sortable.sortable-horizontal { flex-direction: row; }
.sortable-element { box-sizing: border-box; margin: 0; padding: .6rem 1rem; border: 1px solid #ccc; background: #fff; cursor: grab; user-select: none; }
.sortable-handle { color: #999; }
.{{.ActiveClass}} { opacity: .3; }
.{{.ContainerClass}} { cursor: grabbing; }
.{{.ProxyClass}} { pointer-events: none; box-shadow: 0 4px 12px rgba(0, 0, 0, .2); }
</style>
</head>
<body>
<div data-sortable-root data-sortable-ws="{{.WebSocket}}">{{.Markup}}</div>
<script src="{{.ClientJS}}" defer></script>
</body>
</html>
`))

type pageData struct {
	Title          string
	Gap            float64
	ActiveClass    string
	ContainerClass string
	ProxyClass     string
	WebSocket      string
	ClientJS       string
	Markup         template.HTML
}

// servePage renders the list as static markup. The thin client replaces it
// with the live session document once connected.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	opts := s.config.Drag
	d := drag.DefaultOptions()
	if opts.ActiveClass == "" {
		opts.ActiveClass = d.ActiveClass
	}
	if opts.ContainerClass == "" {
		opts.ContainerClass = d.ContainerClass
	}
	if opts.ProxyClass == "" {
		opts.ProxyClass = d.ProxyClass
	}

	data := pageData{
		Title:          s.config.Title,
		Gap:            s.config.Gap,
		ActiveClass:    opts.ActiveClass,
		ContainerClass: opts.ContainerClass,
		ProxyClass:     opts.ProxyClass,
		WebSocket:      PathWebSocket,
		ClientJS:       PathClientJS,
		Markup:         template.HTML(staticMarkup(s.config)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// staticMarkup renders the configured items without a live session.
func staticMarkup(cfg *ServerConfig) string {
	doc, container := newListDocument(cfg)
	for _, item := range cfg.Items {
		container.AppendChild(cfg.Render(doc, item))
	}
	return doc.Body().InnerHTML()
}
