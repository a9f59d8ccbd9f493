package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// selectorCache holds compiled selectors per document. Invalid selectors are
// cached as nil.
type selectorCache map[string]cascadia.Selector

func (c selectorCache) get(sel string) cascadia.Selector {
	if s, ok := c[sel]; ok {
		return s
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		s = nil
	}
	c[sel] = s
	return s
}

// ValidSelector reports whether sel is a valid CSS selector. It returns the
// parse error when it is not.
func ValidSelector(sel string) error {
	_, err := cascadia.Compile(sel)
	return err
}

// Matches reports whether the element matches sel.
func (e *Element) Matches(sel string) bool {
	s := e.doc.selectors.get(sel)
	if s == nil {
		return false
	}
	return s.Match(e.node)
}

// Closest returns the nearest inclusive ancestor matching sel, or nil.
func (e *Element) Closest(sel string) *Element {
	s := e.doc.selectors.get(sel)
	if s == nil {
		return nil
	}
	for n := e.node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if s.Match(n) {
			return e.wrap(n)
		}
	}
	return nil
}

// QueryAll returns the descendants matching sel in document order. The
// element itself is never included.
func (e *Element) QueryAll(sel string) []*Element {
	s := e.doc.selectors.get(sel)
	if s == nil {
		return nil
	}
	var out []*Element
	for _, n := range s.MatchAll(e.node) {
		if n == e.node {
			continue
		}
		out = append(out, e.wrap(n))
	}
	return out
}

// Query returns the first descendant matching sel, or nil.
func (e *Element) Query(sel string) *Element {
	all := e.QueryAll(sel)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}
