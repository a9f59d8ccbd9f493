package dom

import (
	"slices"
	"strings"
)

// Listener handles a dispatched event.
type Listener func(ev *Event)

type listenerEntry struct {
	id    uint64
	types []string
	fn    Listener
}

// listenerSet is the registry behind Element.On and Document.On.
type listenerSet struct {
	entries []*listenerEntry
	nextID  uint64
}

// Handle detaches a listener registered with On.
type Handle struct {
	set *listenerSet
	id  uint64
}

// Remove detaches the listener. Removing twice, or removing the zero
// Handle, does nothing.
func (h Handle) Remove() {
	if h.set == nil {
		return
	}
	h.set.remove(h.id)
}

// Active reports whether the listener is still registered.
func (h Handle) Active() bool {
	if h.set == nil {
		return false
	}
	for _, e := range h.set.entries {
		if e.id == h.id {
			return true
		}
	}
	return false
}

func (s *listenerSet) add(types string, fn Listener) Handle {
	names := strings.Fields(types)
	if len(names) == 0 || fn == nil {
		return Handle{}
	}
	s.nextID++
	s.entries = append(s.entries, &listenerEntry{id: s.nextID, types: names, fn: fn})
	return Handle{set: s, id: s.nextID}
}

func (s *listenerSet) remove(id uint64) {
	s.entries = slices.DeleteFunc(s.entries, func(e *listenerEntry) bool {
		return e.id == id
	})
}

func (s *listenerSet) count(typ string) int {
	n := 0
	for _, e := range s.entries {
		if slices.Contains(e.types, typ) {
			n++
		}
	}
	return n
}

// matching snapshots the listeners for typ, so listeners added or removed
// while the event is delivered do not affect the current delivery.
func (s *listenerSet) matching(typ string) []Listener {
	var out []Listener
	for _, e := range s.entries {
		if slices.Contains(e.types, typ) {
			out = append(out, e.fn)
		}
	}
	return out
}
