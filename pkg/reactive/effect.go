package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// maxReruns bounds how often an effect may re-run because it dirtied itself.
const maxReruns = 100

// Effect is a side effect that re-runs when any signal it read changes.
type Effect struct {
	id uint64
	fn func() Cleanup

	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	pending  atomic.Bool
	running  atomic.Bool
	disposed atomic.Bool
}

// CreateEffect creates an effect and runs it immediately.
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("count:", count.Get())
//	    return nil
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{id: nextID(), fn: fn}
	e.pending.Store(true)
	e.flush()
	return e
}

// MarkDirty implements Listener. The effect re-runs synchronously unless it
// is already running, in which case the running call re-runs it once more.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(true)
	if e.running.Load() {
		return
	}
	e.flush()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose runs the last cleanup and unsubscribes from every source.
// Disposing twice does nothing.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()
}

// Disposed reports whether Dispose was called.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

func (e *Effect) flush() {
	e.running.Store(true)
	defer e.running.Store(false)

	for n := 0; e.pending.Load() && !e.disposed.Load(); n++ {
		if n == maxReruns {
			slog.Default().With("component", "reactive").Warn("effect keeps invalidating itself; giving up",
				"effect", e.id,
				"reruns", n,
			)
			e.pending.Store(false)
			return
		}
		e.run()
	}
}

func (e *Effect) run() {
	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()

	old := setCurrentListener(e)
	defer setCurrentListener(old)
	e.cleanup = e.fn()
}

func (e *Effect) dropSources() {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
}

// addSource records a signal read during the current run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}
