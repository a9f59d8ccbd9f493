package reactive

// Batch groups signal updates into one notification phase. Listeners dirtied
// inside fn are deduplicated and notified once, when the outermost batch
// completes. Batches nest.
func Batch(fn func()) {
	incrementBatchDepth()
	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()
	fn()
}

// Tx is an alias for Batch.
func Tx(fn func()) {
	Batch(fn)
}

// InBatch reports whether a batch is open on the current goroutine.
func InBatch() bool {
	return getBatchDepth() > 0
}

// Commit runs fn inside the reactive cycle: inline when a batch is already
// open, otherwise wrapped in a new batch. Either way subscribers have seen
// the writes by the time the outermost batch returns.
func Commit(fn func()) {
	if InBatch() {
		fn()
		return
	}
	Batch(fn)
}

func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		id := l.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.MarkDirty()
	}
}

// Untracked runs fn without recording signal reads as dependencies.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
