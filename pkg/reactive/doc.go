// Package reactive is the change-detection core the sortable bindings commit
// into: signals hold values, effects re-run when the signals they read
// change, and batches coalesce many writes into one notification phase.
//
//	items := reactive.NewSignal([]string{"a", "b", "c"})
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    fmt.Println(len(items.Get()))
//	    return nil
//	})
//	reactive.Commit(func() { reactive.Move(items, 0, 2) })
//
// Dependency tracking is per goroutine. Outside a batch an effect re-runs
// synchronously inside the Set that dirtied it; inside a batch it re-runs
// once, when the outermost batch completes.
package reactive
