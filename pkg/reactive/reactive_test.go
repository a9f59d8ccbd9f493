package reactive

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(1)
	if got := s.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	s.Set(5)
	if got := s.Peek(); got != 5 {
		t.Errorf("Peek() = %d, want 5", got)
	}
	s.Update(func(v int) int { return v * 2 })
	if got := s.Peek(); got != 10 {
		t.Errorf("after Update = %d, want 10", got)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	s := NewSignal("a")
	var seen []string
	e := CreateEffect(func() Cleanup {
		seen = append(seen, s.Get())
		return nil
	})
	defer e.Dispose()

	s.Set("b")
	s.Set("b") // equal value, no rerun
	s.Set("c")

	if diff := cmp.Diff([]string{"a", "b", "c"}, seen); diff != "" {
		t.Errorf("effect runs mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectCleanupAndDispose(t *testing.T) {
	s := NewSignal(0)
	cleanups := 0
	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		return func() { cleanups++ }
	})

	s.Set(1)
	if cleanups != 1 {
		t.Errorf("cleanups after rerun = %d, want 1", cleanups)
	}
	e.Dispose()
	e.Dispose()
	if cleanups != 2 {
		t.Errorf("cleanups after dispose = %d, want 2", cleanups)
	}
	if n := s.Subscribers(); n != 0 {
		t.Errorf("Subscribers() after dispose = %d, want 0", n)
	}
	s.Set(2)
	if cleanups != 2 {
		t.Error("disposed effect ran again")
	}
}

func TestBatchCoalesces(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = a.Get() + b.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	Batch(func() {
		a.Set(1)
		b.Set(2)
		Batch(func() { a.Set(3) })
		if runs != 1 {
			t.Errorf("effect ran inside batch: runs = %d", runs)
		}
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestCommit(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	if InBatch() {
		t.Fatal("InBatch() = true outside a batch")
	}
	Commit(func() {
		if !InBatch() {
			t.Error("Commit should open a batch")
		}
		s.Set(1)
	})
	if runs != 2 {
		t.Errorf("runs after standalone commit = %d, want 2", runs)
	}

	Batch(func() {
		Commit(func() { s.Set(2) })
		if runs != 2 {
			t.Error("nested commit flushed before the outer batch closed")
		}
	})
	if runs != 3 {
		t.Errorf("runs after nested commit = %d, want 3", runs)
	}
}

func TestUntracked(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		Untracked(func() { _ = s.Get() })
		runs++
		return nil
	})
	defer e.Dispose()

	s.Set(1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestEffectSelfInvalidation(t *testing.T) {
	s := NewSignal(0)
	e := CreateEffect(func() Cleanup {
		if v := s.Get(); v < 3 {
			s.Set(v + 1)
		}
		return nil
	})
	defer e.Dispose()

	if got := s.Peek(); got != 3 {
		t.Errorf("s = %d, want 3", got)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
		moved    bool
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}, true},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}, true},
		{"adjacent", 1, 2, []string{"a", "c", "b", "d"}, true},
		{"same", 2, 2, []string{"a", "b", "c", "d"}, false},
		{"out of range", 0, 4, []string{"a", "b", "c", "d"}, false},
		{"negative", -1, 0, []string{"a", "b", "c", "d"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := []string{"a", "b", "c", "d"}
			s := NewSignal(original)
			if got := Move(s, tt.from, tt.to); got != tt.moved {
				t.Errorf("Move() = %v, want %v", got, tt.moved)
			}
			if diff := cmp.Diff(tt.want, s.Peek()); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if original[0] != "a" {
				t.Error("Move mutated the previous slice")
			}
		})
	}
}

func TestMoveNotifiesOnce(t *testing.T) {
	s := NewSignal([]int{1, 2, 3})
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	Commit(func() { Move(s, 0, 1) })
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestAppendRemoveAt(t *testing.T) {
	s := NewSignal([]int{1})
	Append(s, 2, 3)
	RemoveAt(s, 0)
	RemoveAt(s, 9)
	if diff := cmp.Diff([]int{2, 3}, s.Peek()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackingIsPerGoroutine(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer Release()
		Batch(func() {
			s.Set(1)
		})
	}()
	wg.Wait()

	if InBatch() {
		t.Error("batch on another goroutine leaked into this one")
	}
}
