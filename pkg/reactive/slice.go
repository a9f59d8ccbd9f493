package reactive

import "slices"

// Move relocates the element at from so that it ends up at index to,
// removing it first and then inserting it. It reports whether the signal
// changed; out-of-range indexes and from == to are no-ops.
//
//	s := NewSignal([]string{"a", "b", "c"})
//	Move(s, 0, 2) // [b c a]
func Move[T any](s *Signal[[]T], from, to int) bool {
	moved := false
	s.Update(func(xs []T) []T {
		n := len(xs)
		if from == to || from < 0 || from >= n || to < 0 || to >= n {
			return xs
		}
		out := slices.Clone(xs)
		v := out[from]
		out = slices.Delete(out, from, from+1)
		out = slices.Insert(out, to, v)
		moved = true
		return out
	})
	return moved
}

// Append adds values to the end of the slice.
func Append[T any](s *Signal[[]T], values ...T) {
	if len(values) == 0 {
		return
	}
	s.Update(func(xs []T) []T {
		return append(slices.Clone(xs), values...)
	})
}

// RemoveAt removes the element at i. Out-of-range indexes are ignored.
func RemoveAt[T any](s *Signal[[]T], i int) {
	s.Update(func(xs []T) []T {
		if i < 0 || i >= len(xs) {
			return xs
		}
		return slices.Delete(slices.Clone(xs), i, i+1)
	})
}
