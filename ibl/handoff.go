package ibl

import "sync/atomic"

// Slot hands one value from a producer goroutine to the render thread.
// It holds at most one pending value; a second Publish replaces one that was not taken yet.
type Slot[T any] struct {
	value atomic.Pointer[T]
}

func (s *Slot[T]) Publish(v *T) {
	s.value.Store(v)
}

// TryTake empties the slot and returns what it held, or nil. Never blocks.
// The caller owns the returned value.
func (s *Slot[T]) TryTake() *T {
	return s.value.Swap(nil)
}
