// Package arena provides a generational-index arena.
//
// Objects live in slots addressed by a [Handle]: a slot index plus the
// generation the slot had when the object was inserted. Removing an object
// bumps the slot generation, so every outstanding handle to it becomes stale
// and lookups report false instead of reaching a reused slot.
//
// # Thread Safety
//
// Arena instances are NOT thread-safe. Owners that share an arena across
// goroutines must serialize access themselves.
package arena

// Handle identifies an object stored in an Arena. The zero Handle is never
// returned by Insert and is always stale.
type Handle struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.Gen == 0 }

type slot[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Arena stores values of type T behind stable handles.
type Arena[T any] struct {
	slots   []slot[T]
	free    []uint32
	count   int
	retired int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		a.count++
		return Handle{Index: idx, Gen: s.gen}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: v, gen: 1, occupied: true})
	a.count++
	return Handle{Index: idx, Gen: 1}
}

// Get returns a pointer to the value behind h. The pointer is only valid
// until the next Insert or Remove on the arena.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	s := a.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove deletes the value behind h and returns it. Stale handles are a no-op.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}

	v := s.value
	s.value = zero
	s.occupied = false
	s.gen++
	a.count--
	if s.gen == 0 {
		// generation exhausted; retire the slot so no old handle can match
		a.retired++
		return v, true
	}
	a.free = append(a.free, h.Index)
	return v, true
}

// Retired returns the number of slots whose generations ran out.
func (a *Arena[T]) Retired() int { return a.retired }

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.count }

// Each calls fn for every live value in slot order.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}
		fn(Handle{Index: uint32(i), Gen: s.gen}, &s.value)
	}
}

// Any reports whether pred holds for at least one live value.
func (a *Arena[T]) Any(pred func(*T) bool) bool {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied && pred(&s.value) {
			return true
		}
	}
	return false
}

// Handles returns the handles of all live values in slot order.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.count)
	a.Each(func(h Handle, _ *T) { out = append(out, h) })
	return out
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if h.Gen == 0 || int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.gen != h.Gen {
		return nil
	}
	return s
}
