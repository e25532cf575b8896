package ring

// Buffer is a fixed-capacity FIFO window. Once full, every push evicts the
// oldest element.
type Buffer[T any] struct {
	buf []T
	len int
}

// New allocates a buffer that retains at most capacity values. A negative
// capacity is treated as zero.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[T]{buf: make([]T, capacity)}
}

// Push appends value, dropping the oldest retained value when full.
func (b *Buffer[T]) Push(value T) {
	switch n := len(b.buf); {
	case n == 0:
	case n == 1:
		b.buf[0] = value
		b.len = 1
	case b.len < n:
		b.buf[b.len] = value
		b.len++
	default:
		copy(b.buf, b.buf[1:])
		b.buf[n-1] = value
	}
}

// Slice returns the retained values, oldest first. The result aliases the
// buffer's storage and is only valid until the next Push.
func (b *Buffer[T]) Slice() []T {
	return b.buf[:b.len]
}

// Values returns a copy of the retained values, oldest first.
func (b *Buffer[T]) Values() []T {
	out := make([]T, b.len)
	copy(out, b.buf[:b.len])
	return out
}

// First returns the oldest retained value, or def when empty.
func (b *Buffer[T]) First(def T) T {
	if b.len == 0 {
		return def
	}
	return b.buf[0]
}

// Last returns the newest retained value, or def when empty.
func (b *Buffer[T]) Last(def T) T {
	if b.len == 0 {
		return def
	}
	return b.buf[b.len-1]
}

// Len reports how many values are retained.
func (b *Buffer[T]) Len() int { return b.len }

// Cap reports the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.buf) }
