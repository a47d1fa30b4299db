// Package cursor provides a bounds-tracked view over a slice, used to read module bytes in place.
package cursor

// Cursor is the window [start,end) of a backing slice. Its zero value is an empty cursor.
//
// No operation reads or exposes an element outside the window of the backing slice it was created from. Narrowing
// operations never extend the bounds.
type Cursor[T any] struct {
	data       []T
	start, end int
}

// State is a saved window from Cursor.Save. It must only be given back to Restore of the same cursor.
type State struct {
	start, end int
}

// New returns a cursor over the whole of data.
func New[T any](data []T) Cursor[T] {
	return Cursor[T]{data: data, end: len(data)}
}

// Len returns the count of elements remaining in the window.
func (c *Cursor[T]) Len() int {
	return c.end - c.start
}

// IsEmpty returns true when no element remains.
func (c *Cursor[T]) IsEmpty() bool {
	return c.start == c.end
}

// Offset returns the start of the window relative to the backing slice.
func (c *Cursor[T]) Offset() int {
	return c.start
}

// Split consumes the next n elements and returns them as an independent cursor. When fewer than n elements remain,
// ok is false and c is unchanged.
func (c *Cursor[T]) Split(n int) (prefix Cursor[T], ok bool) {
	if n < 0 || n > c.Len() {
		return Cursor[T]{}, false
	}
	prefix = Cursor[T]{data: c.data, start: c.start, end: c.start + n}
	c.start += n
	return prefix, true
}

// Get returns the element at index i of the window.
func (c *Cursor[T]) Get(i int) (v T, ok bool) {
	if i < 0 || i >= c.Len() {
		return v, false
	}
	return c.data[c.start+i], true
}

// Shrink makes the current window the backing slice, so that Offset restarts at zero and the elements outside the
// window can no longer be reached, even through AdjustStart.
func (c *Cursor[T]) Shrink() {
	c.data = c.data[c.start:c.end:c.end]
	c.start, c.end = 0, len(c.data)
}

// AdjustStart moves the start of the window by delta. It returns false, leaving c unchanged, if the new start would
// fall before the backing slice or after the end of the window.
func (c *Cursor[T]) AdjustStart(delta int) bool {
	start := c.start + delta
	if start < 0 || start > c.end {
		return false
	}
	c.start = start
	return true
}

// Window returns the remaining elements without consuming them.
func (c *Cursor[T]) Window() []T {
	return c.data[c.start:c.end:c.end]
}

// Consume returns the remaining elements and empties the window.
func (c *Cursor[T]) Consume() []T {
	ret := c.Window()
	c.start = c.end
	return ret
}

// Save returns the current window.
func (c *Cursor[T]) Save() State {
	return State{start: c.start, end: c.end}
}

// Restore resets the window to one returned by Save on this cursor.
func (c *Cursor[T]) Restore(s State) {
	if s.start < 0 || s.start > s.end || s.end > len(c.data) {
		panic("BUG: cursor state restored into a different cursor")
	}
	c.start, c.end = s.start, s.end
}
