// Package history keeps the per-tick frame counts of the visible time window.
package history

import "iter"

// Window is a fixed-length circular buffer of per-tick counts holding
// Capacity()+1 entries, oldest first. It starts zero-filled, so it is
// always full.
type Window struct {
	buf    []uint32
	pos    int // index of the oldest entry
	bounds [3]int
}

// New creates a zeroed window for the given capacity (minimum 1).
func New(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		buf:    make([]uint32, capacity+1),
		bounds: quartileBounds(capacity),
	}
}

// ShiftAndAppend drops the oldest count and appends v as the newest.
func (w *Window) ShiftAndAppend(v uint32) {
	w.buf[w.pos] = v
	w.pos = (w.pos + 1) % len(w.buf)
}

// Capacity returns the number of ticks the window covers.
func (w *Window) Capacity() int {
	return len(w.buf) - 1
}

// At returns the entry at logical index i, 0 being the oldest.
func (w *Window) At(i int) uint32 {
	return w.buf[(w.pos+i)%len(w.buf)]
}

// All yields (index, count) over every entry, oldest to newest. The window
// must not be modified while iterating.
func (w *Window) All() iter.Seq2[int, uint32] {
	return w.each(len(w.buf))
}

// Span yields the first Capacity() entries, the range read by the scaler
// and the renderer. The newest sample joins the span on the next tick.
func (w *Window) Span() iter.Seq2[int, uint32] {
	return w.each(w.Capacity())
}

func (w *Window) each(n int) iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		for i := 0; i < n; i++ {
			if !yield(i, w.At(i)) {
				return
			}
		}
	}
}

// Values returns a copy of all entries in chronological order.
func (w *Window) Values() []uint32 {
	out := make([]uint32, 0, len(w.buf))
	for _, v := range w.All() {
		out = append(out, v)
	}
	return out
}
