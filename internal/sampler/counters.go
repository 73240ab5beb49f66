package sampler

import "sync/atomic"

// Kind classifies an observed frame.
type Kind int

const (
	Frame      Kind = iota // any frame
	Suspicious             // deauthentication or disassociation; also counts as a frame
)

// Both counts share one word so a reader takes them together: the frame
// count in the high half, the suspicious count in the low half.
const (
	frameUnit  = uint64(1) << 32
	lowMask    = frameUnit - 1
	suspicious = frameUnit + 1
)

// Counters is the frame/suspicious counter pair written by capture
// goroutines and drained by the sampler once per tick. A half overflows
// only past 2^32 frames in one tick.
type Counters struct {
	word atomic.Uint64
}

// Counts is one drained pair.
type Counts struct {
	Frames     uint32
	Suspicious uint32
}

// Increment records one frame of the given kind. Safe for concurrent use.
func (c *Counters) Increment(k Kind) {
	if k == Suspicious {
		c.word.Add(suspicious)
		return
	}
	c.word.Add(frameUnit)
}

// Swap returns the counts accumulated since the previous Swap and resets
// both to zero in the same atomic step.
func (c *Counters) Swap() Counts {
	return unpack(c.word.Swap(0))
}

// peek returns the current counts without resetting them.
func (c *Counters) peek() Counts {
	return unpack(c.word.Load())
}

func unpack(w uint64) Counts {
	return Counts{Frames: uint32(w >> 32), Suspicious: uint32(w & lowMask)}
}
