package history

// Quartile is one of four equal time buckets of the span, oldest first.
type Quartile int

const (
	Oldest Quartile = iota
	Older
	Newer
	Newest
)

func (q Quartile) String() string {
	switch q {
	case Oldest:
		return "oldest"
	case Older:
		return "older"
	case Newer:
		return "newer"
	default:
		return "newest"
	}
}

// quartileBounds returns floor(capacity * {1/4, 1/2, 3/4}).
func quartileBounds(capacity int) [3]int {
	return [3]int{capacity / 4, capacity / 2, capacity * 3 / 4}
}

// QuartileOf returns the bucket of span index i.
func (w *Window) QuartileOf(i int) Quartile {
	switch {
	case i < w.bounds[0]:
		return Oldest
	case i < w.bounds[1]:
		return Older
	case i < w.bounds[2]:
		return Newer
	default:
		return Newest
	}
}
