package strip

import "actlight.klederson.com/internal/history"

// Channel indexes the accumulator rows. The order matches the
// brightness ranking used for recency: white is newest.
type Channel int

const (
	White Channel = iota
	Blue
	Green
	Red
)

func (c Channel) String() string {
	switch c {
	case White:
		return "white"
	case Blue:
		return "blue"
	case Green:
		return "green"
	default:
		return "red"
	}
}

// quartileChannel maps each time bucket to the channel it lights.
var quartileChannel = map[history.Quartile]Channel{
	history.Oldest: Red,
	history.Older:  Green,
	history.Newer:  Blue,
	history.Newest: White,
}

// ChannelFor returns the channel lit by quartile q.
func ChannelFor(q history.Quartile) Channel {
	return quartileChannel[q]
}
