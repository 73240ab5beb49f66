package app

import "time"

// TickMsg polls the sampler every scheduler period.
type TickMsg time.Time

// SourceDoneMsg reports that a finite source (a replay) ran out.
type SourceDoneMsg struct{}

