// Package scaler derives the factor that fits raw frame counts into the
// strip height.
package scaler

import (
	"math"

	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/history"
)

// Scaler compresses counts to the display height. It snaps down as soon
// as traffic would overflow the strip, recovers upward over several ticks
// when traffic drops, and amplifies uneven (bursty) windows.
type Scaler struct {
	height int
	scale  float64
}

// Stats describes the window as seen by the last Update.
type Stats struct {
	Max        uint32
	Total      uint64
	Quartiles  [4]uint64
	TotalDiff  uint64
	Volatility float64
}

// New creates a scaler for a strip of the given height. The scale starts
// at zero and settles within a few ticks.
func New(height int) *Scaler {
	return &Scaler{height: height}
}

// Scale returns the current factor.
func (s *Scaler) Scale() float64 {
	return s.scale
}

// Update recomputes the factor from the window span and returns it.
func (s *Scaler) Update(w *history.Window) float64 {
	st := Measure(w)

	if st.Max <= uint32(s.height) {
		s.scale = 1
		return s.scale
	}

	ideal := float64(s.height) / float64(st.Max)
	if ideal > s.scale {
		s.scale += (ideal - s.scale) / config.ScaleRecoverySteps
	} else {
		s.scale = ideal
	}
	if st.Volatility >= 0 {
		s.scale *= st.Volatility
	}
	return s.scale
}

// Measure summarizes the window span: its peak (at least 1), per-quartile
// sums and the volatility factor sqrt(totalDiff / (total/4)).
func Measure(w *history.Window) Stats {
	st := Stats{Max: 1}
	for i, v := range w.Span() {
		if v > st.Max {
			st.Max = v
		}
		st.Quartiles[w.QuartileOf(i)] += uint64(v)
		st.Total += uint64(v)
	}

	for i := 0; i < len(st.Quartiles)-1; i++ {
		a, b := st.Quartiles[i], st.Quartiles[i+1]
		if a > b {
			st.TotalDiff += a - b
		} else {
			st.TotalDiff += b - a
		}
	}

	if st.Total > 0 {
		st.Volatility = math.Sqrt(float64(st.TotalDiff) / (float64(st.Total) / 4))
	}
	return st
}
