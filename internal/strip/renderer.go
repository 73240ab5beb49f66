package strip

import (
	"math"

	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/history"
)

// Levels holds the per-channel accumulation for each position, indexed by
// Channel then position.
type Levels [4][]float64

// Renderer turns a window into a stacked histogram: height is scaled
// intensity and hue is recency, with overlapping buckets blending.
type Renderer struct {
	height    int
	colorUnit float64
	levels    Levels
}

// NewRenderer creates a renderer for a strip of the given height.
func NewRenderer(height int, colorUnit float64) *Renderer {
	r := &Renderer{height: height, colorUnit: colorUnit}
	for c := range r.levels {
		r.levels[c] = make([]float64, height)
	}
	return r
}

// Accumulate fills and returns the renderer's levels for the window span
// at the given scale. The result is only valid until the next call.
func (r *Renderer) Accumulate(w *history.Window, scale float64) Levels {
	for c := range r.levels {
		clear(r.levels[c])
	}

	for i, v := range w.Span() {
		cur := float64(v) * scale
		if !(cur >= 1) {
			continue
		}
		add := cur * r.colorUnit
		row := r.levels[ChannelFor(w.QuartileOf(i))]

		units := r.height
		if cur < float64(r.height) {
			units = int(cur)
		}
		for j := 0; j < units; j++ {
			row[j] = math.Min(row[j]+add, config.MaxChannelValue)
		}
	}
	return r.levels
}

// Frame returns the colors for the window at the given scale.
func (r *Renderer) Frame(w *history.Window, scale float64) []Color {
	levels := r.Accumulate(w, scale)
	out := make([]Color, r.height)
	for p := range out {
		out[p] = Color{
			R: uint8(levels[Red][p]),
			G: uint8(levels[Green][p]),
			B: uint8(levels[Blue][p]),
			W: uint8(levels[White][p]),
		}
	}
	return out
}

// Render writes the frame to d and flushes it.
func (r *Renderer) Render(w *history.Window, scale float64, d Display) []Color {
	frame := r.Frame(w, scale)
	for p, c := range frame {
		d.SetColor(p, c)
	}
	d.Show()
	return frame
}
