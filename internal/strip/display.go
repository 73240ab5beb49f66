// Package strip renders the window onto an RGBW light strip.
package strip

import "fmt"

// Color is one RGBW pixel.
type Color struct {
	R, G, B, W uint8
}

var (
	Off       = Color{}
	FullWhite = Color{255, 255, 255, 255}
)

func (c Color) String() string {
	return fmt.Sprintf("rgbw(%d,%d,%d,%d)", c.R, c.G, c.B, c.W)
}

// Display is an addressable RGBW strip. SetColor writes are pending until
// Show; positions outside [0, Height()) are ignored.
type Display interface {
	Height() int
	SetColor(pos int, c Color)
	// Color returns the color currently shown (or pending) at pos.
	Color(pos int) Color
	Show()
	Clear()
}

// Alerter is implemented by displays with a distinct alert presentation.
type Alerter interface {
	SetAlert(on bool)
}

// Buffer is an in-memory Display. Shown holds the colors of the last Show.
type Buffer struct {
	pending []Color
	shown   []Color
	shows   int
	alert   bool
}

// NewBuffer creates a dark buffer with height positions.
func NewBuffer(height int) *Buffer {
	return &Buffer{
		pending: make([]Color, height),
		shown:   make([]Color, height),
	}
}

func (b *Buffer) Height() int { return len(b.pending) }

func (b *Buffer) SetColor(pos int, c Color) {
	if pos < 0 || pos >= len(b.pending) {
		return
	}
	b.pending[pos] = c
}

func (b *Buffer) Color(pos int) Color {
	if pos < 0 || pos >= len(b.pending) {
		return Off
	}
	return b.pending[pos]
}

func (b *Buffer) Show() {
	copy(b.shown, b.pending)
	b.shows++
}

func (b *Buffer) Clear() {
	for i := range b.pending {
		b.pending[i] = Off
	}
}

func (b *Buffer) SetAlert(on bool) { b.alert = on }

// Shown returns a copy of the colors flushed by the last Show.
func (b *Buffer) Shown() []Color {
	out := make([]Color, len(b.shown))
	copy(out, b.shown)
	return out
}

// Shows returns how many times Show was called.
func (b *Buffer) Shows() int { return b.shows }

// Alert reports whether the alert presentation is on.
func (b *Buffer) Alert() bool { return b.alert }

// Fill sets every position of d to c.
func Fill(d Display, c Color) {
	for i := 0; i < d.Height(); i++ {
		d.SetColor(i, c)
	}
}
