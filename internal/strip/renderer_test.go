package strip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/history"
)

func spanWindow(span ...uint32) *history.Window {
	w := history.New(len(span))
	for _, v := range span {
		w.ShiftAndAppend(v)
	}
	w.ShiftAndAppend(0)
	return w
}

func TestRender_FourQuartilesOfOne(t *testing.T) {
	// capacity 4, height 2: colorUnit = 255 / (1 * 2) = 127.5
	r := NewRenderer(2, config.ColorUnitFor(4, 2))
	w := spanWindow(1, 2, 3, 4)

	levels := r.Accumulate(w, 1)
	// v=1, red: one unit of 127.5
	assert.Equal(t, []float64{127.5, 0}, levels[Red])
	// v=2, green: two units of 255
	assert.Equal(t, []float64{255, 255}, levels[Green])
	// v=3, blue: 382.5 saturates, third unit off the strip
	assert.Equal(t, []float64{255, 255}, levels[Blue])
	// v=4, white: 510 saturates
	assert.Equal(t, []float64{255, 255}, levels[White])

	d := NewBuffer(2)
	frame := r.Render(w, 1, d)
	want := []Color{
		{R: 127, G: 255, B: 255, W: 255},
		{R: 0, G: 255, B: 255, W: 255},
	}
	assert.Equal(t, want, frame)
	assert.Equal(t, want, d.Shown())
	assert.Equal(t, 1, d.Shows())
}

func TestRender_Idempotent(t *testing.T) {
	r := NewRenderer(5, config.ColorUnitFor(8, 5))
	w := spanWindow(3, 0, 7, 1, 2, 9, 4, 4)

	first := r.Frame(w, 0.6)
	second := r.Frame(w, 0.6)
	assert.Equal(t, first, second)
}

func TestRender_SaturatesWithoutOverflow(t *testing.T) {
	r := NewRenderer(3, config.ColorUnitFor(4, 3))
	w := spanWindow(1_000_000, 1_000_000, 1_000_000, 1_000_000)

	var d *Buffer
	require.NotPanics(t, func() {
		d = NewBuffer(3)
		r.Render(w, 1, d)
	})
	for _, c := range d.Shown() {
		assert.Equal(t, FullWhite, c)
	}
}

func TestRender_BlendsWithinChannel(t *testing.T) {
	// capacity 8, height 4: colorUnit = 255 / (2 * 4) = 31.875
	r := NewRenderer(4, config.ColorUnitFor(8, 4))
	w := spanWindow(2, 1, 0, 0, 0, 0, 0, 0)

	levels := r.Accumulate(w, 1)
	// 2*31.875 on two units, then 31.875 on one unit
	assert.Equal(t, []float64{95.625, 63.75, 0, 0}, levels[Red])
	assert.Equal(t, []float64{0, 0, 0, 0}, levels[White])
}

func TestRender_FractionalUnitsFloor(t *testing.T) {
	r := NewRenderer(4, config.ColorUnitFor(4, 4))
	w := spanWindow(0, 0, 0, 3)

	// 3 * 0.9 = 2.7 lights two units
	levels := r.Accumulate(w, 0.9)
	assert.Equal(t, 0.0, levels[White][2])
	assert.Greater(t, levels[White][1], 0.0)

	// below one unit lights nothing
	levels = r.Accumulate(w, 0.3)
	assert.Equal(t, []float64{0, 0, 0, 0}, levels[White])
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, Red, ChannelFor(history.Oldest))
	assert.Equal(t, Green, ChannelFor(history.Older))
	assert.Equal(t, Blue, ChannelFor(history.Newer))
	assert.Equal(t, White, ChannelFor(history.Newest))
}

func TestBuffer_IgnoresOutOfRange(t *testing.T) {
	b := NewBuffer(2)
	b.SetColor(-1, FullWhite)
	b.SetColor(2, FullWhite)
	b.Show()
	assert.Equal(t, []Color{Off, Off}, b.Shown())
	assert.Equal(t, Off, b.Color(5))

	Fill(b, FullWhite)
	assert.Equal(t, FullWhite, b.Color(1))
	b.Clear()
	assert.Equal(t, Off, b.Color(1))
}
