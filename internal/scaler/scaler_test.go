package scaler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"actlight.klederson.com/internal/history"
)

// windowWithSpan returns a window whose span equals span; the trailing
// newest entry is set to tail.
func windowWithSpan(span []uint32, tail uint32) *history.Window {
	w := history.New(len(span))
	for _, v := range span {
		w.ShiftAndAppend(v)
	}
	w.ShiftAndAppend(tail)
	return w
}

func TestUpdate_AllZeroWindow(t *testing.T) {
	s := New(5)
	w := history.New(8)

	st := Measure(w)
	assert.Equal(t, uint32(1), st.Max)
	assert.Equal(t, uint64(0), st.Total)
	assert.Equal(t, 0.0, st.Volatility)

	assert.Equal(t, 1.0, s.Update(w))
}

func TestUpdate_IdentityWhenFitsHeight(t *testing.T) {
	s := New(5)
	for _, span := range [][]uint32{{1, 2, 3, 4}, {5, 5, 5, 5}, {0, 0, 0, 5}} {
		assert.Equal(t, 1.0, s.Update(windowWithSpan(span, 100)), "span %v", span)
	}
}

func TestMeasure_Quartiles(t *testing.T) {
	st := Measure(windowWithSpan([]uint32{1, 2, 3, 4, 5, 6, 7, 8}, 0))
	assert.Equal(t, [4]uint64{3, 7, 11, 15}, st.Quartiles)
	assert.Equal(t, uint64(36), st.Total)
	assert.Equal(t, uint32(8), st.Max)
	assert.Equal(t, uint64(12), st.TotalDiff)
	assert.InDelta(t, 1.1547005, st.Volatility, 1e-6) // sqrt(12/9)
}

func TestUpdate_RecoversSlowlySnapsDown(t *testing.T) {
	s := New(5)
	w := windowWithSpan([]uint32{0, 0, 0, 20}, 0)

	// ideal 0.25, volatility sqrt(20/5) = 2
	assert.InDelta(t, 0.1, s.Update(w), 1e-9)  // (0 + 0.25/5) * 2
	assert.InDelta(t, 0.26, s.Update(w), 1e-9) // (0.1 + 0.15/5) * 2
	assert.InDelta(t, 0.5, s.Update(w), 1e-9)  // ideal below current: snap to 0.25, * 2
	assert.InDelta(t, 0.5, s.Update(w), 1e-9)

	// traffic rises: snap straight to the new ideal
	louder := windowWithSpan([]uint32{0, 0, 0, 100}, 0)
	assert.InDelta(t, 0.1, s.Update(louder), 1e-9) // 5/100 * 2
}

func TestUpdate_EvenTrafficZeroesScale(t *testing.T) {
	s := New(5)
	// no difference between quartiles: volatility 0
	assert.Equal(t, 0.0, s.Update(windowWithSpan([]uint32{10, 10, 10, 10}, 0)))
}

func TestUpdate_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(5)
	w := history.New(40)
	for i := 0; i < 2000; i++ {
		v := uint32(rng.Intn(50))
		if rng.Intn(20) == 0 {
			v = uint32(rng.Intn(5000))
		}
		w.ShiftAndAppend(v)
		got := s.Update(w)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Equal(t, got, s.Scale())
	}
}
