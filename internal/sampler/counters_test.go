package sampler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters_SuspiciousAlsoCountsAsFrame(t *testing.T) {
	var c Counters
	c.Increment(Frame)
	c.Increment(Frame)
	c.Increment(Suspicious)

	assert.Equal(t, Counts{Frames: 3, Suspicious: 1}, c.peek())
	assert.Equal(t, Counts{Frames: 3, Suspicious: 1}, c.Swap())
	assert.Equal(t, Counts{}, c.Swap())
}

func TestCounters_ConcurrentIncrementsAreNotLost(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	var drained Counts
	var mu sync.Mutex

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if g%2 == 0 && i%10 == 0 {
					c.Increment(Suspicious)
				} else {
					c.Increment(Frame)
				}
				if i%100 == 0 {
					got := c.Swap()
					mu.Lock()
					drained.Frames += got.Frames
					drained.Suspicious += got.Suspicious
					mu.Unlock()
				}
			}
		}(g)
	}
	wg.Wait()

	rest := c.Swap()
	assert.Equal(t, uint32(8000), drained.Frames+rest.Frames)
	assert.Equal(t, uint32(400), drained.Suspicious+rest.Suspicious)
}
