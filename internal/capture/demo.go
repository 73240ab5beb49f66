package capture

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"actlight.klederson.com/internal/sampler"
)

const (
	demoStep       = 20 * time.Millisecond
	demoBaseRate   = 40.0 // frames per second
	demoBurstOdds  = 0.002
	demoBurstLen   = 3 * time.Second
	demoFloodOdds  = 0.0015
	demoFloodLen   = 300 * time.Millisecond
	demoFloodRate  = 80.0 // deauth frames per second during a flood
	demoSwingHz    = 0.05
	demoSwingDepth = 0.6
)

// DemoSource generates synthetic traffic for running without a capture
// interface: a slowly swinging frame rate with occasional busy bursts and
// deauth floods.
type DemoSource struct {
	mu      sync.Mutex
	rng     *rand.Rand
	phase   float64
	elapsed time.Duration
	burst   time.Duration // remaining
	flood   time.Duration // remaining
	running bool
	cancel  context.CancelFunc
}

// NewDemoSource creates a generator seeded with seed.
func NewDemoSource(seed int64) *DemoSource {
	rng := rand.New(rand.NewSource(seed))
	return &DemoSource{
		rng:   rng,
		phase: rng.Float64() * 2 * math.Pi,
	}
}

func (s *DemoSource) Name() string { return "demo" }

// Start begins generating in a goroutine.
func (s *DemoSource) Start(ctx context.Context, sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSourceRunning
	}
	s.running = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.loop(ctx, sink)
	return nil
}

func (s *DemoSource) loop(ctx context.Context, sink Sink) {
	ticker := time.NewTicker(demoStep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step(demoStep, sink)
		}
	}
}

// Flood starts a deauth flood on the next step.
func (s *DemoSource) Flood() {
	s.mu.Lock()
	s.flood = demoFloodLen
	s.mu.Unlock()
}

// step emits the frames for dt of simulated time.
func (s *DemoSource) step(dt time.Duration, sink Sink) (frames, suspicious int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed += dt
	sec := dt.Seconds()

	if s.burst <= 0 && s.rng.Float64() < demoBurstOdds {
		s.burst = demoBurstLen
	}
	if s.flood <= 0 && s.rng.Float64() < demoFloodOdds {
		s.flood = demoFloodLen
	}

	rate := demoBaseRate * (1 + demoSwingDepth*math.Sin(2*math.Pi*demoSwingHz*s.elapsed.Seconds()+s.phase))
	if s.burst > 0 {
		rate *= 4
		s.burst -= dt
	}
	frames = int(rate*sec + s.rng.Float64())
	for i := 0; i < frames; i++ {
		sink.Increment(sampler.Frame)
	}

	if s.flood > 0 {
		suspicious = int(demoFloodRate*sec + s.rng.Float64())
		for i := 0; i < suspicious; i++ {
			sink.Increment(sampler.Suspicious)
		}
		s.flood -= dt
	}
	return frames, suspicious
}

// Stop halts the generator.
func (s *DemoSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
}
