package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopacket/gopacket/pcapgo"
	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/sampler"
)

// ReplayStats summarizes a replayed capture.
type ReplayStats struct {
	Packets    int
	Frames     int
	Suspicious int
	Skipped    int // packets without an 802.11 header
}

// Replay feeds every 802.11 frame of a pcap stream into sink. With speed
// > 0 packets are paced by their capture timestamps divided by speed; with
// speed 0 they are fed as fast as possible.
func Replay(ctx context.Context, r io.Reader, sink Sink, speed float64) (ReplayStats, error) {
	var st ReplayStats

	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return st, fmt.Errorf("failed to read pcap header: %w", err)
	}
	link := reader.LinkType()

	var prev time.Time
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, fmt.Errorf("failed to read packet %d: %w", st.Packets+1, err)
		}
		st.Packets++

		if speed > 0 && !prev.IsZero() {
			if gap := ci.Timestamp.Sub(prev); gap > 0 {
				select {
				case <-ctx.Done():
					return st, ctx.Err()
				case <-time.After(time.Duration(float64(gap) / speed)):
				}
			}
		}
		prev = ci.Timestamp

		kind, ok := Classify(Decode(data, link))
		if !ok {
			st.Skipped++
			continue
		}
		sink.Increment(kind)
		st.Frames++
		if kind == sampler.Suspicious {
			st.Suspicious++
		}
	}
}

// ReplaySource replays a pcap file in the background.
type ReplaySource struct {
	path  string
	speed float64
	log   logrus.FieldLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewReplaySource creates a source for the pcap file at path.
func NewReplaySource(path string, speed float64, log logrus.FieldLogger) *ReplaySource {
	return &ReplaySource{path: path, speed: speed, log: log}
}

func (s *ReplaySource) Name() string { return "replay:" + s.path }

// Start opens the file and begins feeding sink.
func (s *ReplaySource) Start(ctx context.Context, sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSourceRunning
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go func() {
		defer close(s.done)
		defer f.Close()
		st, err := Replay(ctx, f, sink, s.speed)
		entry := s.log.WithFields(logrus.Fields{
			"file":       s.path,
			"packets":    st.Packets,
			"frames":     st.Frames,
			"suspicious": st.Suspicious,
			"skipped":    st.Skipped,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			entry.WithError(err).Error("replay failed")
			return
		}
		entry.Info("replay finished")
	}()
	return nil
}

// Done is closed when the replay ends.
func (s *ReplaySource) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop cancels the replay.
func (s *ReplaySource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
}
