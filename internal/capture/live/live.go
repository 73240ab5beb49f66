// Package live captures 802.11 frames from a monitor-mode interface with
// libpcap.
package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/pcap"
	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/capture"
)

const snapLen = 256 // headers are enough to classify

// Source reads frames from a monitor-mode interface tuned to one channel.
type Source struct {
	iface   string
	channel int
	tuner   *capture.Tuner
	log     logrus.FieldLogger

	mu      sync.Mutex
	handle  *pcap.Handle
	cancel  context.CancelFunc
	running bool
}

// New creates a live source. An empty iface picks the first monitor-mode
// interface.
func New(iface string, channel int, log logrus.FieldLogger) *Source {
	return &Source{
		iface:   iface,
		channel: channel,
		tuner:   capture.NewTuner(),
		log:     log,
	}
}

func (s *Source) Name() string { return "live:" + s.iface }

// Start tunes the interface and begins capturing in a goroutine.
func (s *Source) Start(ctx context.Context, sink capture.Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return capture.ErrSourceRunning
	}

	iface, err := s.tune(ctx)
	if err != nil {
		return err
	}
	s.iface = iface

	handle, err := pcap.OpenLive(iface, snapLen, true, pcap.BlockForever)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", iface, err)
	}
	s.handle = handle
	s.running = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.log.WithFields(logrus.Fields{
		"iface":     iface,
		"channel":   s.channel,
		"frequency": capture.ChannelFrequency(s.channel),
		"link":      handle.LinkType(),
	}).Info("capturing")

	go s.loop(ctx, handle, sink)
	go func() {
		<-ctx.Done()
		handle.Close()
	}()
	return nil
}

// tune finds the monitor interface and sets its channel. Without iw the
// interface must be named and is captured on whatever channel it is on.
func (s *Source) tune(ctx context.Context) (string, error) {
	if !capture.TunerAvailable() {
		if s.iface == "" {
			return "", fmt.Errorf("iw not found, name the interface: %w", capture.ErrNoInterface)
		}
		s.log.WithField("iface", s.iface).Warn("iw not found, channel left unchanged")
		return s.iface, nil
	}

	iface, err := s.tuner.MonitorInterface(ctx, s.iface)
	if err != nil {
		return "", err
	}
	if err := s.tuner.SetChannel(ctx, iface, s.channel); err != nil {
		return "", err
	}
	return iface, nil
}

func (s *Source) loop(ctx context.Context, handle *pcap.Handle, sink capture.Sink) {
	packets := gopacket.NewPacketSource(handle, handle.LinkType())
	packets.Lazy = true
	packets.NoCopy = true

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-packets.Packets():
			if !ok {
				return
			}
			if kind, ok := capture.Classify(p); ok {
				sink.Increment(kind)
			}
		}
	}
}

// Stop halts the capture and releases the handle.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
}
