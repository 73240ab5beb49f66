package capture

import (
	"context"
	"fmt"
	"sync/atomic"

	"tinygo.org/x/bluetooth"

	"actlight.klederson.com/internal/sampler"
)

// BLESource counts Bluetooth Low Energy advertisements as frames. BLE has
// no deauthentication, so it never reports suspicious frames.
type BLESource struct {
	adapter *bluetooth.Adapter
	running atomic.Bool
}

// NewBLESource creates a source on the default adapter.
func NewBLESource() *BLESource {
	return &BLESource{
		adapter: bluetooth.DefaultAdapter,
	}
}

func (s *BLESource) Name() string { return "ble" }

// Start enables the adapter and begins scanning in a goroutine.
func (s *BLESource) Start(ctx context.Context, sink Sink) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSourceRunning
	}
	if err := s.adapter.Enable(); err != nil {
		s.running.Store(false)
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	go func() {
		_ = s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.running.Load() {
				return
			}
			sink.Increment(sampler.Frame)
		})
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the BLE scan.
func (s *BLESource) Stop() {
	if s.running.Swap(false) {
		_ = s.adapter.StopScan()
	}
}
