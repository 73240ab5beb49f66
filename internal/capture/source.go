// Package capture feeds observed wireless frames into the sampler's
// counters.
package capture

import (
	"context"
	"errors"

	"actlight.klederson.com/internal/sampler"
)

var (
	// ErrSourceRunning indicates Start was called twice
	ErrSourceRunning = errors.New("capture source is already running")

	// ErrNoInterface indicates no wireless interface could be found
	ErrNoInterface = errors.New("no wireless interface found")

	// ErrNotMonitor indicates the interface is not in monitor mode
	ErrNotMonitor = errors.New("interface is not in monitor mode")
)

// Sink receives one call per observed frame. *sampler.Counters is the
// production sink.
type Sink interface {
	Increment(k sampler.Kind)
}

// Source produces frames until its context is cancelled or Stop is called.
type Source interface {
	Name() string
	Start(ctx context.Context, sink Sink) error
	Stop()
}
