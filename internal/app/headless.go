package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/capture"
	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/sampler"
	"actlight.klederson.com/internal/strip"
)

// logIndicator reports the alarm lamp through the log.
type logIndicator struct {
	log logrus.FieldLogger
}

func (l logIndicator) Set(on bool) {
	l.log.WithField("lamp", on).Info("indicator")
}

// Runner drives the sampler without a terminal. Frames go to the log at
// debug level.
type Runner struct {
	sampler *sampler.Sampler
	display *strip.Buffer
	source  capture.Source
	log     logrus.FieldLogger
}

// NewRunner creates a headless runner sampling from source.
func NewRunner(s config.Settings, source capture.Source, log logrus.FieldLogger) *Runner {
	display := strip.NewBuffer(s.Height)
	return &Runner{
		sampler: sampler.New(s, display, logIndicator{log: log}, log),
		display: display,
		source:  source,
		log:     log,
	}
}

// Sampler returns the runner's sampler.
func (r *Runner) Sampler() *sampler.Sampler { return r.sampler }

// Display returns the in-memory strip.
func (r *Runner) Display() *strip.Buffer { return r.display }

// Run samples until ctx is cancelled or a finite source runs out.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(config.SchedulerPeriod)
	defer ticker.Stop()
	return r.run(ctx, ticker.C)
}

func (r *Runner) run(ctx context.Context, clock <-chan time.Time) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.source.Start(ctx, r.sampler.Counters()); err != nil {
		return err
	}
	defer r.source.Stop()

	r.log.WithField("source", r.source.Name()).Info("sampling")

	var done <-chan struct{}
	if f, ok := r.source.(finisher); ok {
		done = f.Done()
	}
	draining := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-done:
			// Take one more tick so the tail of the source is counted.
			done = nil
			draining = true

		case now := <-clock:
			outcome := r.sampler.Step(now)
			if outcome == sampler.Sampled {
				r.log.WithField("frame", fmt.Sprint(r.display.Shown())).Debug("shown")
			}
			if draining && (outcome == sampler.Sampled || outcome == sampler.Cleared) {
				r.log.Info("source finished")
				return nil
			}
		}
	}
}
