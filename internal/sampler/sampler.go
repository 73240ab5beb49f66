// Package sampler runs the tick: it drains the frame counters into the
// window, rescales, checks for the alarm and renders.
package sampler

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/alarm"
	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/history"
	"actlight.klederson.com/internal/scaler"
	"actlight.klederson.com/internal/strip"
)

// Outcome tells the driver what a Step did.
type Outcome int

const (
	Waiting  Outcome = iota // not yet time for a tick
	Sampled                 // tick taken and rendered
	Alarmed                 // tick taken and the alarm raised
	Alarming                // alarm episode running
	Cleared                 // alarm episode ended
)

func (o Outcome) String() string {
	switch o {
	case Sampled:
		return "sampled"
	case Alarmed:
		return "alarmed"
	case Alarming:
		return "alarming"
	case Cleared:
		return "cleared"
	default:
		return "waiting"
	}
}

// Snapshot describes the sampler after its last tick.
type Snapshot struct {
	Ticks      uint64
	Last       Counts
	Scale      float64
	Frame      []strip.Color
	AlarmState alarm.State
	Episodes   int
}

// Sampler owns the counters, window, scaler, alarm and renderer of one run.
// Step must be called from a single goroutine.
type Sampler struct {
	interval time.Duration
	counters *Counters
	window   *history.Window
	scaler   *scaler.Scaler
	alarm    *alarm.Machine
	renderer *strip.Renderer
	display  strip.Display
	log      logrus.FieldLogger

	armed    bool
	lastTick time.Time
	ticks    uint64
	last     Counts
	frame    []strip.Color
}

// New builds a sampler for s drawing on display.
func New(s config.Settings, display strip.Display, indicator alarm.Indicator, log logrus.FieldLogger) *Sampler {
	return &Sampler{
		interval: s.Interval(),
		counters: &Counters{},
		window:   history.New(s.WindowCapacity()),
		scaler:   scaler.New(display.Height()),
		alarm:    alarm.New(s.AlarmRateThreshold(), display, indicator, log),
		renderer: strip.NewRenderer(display.Height(), config.ColorUnitFor(s.WindowCapacity(), display.Height())),
		display:  display,
		log:      log,
	}
}

// Counters returns the pair capture sources write to.
func (s *Sampler) Counters() *Counters { return s.counters }

// Window returns the sample window.
func (s *Sampler) Window() *history.Window { return s.window }

// Alarm returns the alarm state machine.
func (s *Sampler) Alarm() *alarm.Machine { return s.alarm }

// Step performs at most one unit of work for time now: advancing a running
// alarm, or taking a tick when the interval has elapsed. Ticks are due on
// a fixed grid from the first call, so a coarse driver adds jitter but no
// drift. A call more than one interval late takes a single tick and
// restarts the grid; missed ticks are not caught up. The first call only
// arms the schedule.
func (s *Sampler) Step(now time.Time) Outcome {
	if s.alarm.Active() {
		if s.alarm.Run(now) {
			return Alarming
		}
		return Cleared
	}

	if !s.armed {
		s.armed = true
		s.lastTick = now
		return Waiting
	}
	if now.Sub(s.lastTick) < s.interval {
		return Waiting
	}
	s.lastTick = s.lastTick.Add(s.interval)
	if now.Sub(s.lastTick) >= s.interval {
		s.lastTick = now
	}
	return s.tick(now)
}

func (s *Sampler) tick(now time.Time) Outcome {
	counts := s.counters.Swap()
	s.ticks++
	s.last = counts

	s.window.ShiftAndAppend(counts.Frames)
	scale := s.scaler.Update(s.window)

	entry := s.log.WithFields(logrus.Fields{
		"tick":       s.ticks,
		"frames":     counts.Frames,
		"suspicious": counts.Suspicious,
		"scale":      scale,
	})

	if s.alarm.Check(uint64(counts.Suspicious), now) {
		return Alarmed
	}

	s.frame = s.renderer.Render(s.window, scale, s.display)
	entry.Debug("tick")
	s.dumpLevels()
	return Sampled
}

// dumpLevels logs the per-channel rows behind the last frame.
func (s *Sampler) dumpLevels() {
	if !traceEnabled(s.log) {
		return
	}
	rows := [4][]uint8{}
	for _, c := range s.frame {
		rows[strip.White] = append(rows[strip.White], c.W)
		rows[strip.Blue] = append(rows[strip.Blue], c.B)
		rows[strip.Green] = append(rows[strip.Green], c.G)
		rows[strip.Red] = append(rows[strip.Red], c.R)
	}
	fields := logrus.Fields{}
	for ch, row := range rows {
		fields[strip.Channel(ch).String()] = fmt.Sprint(row)
	}
	s.log.WithFields(fields).Trace("levels")
}

func traceEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.TraceLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.TraceLevel)
	}
	return false
}

// Snapshot returns the state after the last tick.
func (s *Sampler) Snapshot() Snapshot {
	frame := make([]strip.Color, len(s.frame))
	copy(frame, s.frame)
	return Snapshot{
		Ticks:      s.ticks,
		Last:       s.last,
		Scale:      s.scaler.Scale(),
		Frame:      frame,
		AlarmState: s.alarm.State(),
		Episodes:   s.alarm.Episodes(),
	}
}
