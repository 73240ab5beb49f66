// Package alarm implements the suspicious-traffic alarm: a short episode
// that takes over the strip with a full-white flicker.
package alarm

import (
	"time"

	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/strip"
)

// State is the alarm state.
type State int

const (
	Idle State = iota
	Triggered
)

func (s State) String() string {
	if s == Triggered {
		return "triggered"
	}
	return "idle"
}

// Indicator is a single on/off lamp asserted while the alarm runs.
type Indicator interface {
	Set(on bool)
}

// Machine raises the alarm when a tick's suspicious count exceeds the
// threshold, then flickers the display for a fixed duration. An episode
// always runs to completion; it is not re-evaluated while running.
type Machine struct {
	threshold uint64
	duration  time.Duration
	flicker   time.Duration

	display   strip.Display
	indicator Indicator
	log       logrus.FieldLogger

	state       State
	start       time.Time
	lastFlicker time.Time
	flickered   bool
	episodes    int
}

// New creates an idle machine. indicator may be nil.
func New(threshold uint64, display strip.Display, indicator Indicator, log logrus.FieldLogger) *Machine {
	return &Machine{
		threshold: threshold,
		duration:  config.AlarmDuration,
		flicker:   config.AlarmFlickerEvery,
		display:   display,
		indicator: indicator,
		log:       log,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Active reports whether an episode is running.
func (m *Machine) Active() bool { return m.state == Triggered }

// Threshold returns the suspicious count that must be exceeded.
func (m *Machine) Threshold() uint64 { return m.threshold }

// Episodes returns how many alarms have been raised.
func (m *Machine) Episodes() int { return m.episodes }

// Started returns when the running episode began.
func (m *Machine) Started() time.Time { return m.start }

// Check evaluates one tick's suspicious count and starts an episode when it
// exceeds the threshold. It returns true if the alarm was raised.
func (m *Machine) Check(suspicious uint64, now time.Time) bool {
	if m.state == Triggered || suspicious <= m.threshold {
		return false
	}

	m.state = Triggered
	m.start = now
	m.flickered = false
	m.episodes++

	if a, ok := m.display.(strip.Alerter); ok {
		a.SetAlert(true)
	}
	m.setIndicator(true)

	m.log.WithFields(logrus.Fields{
		"suspicious": suspicious,
		"threshold":  m.threshold,
		"episode":    m.episodes,
	}).Warn("deauth alarm triggered")
	return true
}

// Run advances a running episode: it toggles the strip between dark and
// full white every flicker period, and ends the episode once the duration
// has been exceeded. It returns whether the alarm is still active.
func (m *Machine) Run(now time.Time) bool {
	if m.state != Triggered {
		return false
	}

	if now.Sub(m.start) > m.duration {
		m.state = Idle
		if a, ok := m.display.(strip.Alerter); ok {
			a.SetAlert(false)
		}
		m.setIndicator(false)
		m.log.WithField("episode", m.episodes).Info("deauth alarm cleared")
		return false
	}

	if !m.flickered || now.Sub(m.lastFlicker) >= m.flicker {
		m.lastFlicker = now
		m.flickered = true
		m.toggle()
	}
	return true
}

// toggle flips on the color of the first position, so a missed period only
// delays the flip.
func (m *Machine) toggle() {
	if m.display.Color(0) == strip.Off {
		strip.Fill(m.display, strip.FullWhite)
	} else {
		m.display.Clear()
	}
	m.display.Show()
}

func (m *Machine) setIndicator(on bool) {
	if m.indicator != nil {
		m.indicator.Set(on)
	}
}
