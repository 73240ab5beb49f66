package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"actlight.klederson.com/internal/capture"
	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/sampler"
	"actlight.klederson.com/internal/strip"
	"actlight.klederson.com/internal/ui"
)

// flooder is implemented by sources that can simulate an attack.
type flooder interface {
	Flood()
}

// finisher is implemented by sources that end on their own.
type finisher interface {
	Done() <-chan struct{}
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	sampler *sampler.Sampler
	display *strip.Buffer
	lamp    *ui.Lamp
	source  capture.Source
	cancel  context.CancelFunc
}

// AppModel is the root Bubble Tea model for ACTLIGHT.
type AppModel struct {
	width  int
	height int

	settings   config.Settings
	showLevels bool
	finished   bool

	shared *shared

	// Cached after each step
	snap  sampler.Snapshot
	shown []strip.Color
	alert bool
}

// New creates a new AppModel sampling from source.
func New(s config.Settings, source capture.Source, log logrus.FieldLogger) AppModel {
	display := strip.NewBuffer(s.Height)
	lamp := &ui.Lamp{}
	return AppModel{
		settings: s,
		shown:    display.Shown(),
		shared: &shared{
			sampler: sampler.New(s, display, lamp, log),
			display: display,
			lamp:    lamp,
			source:  source,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if f, ok := m.shared.source.(finisher); ok {
		cmds = append(cmds, waitDone(f.Done()))
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.step(time.Time(msg))
		return m, tickCmd()

	case SourceDoneMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

func (m *AppModel) step(now time.Time) {
	if m.shared.sampler.Step(now) == sampler.Waiting {
		return
	}
	m.snap = m.shared.sampler.Snapshot()
	m.shown = m.shared.display.Shown()
	m.alert = m.shared.display.Alert()
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.StopSource()
		return m, tea.Quit

	case "l", "L":
		m.showLevels = !m.showLevels

	case "f", "F":
		if f, ok := m.shared.source.(flooder); ok {
			f.Flood()
		}
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing ACTLIGHT..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	stripW := m.width / 2
	if stripW < 30 {
		stripW = 30
	}
	if !m.showLevels {
		stripW = min(stripW, 50)
	}
	historyW := m.width - stripW
	if historyW < 24 {
		historyW = 24
		stripW = m.width - historyW
	}

	_, canFlood := m.shared.source.(flooder)
	source := m.shared.source.Name()
	if m.finished {
		source += " (done)"
	}
	menuBar := ui.RenderMenuBar(m.width, source, canFlood)

	stripPanel := ui.RenderStripPanel(m.shown, m.alert, m.showLevels, stripW, bodyH)

	alarm := m.shared.sampler.Alarm()
	history := ui.HistoryView{
		Values:    m.shared.sampler.Window().Values(),
		Scale:     m.snap.Scale,
		Ticks:     m.snap.Ticks,
		Settings:  m.settings.String(),
		ColorUnit: m.settings.ColorUnit(),
		Alarm:     alarm.Active(),
	}
	if history.Alarm {
		history.AlarmSince = alarm.Started().Format("15:04:05.000")
	}
	historyPanel := ui.RenderHistoryPanel(history, historyW, bodyH)

	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		Lamp:       m.shared.lamp.Render(),
		Alarm:      alarm.Active(),
		Channel:    m.settings.Channel,
		Frequency:  capture.ChannelFrequency(m.settings.Channel),
		IntervalMs: m.settings.IntervalMs,
		Capacity:   m.settings.WindowCapacity(),
		Frames:     m.snap.Last.Frames,
		Suspicious: m.snap.Last.Suspicious,
		Threshold:  alarm.Threshold(),
		Scale:      m.snap.Scale,
		Episodes:   m.snap.Episodes,
	})

	return ui.ComposeLayout(menuBar, stripPanel, historyPanel, statusBar)
}

// StartSource starts the capture source feeding the sampler's counters.
// Must be called before p.Run().
func (m *AppModel) StartSource(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.shared.cancel = cancel
	if err := m.shared.source.Start(ctx, m.shared.sampler.Counters()); err != nil {
		cancel()
		return err
	}
	return nil
}

// StopSource stops the capture source.
func (m *AppModel) StopSource() {
	m.shared.source.Stop()
	if m.shared.cancel != nil {
		m.shared.cancel()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.SchedulerPeriod, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return SourceDoneMsg{}
	}
}
