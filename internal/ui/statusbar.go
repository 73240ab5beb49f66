package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the status bar shows.
type Status struct {
	Lamp       string
	Alarm      bool
	Channel    int
	Frequency  int
	IntervalMs int
	Capacity   int
	Frames     uint32
	Suspicious uint32
	Threshold  uint64
	Scale      float64
	Episodes   int
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	status := StyleStatusWatching.Render("[WATCHING]")
	if s.Alarm {
		status = StyleStatusAlarm.Render("[DEAUTH ALARM]")
	}

	info := fmt.Sprintf(" Ch: %d (%d MHz)  Tick: %dms  Window: %d  Frames: %d  Deauth: %d/%d  Scale: %.3f  Alarms: %d",
		s.Channel, s.Frequency, s.IntervalMs, s.Capacity, s.Frames, s.Suspicious, s.Threshold, s.Scale, s.Episodes)

	if s.Lamp != "" {
		status = s.Lamp + " " + status
	}

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
