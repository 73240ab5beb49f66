package ui

import (
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Lamp is the on-screen alarm indicator.
type Lamp struct {
	on atomic.Bool
}

func (l *Lamp) Set(on bool) { l.on.Store(on) }

func (l *Lamp) On() bool { return l.on.Load() }

// Render draws the lamp as a single colored glyph.
func (l *Lamp) Render() string {
	if l.On() {
		return lipgloss.NewStyle().Foreground(ColorLampOn).Bold(true).Render("●")
	}
	return lipgloss.NewStyle().Foreground(ColorLampOff).Render("○")
}
