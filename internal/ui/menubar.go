package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"actlight.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, source string, canFlood bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"L", "evels"},
	}
	if canFlood {
		keys = append(keys, struct{ key, label string }{"F", "lood"})
	}
	keys = append(keys, struct{ key, label string }{"Q", "uit"})

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	left := StyleMenuKey.Render(title) + menu
	right := StyleMenuLabel.Render(fmt.Sprintf("Source: %s", source)) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
