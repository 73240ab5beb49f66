package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the strip panel and history panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, stripPanel, historyPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, stripPanel, historyPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
