package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"actlight.klederson.com/internal/strip"
)

const cellWidth = 6

// HexColor folds the white channel into RGB for a terminal preview.
func HexColor(c strip.Color) string {
	add := func(v uint8) int {
		sum := int(v) + int(c.W)
		if sum > 255 {
			sum = 255
		}
		return sum
	}
	return fmt.Sprintf("#%02X%02X%02X", add(c.R), add(c.G), add(c.B))
}

// RenderStripPanel draws the strip bottom-up: position 0 is the last row.
// showLevels adds the raw RGBW values next to each cell.
func RenderStripPanel(colors []strip.Color, alert, showLevels bool, width, height int) string {
	innerW := width - 4
	if innerW < cellWidth {
		innerW = cellWidth
	}

	lines := []string{StylePanelTitle.Render("STRIP"), StyleSeparator.Render(strings.Repeat("-", innerW))}

	for pos := len(colors) - 1; pos >= 0; pos-- {
		c := colors[pos]
		cell := "  " + StyleHelp.Render(fmt.Sprintf("%2d ", pos))
		if c == strip.Off {
			cell += StyleHelp.Render(strings.Repeat("·", cellWidth))
		} else {
			cell += lipgloss.NewStyle().Background(lipgloss.Color(HexColor(c))).Render(strings.Repeat(" ", cellWidth))
		}
		if showLevels {
			cell += " " + StyleLabel.Render(fmt.Sprintf("R%3d G%3d B%3d W%3d", c.R, c.G, c.B, c.W))
		}
		lines = append(lines, cell)
	}

	lines = append(lines, "", renderLegend())

	for len(lines) < height-2 {
		lines = append(lines, "")
	}

	style := StylePanelBorder
	if alert {
		style = StylePanelAlert
	}
	return style.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func renderLegend() string {
	entry := func(hex, label string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + StyleLegend.Render(" "+label)
	}
	return "  " + strings.Join([]string{
		entry("#FF0000", "oldest"),
		entry("#00FF00", "older"),
		entry("#0000FF", "newer"),
		entry("#FFFFFF", "newest"),
	}, "  ")
}
