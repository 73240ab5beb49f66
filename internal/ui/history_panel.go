package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HistoryView is what the history panel shows.
type HistoryView struct {
	Values     []uint32
	Scale      float64
	Ticks      uint64
	Settings   string
	ColorUnit  float64
	Alarm      bool
	AlarmSince string
}

// RenderHistoryPanel renders the window sparkline and scaler state.
func RenderHistoryPanel(v HistoryView, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	lines := []string{StylePanelTitle.Render("ACTIVITY"), StyleSeparator.Render(strings.Repeat("-", innerW)), ""}

	var peak uint32
	for _, x := range v.Values {
		peak = max(peak, x)
	}

	fields := []struct{ label, value string }{
		{"Ticks", fmt.Sprintf("%d", v.Ticks)},
		{"Peak", fmt.Sprintf("%d frames/tick", peak)},
		{"Unit", fmt.Sprintf("%.3f", v.ColorUnit)},
		{"Config", v.Settings},
	}
	if v.Alarm {
		fields = append(fields, struct{ label, value string }{"Alarm", v.AlarmSince})
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-8s", f.label))+StyleValue.Render(f.value))
	}

	lines = append(lines, "")

	barWidth := innerW - 20
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render("  Scale   ")+renderScaleBar(v.Scale, barWidth)+StyleValue.Render(fmt.Sprintf(" %.3f", v.Scale)))

	lines = append(lines, "")

	if len(v.Values) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleLabel.Render("  Frames per tick:"))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(v.Values, sparkW)))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}

	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderScaleBar draws the scale factor on a log axis: 1 fills the bar,
// each decade down loses a quarter of it.
func renderScaleBar(scale float64, width int) string {
	ratio := 0.0
	if scale > 0 {
		ratio = 1 + math.Log10(scale)/4
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))

	color := ColorMatrixGreen
	if ratio < 0.5 {
		color = ColorWarning
	}
	filledPart := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

// renderSparkline maps the newest width values onto five glyph levels.
func renderSparkline(values []uint32, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}

	rng := float64(maxV - minV)
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int(float64(values[i]-minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}
