package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/strip"
)

func TestHexColor_FoldsWhiteAndClamps(t *testing.T) {
	assert.Equal(t, "#000000", HexColor(strip.Off))
	assert.Equal(t, "#FFFFFF", HexColor(strip.FullWhite))
	assert.Equal(t, "#7F0000", HexColor(strip.Color{R: 127}))
	assert.Equal(t, "#FF1414", HexColor(strip.Color{R: 250, W: 20}))
}

func TestRenderStripPanel_PositionZeroAtBottom(t *testing.T) {
	colors := []strip.Color{{W: 255}, strip.Off, strip.Off}
	out := RenderStripPanel(colors, false, true, 60, 14)

	first := strings.Index(out, "W  0")
	last := strings.Index(out, "W255")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last)
	assert.Contains(t, out, "oldest")
}

func TestRenderStripPanel_FixedHeight(t *testing.T) {
	out := RenderStripPanel(make([]strip.Color, 3), true, false, 60, 16)
	assert.Equal(t, 16, lipgloss.Height(out))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", renderSparkline(nil, 10))
	assert.Equal(t, "_^", renderSparkline([]uint32{0, 8}, 10))
	assert.Equal(t, "_____", renderSparkline([]uint32{3, 3, 3, 3, 3}, 10))
	assert.Len(t, renderSparkline(make([]uint32, 50), 12), 12)
}

func TestRenderScaleBar_FullAtIdentity(t *testing.T) {
	full := renderScaleBar(1, 8)
	assert.Contains(t, full, "||||||||")
	empty := renderScaleBar(0, 8)
	assert.Contains(t, empty, "--------")
}

func TestRenderStatusBar(t *testing.T) {
	out := RenderStatusBar(200, Status{Channel: 6, Frequency: 2437, Threshold: 2, Episodes: 1})
	assert.Contains(t, out, "WATCHING")
	assert.Contains(t, out, "2437 MHz")

	out = RenderStatusBar(200, Status{Alarm: true})
	assert.Contains(t, out, "DEAUTH ALARM")
}

func TestRenderMenuBar_FloodKeyOnlyForDemo(t *testing.T) {
	assert.NotContains(t, RenderMenuBar(120, "live", false), "lood")
	assert.Contains(t, RenderMenuBar(120, "demo", true), "lood")
}

func TestLamp(t *testing.T) {
	var l Lamp
	assert.False(t, l.On())
	l.Set(true)
	assert.True(t, l.On())
	assert.Contains(t, l.Render(), "●")
}

func TestConfigureForm_Settings(t *testing.T) {
	f := NewConfigureForm(config.Defaults())
	f.region = "jp"
	f.channel = 14
	f.interval = " 250 "
	f.history = "60"
	f.height = "12"

	s, err := f.Settings()
	require.NoError(t, err)
	assert.Equal(t, config.Settings{Channel: 14, IntervalMs: 250, HistorySec: 60, Region: "jp", Height: 12}, s)
}

func TestConfigureForm_SettingsSanitizes(t *testing.T) {
	f := NewConfigureForm(config.Defaults())
	f.region = "us"
	f.channel = 13

	s, err := f.Settings()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultChannel, s.Channel)
}

func TestConfigureForm_SettingsRejectsText(t *testing.T) {
	f := NewConfigureForm(config.Defaults())
	f.height = "tall"

	_, err := f.Settings()
	assert.ErrorContains(t, err, "height")
}

func TestChannelOptionsFollowRegion(t *testing.T) {
	f := NewConfigureForm(config.Defaults())
	f.region = "us"
	assert.Len(t, f.channelOptions(), 11)
	f.region = "jp"
	assert.Len(t, f.channelOptions(), 14)
}

func TestIntRange(t *testing.T) {
	v := intRange(1, 64)
	assert.NoError(t, v("64"))
	assert.Error(t, v("65"))
	assert.Error(t, v("x"))
}
