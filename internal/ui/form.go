package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"actlight.klederson.com/internal/capture"
	"actlight.klederson.com/internal/config"
)

// ConfigureForm edits Settings interactively. Integer fields are bound
// through strings and parsed back by Settings.
type ConfigureForm struct {
	region   string
	channel  int
	interval string
	history  string
	height   string
}

// NewConfigureForm starts the form from s.
func NewConfigureForm(s config.Settings) *ConfigureForm {
	return &ConfigureForm{
		region:   s.Region,
		channel:  s.Channel,
		interval: strconv.Itoa(s.IntervalMs),
		history:  strconv.Itoa(s.HistorySec),
		height:   strconv.Itoa(s.Height),
	}
}

// Form builds the huh form bound to f.
func (f *ConfigureForm) Form() *huh.Form {
	regions := []huh.Option[string]{
		huh.NewOption("Americas (1-11)", "us"),
		huh.NewOption("Europe (1-13)", "eu"),
		huh.NewOption("Japan (1-14)", "jp"),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("Decides which 2.4 GHz channels are allowed").
				Options(regions...).
				Value(&f.region),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Channel").
				Description("Channel to monitor").
				OptionsFunc(f.channelOptions, &f.region).
				Value(&f.channel),
			huh.NewInput().
				Title("Tick interval (ms)").
				Description(fmt.Sprintf("%d-%d", config.MinIntervalMs, config.MaxIntervalMs)).
				Validate(intRange(config.MinIntervalMs, config.MaxIntervalMs)).
				Value(&f.interval),
			huh.NewInput().
				Title("Timeframe (s)").
				Description(fmt.Sprintf("How much history the strip shows, %d-%d", config.MinHistorySec, config.MaxHistorySec)).
				Validate(intRange(config.MinHistorySec, config.MaxHistorySec)).
				Value(&f.history),
			huh.NewInput().
				Title("Strip height").
				Description(fmt.Sprintf("Number of lights, %d-%d", config.MinHeight, config.MaxHeight)).
				Validate(intRange(config.MinHeight, config.MaxHeight)).
				Value(&f.height),
		),
	).WithTheme(huh.ThemeCharm())
}

func (f *ConfigureForm) channelOptions() []huh.Option[int] {
	top := config.Settings{Region: f.region}.MaxChannel()
	opts := make([]huh.Option[int], 0, top)
	for ch := 1; ch <= top; ch++ {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%2d  %d MHz", ch, capture.ChannelFrequency(ch)), ch))
	}
	return opts
}

// Settings parses the edited values and sanitizes them.
func (f *ConfigureForm) Settings() (config.Settings, error) {
	s := config.Settings{Region: f.region, Channel: f.channel}
	var err error
	if s.IntervalMs, err = parseField("interval", f.interval); err != nil {
		return config.Settings{}, err
	}
	if s.HistorySec, err = parseField("timeframe", f.history); err != nil {
		return config.Settings{}, err
	}
	if s.Height, err = parseField("height", f.height); err != nil {
		return config.Settings{}, err
	}
	s, _ = s.Sanitize()
	return s, nil
}

// RunConfigure shows the form and returns the chosen settings.
// It returns huh.ErrUserAborted when the user quits.
func RunConfigure(s config.Settings) (config.Settings, error) {
	f := NewConfigureForm(s)
	if err := f.Form().Run(); err != nil {
		return s, err
	}
	return f.Settings()
}

func parseField(name, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, v)
	}
	return n, nil
}

func intRange(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}
