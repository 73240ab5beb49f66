package config

import (
	"fmt"
	"strings"
	"time"
)

// Settings are the values fixed for one monitoring run.
type Settings struct {
	Channel    int
	IntervalMs int
	HistorySec int
	Region     string
	Height     int
}

// Defaults returns the documented default settings.
func Defaults() Settings {
	return Settings{
		Channel:    DefaultChannel,
		IntervalMs: DefaultIntervalMs,
		HistorySec: DefaultHistorySec,
		Region:     DefaultRegion,
		Height:     DefaultHeight,
	}
}

// Sanitize replaces every out-of-range value with its default and reports
// which fields were replaced. It never fails.
func (s Settings) Sanitize() (Settings, []string) {
	var replaced []string

	s.Region = strings.ToLower(strings.TrimSpace(s.Region))
	if _, ok := RegionMaxChannel[s.Region]; !ok {
		replaced = append(replaced, "region")
		s.Region = DefaultRegion
	}
	if s.Channel < 1 || s.Channel > s.MaxChannel() {
		replaced = append(replaced, "channel")
		s.Channel = DefaultChannel
	}
	if s.IntervalMs < MinIntervalMs || s.IntervalMs > MaxIntervalMs {
		replaced = append(replaced, "interval")
		s.IntervalMs = DefaultIntervalMs
	}
	if s.HistorySec < MinHistorySec || s.HistorySec > MaxHistorySec {
		replaced = append(replaced, "timeframe")
		s.HistorySec = DefaultHistorySec
	}
	if s.Height < MinHeight || s.Height > MaxHeight {
		replaced = append(replaced, "height")
		s.Height = DefaultHeight
	}
	return s, replaced
}

// MaxChannel returns the highest channel allowed in the configured region.
func (s Settings) MaxChannel() int {
	if top, ok := RegionMaxChannel[s.Region]; ok {
		return top
	}
	return RegionMaxChannel[DefaultRegion]
}

// Interval returns the tick length.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// WindowCapacity is the number of ticks covering HistorySec.
func (s Settings) WindowCapacity() int {
	n := (1000 / s.IntervalMs) * s.HistorySec
	if n < 1 {
		return 1
	}
	if n > MaxWindowCapacity {
		return MaxWindowCapacity
	}
	return n
}

// AlarmRateThreshold is the suspicious count per tick that must be
// exceeded to raise the alarm.
func (s Settings) AlarmRateThreshold() uint64 {
	rate := uint64(s.IntervalMs / AlarmRateMsPerHit)
	if rate < MinAlarmRate {
		return MinAlarmRate
	}
	return rate
}

// ColorUnit is the channel value added per unit of scaled count, so that a
// quartile saturated at full height reaches MaxChannelValue.
func (s Settings) ColorUnit() float64 {
	return ColorUnitFor(s.WindowCapacity(), s.Height)
}

// ColorUnitFor computes the color unit for an explicit capacity and height.
// It divides in floating point: integer division would round the unit down
// (1 instead of 1.36 for a 150-tick window on 5 lights) and leave a full
// quartile short of MaxChannelValue.
func ColorUnitFor(capacity, height int) float64 {
	denom := float64(capacity) / 4 * float64(height)
	if denom <= 0 {
		return MaxChannelValue
	}
	return MaxChannelValue / denom
}

func (s Settings) String() string {
	return fmt.Sprintf("channel=%d interval=%dms timeframe=%ds region=%s height=%d",
		s.Channel, s.IntervalMs, s.HistorySec, s.Region, s.Height)
}
