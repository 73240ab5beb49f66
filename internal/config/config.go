package config

import "time"

const (
	// Monitor defaults, also used when a stored value is out of range
	DefaultChannel    = 1
	DefaultIntervalMs = 200 // sample every ... ms
	DefaultHistorySec = 30  // keep ... seconds of samples
	DefaultRegion     = "eu"
	DefaultHeight     = 5 // positions on the strip

	// Valid ranges
	MinIntervalMs = 50
	MaxIntervalMs = 1000
	MinHistorySec = 5
	MaxHistorySec = 600
	MinHeight     = 1
	MaxHeight     = 64

	// Largest window: 50ms interval over 600s
	MaxWindowCapacity = (1000 / MinIntervalMs) * MaxHistorySec

	// Alarm
	MinAlarmRate      = 2    // suspicious frames per tick, regardless of interval
	AlarmRateMsPerHit = 100  // one suspicious frame per 100ms of interval
	AlarmDuration     = 1000 * time.Millisecond
	AlarmFlickerEvery = 100 * time.Millisecond

	// Scaler
	ScaleRecoverySteps = 5 // upward convergence closes 1/5 of the gap per tick

	// Strip
	MaxChannelValue = 255

	// Driver
	SchedulerPeriod = 5 * time.Millisecond // how often Step is polled; must be finer than MinIntervalMs
	TargetFPS       = 50                   // terminal redraw cap

	// App
	AppName    = "ACTLIGHT"
	AppVersion = "1.0"
)

// RegionMaxChannel maps a regulatory region to its highest 2.4 GHz channel.
var RegionMaxChannel = map[string]int{
	"us": 11,
	"eu": 13,
	"jp": 14,
}
