package capture

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const tuneTimeout = 5 * time.Second

// Interface is one wireless interface as listed by `iw dev`.
type Interface struct {
	Name    string
	Type    string // "managed", "monitor", ...
	Channel int
}

// Tuner discovers wireless interfaces and tunes them with iw (needs root).
type Tuner struct {
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewTuner creates a tuner that shells out to iw.
func NewTuner() *Tuner {
	return &Tuner{run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).CombinedOutput()
	}}
}

// TunerAvailable checks if iw is available on the system.
func TunerAvailable() bool {
	_, err := exec.LookPath("iw")
	return err == nil
}

// Interfaces lists the wireless interfaces.
func (t *Tuner) Interfaces(ctx context.Context) ([]Interface, error) {
	ctx, cancel := context.WithTimeout(ctx, tuneTimeout)
	defer cancel()

	out, err := t.run(ctx, "iw", "dev")
	if err != nil {
		return nil, fmt.Errorf("failed to list wireless interfaces: %w", err)
	}
	return parseIWDev(string(out)), nil
}

// MonitorInterface returns iface if given, otherwise the first interface in
// monitor mode.
func (t *Tuner) MonitorInterface(ctx context.Context, iface string) (string, error) {
	ifaces, err := t.Interfaces(ctx)
	if err != nil {
		return "", err
	}
	for _, i := range ifaces {
		if iface != "" && i.Name != iface {
			continue
		}
		if i.Type != "monitor" {
			if iface != "" {
				return "", fmt.Errorf("%s: %w", iface, ErrNotMonitor)
			}
			continue
		}
		return i.Name, nil
	}
	if iface != "" {
		return "", fmt.Errorf("%s: %w", iface, ErrNoInterface)
	}
	return "", ErrNoInterface
}

// SetChannel tunes iface to a 2.4 GHz channel.
func (t *Tuner) SetChannel(ctx context.Context, iface string, channel int) error {
	ctx, cancel := context.WithTimeout(ctx, tuneTimeout)
	defer cancel()

	out, err := t.run(ctx, "iw", "dev", iface, "set", "channel", strconv.Itoa(channel))
	if err != nil {
		return fmt.Errorf("failed to set %s to channel %d: %w (%s)", iface, channel, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ChannelFrequency returns the center frequency in MHz of a 2.4 GHz channel.
func ChannelFrequency(channel int) int {
	if channel == 14 {
		return 2484
	}
	return 2407 + channel*5
}

// parseIWDev parses the output of `iw dev`.
func parseIWDev(output string) []Interface {
	var results []Interface
	var current *Interface

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Interface ") {
			if current != nil {
				results = append(results, *current)
			}
			current = &Interface{Name: strings.TrimPrefix(line, "Interface ")}
			continue
		}
		if current == nil {
			continue
		}

		if strings.HasPrefix(line, "type ") {
			current.Type = strings.TrimPrefix(line, "type ")
		} else if strings.HasPrefix(line, "channel ") {
			// "channel 6 (2437 MHz), width: 20 MHz (no HT), center1: 2437 MHz"
			fields := strings.Fields(strings.TrimPrefix(line, "channel "))
			if len(fields) > 0 {
				if v, err := strconv.Atoi(fields[0]); err == nil {
					current.Channel = v
				}
			}
		}
	}

	if current != nil {
		results = append(results, *current)
	}
	return results
}
