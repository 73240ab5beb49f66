package capture

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actlight.klederson.com/internal/sampler"
)

// mgmtFrame builds an 802.11 management frame with the given frame
// control byte (subtype<<4 | type<<2), a 2-byte body and a zero FCS.
func mgmtFrame(fc byte) []byte {
	frame := make([]byte, 30)
	frame[0] = fc
	copy(frame[4:10], []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	copy(frame[10:16], []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01})
	copy(frame[16:22], []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01})
	frame[24] = 0x07 // reason code
	return frame
}

const (
	fcDisassoc = 0xA0
	fcDeauth   = 0xC0
	fcProbeReq = 0x40
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		fc   byte
		want sampler.Kind
	}{
		{"deauthentication", fcDeauth, sampler.Suspicious},
		{"disassociation", fcDisassoc, sampler.Suspicious},
		{"probe request", fcProbeReq, sampler.Frame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Classify(Decode(mgmtFrame(tt.fc), layers.LinkTypeIEEE802_11))
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestClassify_NotDot11(t *testing.T) {
	_, ok := Classify(Decode([]byte{0x01, 0x02, 0x03}, layers.LinkTypeEthernet))
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, sampler.Suspicious, KindOf(layers.Dot11TypeMgmtDeauthentication))
	assert.Equal(t, sampler.Suspicious, KindOf(layers.Dot11TypeMgmtDisassociation))
	assert.Equal(t, sampler.Frame, KindOf(layers.Dot11TypeMgmtBeacon))
	assert.Equal(t, sampler.Frame, KindOf(layers.Dot11TypeData))
}

func writePcap(t *testing.T, link layers.LinkType, frames ...[]byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, link))
	ts := time.Unix(1700000000, 0)
	for _, f := range frames {
		ci := gopacket.CaptureInfo{Timestamp: ts, CaptureLength: len(f), Length: len(f)}
		require.NoError(t, w.WritePacket(ci, f))
		ts = ts.Add(time.Millisecond)
	}
	return &buf
}

func TestReplay_CountsFrames(t *testing.T) {
	buf := writePcap(t, layers.LinkTypeIEEE802_11,
		mgmtFrame(fcProbeReq),
		mgmtFrame(fcDeauth),
		mgmtFrame(fcDeauth),
		mgmtFrame(fcDisassoc),
		mgmtFrame(fcProbeReq),
	)

	var c sampler.Counters
	st, err := Replay(context.Background(), buf, &c, 0)
	require.NoError(t, err)
	assert.Equal(t, ReplayStats{Packets: 5, Frames: 5, Suspicious: 3}, st)
	assert.Equal(t, sampler.Counts{Frames: 5, Suspicious: 3}, c.Swap())
}

func TestReplay_SkipsForeignLinkType(t *testing.T) {
	buf := writePcap(t, layers.LinkTypeEthernet, []byte{0x00, 0x01})

	var c sampler.Counters
	st, err := Replay(context.Background(), buf, &c, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, sampler.Counts{}, c.Swap())
}

func TestReplay_Cancelled(t *testing.T) {
	buf := writePcap(t, layers.LinkTypeIEEE802_11, mgmtFrame(fcDeauth))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c sampler.Counters
	_, err := Replay(ctx, buf, &c, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplay_BadHeader(t *testing.T) {
	var c sampler.Counters
	_, err := Replay(context.Background(), bytes.NewReader([]byte("nope")), &c, 0)
	assert.Error(t, err)
}

func TestDemoSource_FloodProducesSuspicious(t *testing.T) {
	s := NewDemoSource(7)
	var c sampler.Counters

	var frames int
	for i := 0; i < 50; i++ {
		f, _ := s.step(demoStep, &c)
		frames += f
	}
	assert.Greater(t, frames, 0)

	c.Swap()
	s.Flood()
	var suspicious int
	for i := 0; i < 10; i++ { // 200ms, one default tick
		_, sus := s.step(demoStep, &c)
		suspicious += sus
	}
	assert.Greater(t, suspicious, 2)
	got := c.Swap()
	assert.Equal(t, uint32(suspicious), got.Suspicious)
}

func TestDemoSource_StartTwice(t *testing.T) {
	s := NewDemoSource(1)
	var c sampler.Counters
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, &c))
	assert.ErrorIs(t, s.Start(ctx, &c), ErrSourceRunning)
	s.Stop()
}

func TestBLESource_StartClaimsOnce(t *testing.T) {
	// No adapter: a Start that slips past the guard would panic.
	s := &BLESource{}
	s.running.Store(true)
	var c sampler.Counters

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Start(context.Background(), &c)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, ErrSourceRunning)
	}
	assert.True(t, s.running.Load())
}

func TestBLESource_StopWhenIdle(t *testing.T) {
	s := &BLESource{}
	assert.NotPanics(t, s.Stop)
}

const iwDevOutput = `phy#0
	Interface wlan0mon
		ifindex 4
		wdev 0x2
		addr 00:c0:ca:11:22:33
		type monitor
		channel 6 (2437 MHz), width: 20 MHz (no HT), center1: 2437 MHz
		txpower 20.00 dBm
	Interface wlan0
		ifindex 3
		wdev 0x1
		addr 00:c0:ca:11:22:33
		type managed
`

func fakeTuner(out string, err error, calls *[][]string) *Tuner {
	return &Tuner{run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		return []byte(out), err
	}}
}

func TestParseIWDev(t *testing.T) {
	got := parseIWDev(iwDevOutput)
	assert.Equal(t, []Interface{
		{Name: "wlan0mon", Type: "monitor", Channel: 6},
		{Name: "wlan0", Type: "managed"},
	}, got)
}

func TestTuner_MonitorInterface(t *testing.T) {
	var calls [][]string
	tuner := fakeTuner(iwDevOutput, nil, &calls)
	ctx := context.Background()

	name, err := tuner.MonitorInterface(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "wlan0mon", name)

	_, err = tuner.MonitorInterface(ctx, "wlan0")
	assert.ErrorIs(t, err, ErrNotMonitor)

	_, err = tuner.MonitorInterface(ctx, "wlan9")
	assert.ErrorIs(t, err, ErrNoInterface)

	_, err = fakeTuner("", nil, &calls).MonitorInterface(ctx, "")
	assert.ErrorIs(t, err, ErrNoInterface)
}

func TestTuner_SetChannel(t *testing.T) {
	var calls [][]string
	require.NoError(t, fakeTuner("", nil, &calls).SetChannel(context.Background(), "wlan0mon", 11))
	assert.Equal(t, [][]string{{"iw", "dev", "wlan0mon", "set", "channel", "11"}}, calls)

	err := fakeTuner("command failed (-16)", errors.New("exit status 240"), &calls).
		SetChannel(context.Background(), "wlan0mon", 11)
	assert.ErrorContains(t, err, "command failed (-16)")
}

func TestChannelFrequency(t *testing.T) {
	assert.Equal(t, 2412, ChannelFrequency(1))
	assert.Equal(t, 2437, ChannelFrequency(6))
	assert.Equal(t, 2472, ChannelFrequency(13))
	assert.Equal(t, 2484, ChannelFrequency(14))
}
