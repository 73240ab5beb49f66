package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"actlight.klederson.com/internal/app"
	"actlight.klederson.com/internal/capture"
	"actlight.klederson.com/internal/capture/live"
	"actlight.klederson.com/internal/config"
	"actlight.klederson.com/internal/logging"
	"actlight.klederson.com/internal/ui"
)

var (
	flagDemo      bool
	flagSource    string
	flagIface     string
	flagPcap      string
	flagSpeed     float64
	flagChannel   int
	flagInterval  int
	flagTimeframe int
	flagRegion    string
	flagHeight    int
	flagConfig    string
	flagConfigure bool
	flagHeadless  bool
	flagLogLevel  string
	flagLogFile   string
	flagLogJSON   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "actlight",
		Short: "ACTLIGHT - WiFi activity light with deauthentication alarm",
		Long: `ACTLIGHT counts 802.11 frames on one channel and shows the recent
activity on an RGBW light strip: oldest traffic in red, newest in white.
A burst of deauthentication or disassociation frames flashes the strip.

Live capture requires a monitor-mode interface and root or CAP_NET_RAW.
Use --demo for synthetic traffic without hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&flagConfig, "config", config.DefaultConfigPath(), "Path to the TOML config file")
	f.StringVar(&flagLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	f.StringVar(&flagLogFile, "log-file", "", "Append logs to this file")
	f.BoolVar(&flagLogJSON, "log-json", false, "Log as JSON")

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with synthetic traffic (same as --source demo)")
	rootCmd.Flags().StringVar(&flagSource, "source", "live", "Frame source: live, replay, ble or demo")
	rootCmd.Flags().StringVar(&flagIface, "iface", "", "Monitor-mode interface (default: first one found)")
	rootCmd.Flags().StringVar(&flagPcap, "pcap", "", "Capture file to replay (implies --source replay)")
	rootCmd.Flags().Float64Var(&flagSpeed, "speed", 1, "Replay speed factor; 0 replays as fast as possible")
	rootCmd.Flags().IntVar(&flagChannel, "channel", config.DefaultChannel, "WiFi channel to monitor")
	rootCmd.Flags().IntVar(&flagInterval, "interval", config.DefaultIntervalMs, "Tick interval in milliseconds")
	rootCmd.Flags().IntVar(&flagTimeframe, "timeframe", config.DefaultHistorySec, "Seconds of history shown on the strip")
	rootCmd.Flags().StringVar(&flagRegion, "region", config.DefaultRegion, "Regulatory region: us, eu or jp")
	rootCmd.Flags().IntVar(&flagHeight, "height", config.DefaultHeight, "Number of lights on the strip")
	rootCmd.Flags().BoolVar(&flagConfigure, "configure", false, "Edit the settings before starting")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without the terminal UI")

	rootCmd.AddCommand(newConfigureCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Edit and save the settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			fileCfg, err := config.LoadConfig(flagConfig)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			s, _ := fileCfg.Apply(config.Defaults()).Sanitize()
			_, err = configure(s, log)
			return err
		},
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd, log)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if flagConfigure || (interactive && !config.Exists(flagConfig)) {
		if s, err = configure(s, log); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"settings":  s.String(),
		"capacity":  s.WindowCapacity(),
		"threshold": s.AlarmRateThreshold(),
	}).Info("starting")

	headless := flagHeadless || !interactive
	if !headless && flagLogFile == "" {
		// Text logs would tear the alternate screen.
		log = logging.Discard()
	}

	source, err := newSource(s, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if headless {
		err := app.NewRunner(s, source, log).Run(ctx)
		if err != nil && (flagSource == "live" || flagSource == "ble") {
			printPermissionHint(err)
		}
		return err
	}

	model := app.New(s, source, log)
	if err := model.StartSource(ctx); err != nil {
		if flagSource == "live" || flagSource == "ble" {
			printPermissionHint(err)
		}
		return err
	}
	defer model.StopSource()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithFPS(config.TargetFPS),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// loadSettings layers defaults, the config file and explicit flags, then
// replaces anything out of range.
func loadSettings(cmd *cobra.Command, log logrus.FieldLogger) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "channel", &flagChannel, fileCfg.Monitor.Channel)
	applyIntConfig(cmd, "interval", &flagInterval, fileCfg.Monitor.Interval)
	applyIntConfig(cmd, "timeframe", &flagTimeframe, fileCfg.Monitor.Timeframe)
	applyStringConfig(cmd, "region", &flagRegion, fileCfg.Monitor.Region)
	applyIntConfig(cmd, "height", &flagHeight, fileCfg.Strip.Height)

	s, replaced := config.Settings{
		Channel:    flagChannel,
		IntervalMs: flagInterval,
		HistorySec: flagTimeframe,
		Region:     flagRegion,
		Height:     flagHeight,
	}.Sanitize()
	if len(replaced) > 0 {
		log.WithField("fields", replaced).Debug("replaced out-of-range settings with defaults")
	}
	return s, nil
}

func configure(s config.Settings, log logrus.FieldLogger) (config.Settings, error) {
	s, err := ui.RunConfigure(s)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return s, errors.New("configuration aborted")
		}
		return s, err
	}
	if err := config.SaveConfig(flagConfig, s); err != nil {
		return s, err
	}
	log.WithField("path", flagConfig).Info("saved config")
	return s, nil
}

func newSource(s config.Settings, log logrus.FieldLogger) (capture.Source, error) {
	if flagDemo {
		flagSource = "demo"
	}
	if flagPcap != "" {
		flagSource = "replay"
	}

	switch flagSource {
	case "live":
		return live.New(flagIface, s.Channel, log), nil
	case "replay":
		if flagPcap == "" {
			return nil, errors.New("--source replay needs --pcap")
		}
		return capture.NewReplaySource(flagPcap, flagSpeed, log), nil
	case "ble":
		return capture.NewBLESource(), nil
	case "demo":
		return capture.NewDemoSource(time.Now().UnixNano()), nil
	}
	return nil, fmt.Errorf("unknown source %q", flagSource)
}

func newLogger() (*logrus.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = flagLogLevel
	cfg.JSON = flagLogJSON
	if flagLogFile != "" {
		f, err := logging.OpenFile(flagLogFile)
		if err != nil {
			return nil, err
		}
		cfg.Output = f
	}
	return logging.New(cfg), nil
}

func printPermissionHint(err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
	fmt.Fprintln(os.Stderr, "Frame capture requires a monitor-mode interface and elevated permissions.")
	fmt.Fprintln(os.Stderr, "Try one of:")
	fmt.Fprintln(os.Stderr, "  sudo iw dev wlan0 set type monitor")
	fmt.Fprintln(os.Stderr, "  sudo ./actlight --iface wlan0")
	fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_raw,cap_net_admin+ep ./actlight")
	fmt.Fprintln(os.Stderr, "  ./actlight --demo    (synthetic traffic, no hardware needed)")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
