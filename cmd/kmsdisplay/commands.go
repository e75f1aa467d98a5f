package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
	"github.com/1broseidon/kmsdisplay/internal/tui"
	"github.com/1broseidon/kmsdisplay/internal/watch"
)

func newCommandFlags(name, usage string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addCommonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kmsdisplay %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs, common
}

func runMonitors(args []string) int {
	fs, common := newCommandFlags("monitors", "monitors [options]")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, _, backend, err := setup(common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	printer, err := newPrinter(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to enumerate monitors: %v\n", err)
		return 1
	}
	if err := printer.Displays(displays); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runModes(args []string) int {
	fs, common := newCommandFlags("modes", "modes [options] [CONNECTOR-ID|CONNECTOR-NAME]")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, _, backend, err := setup(common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	printer, err := newPrinter(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to enumerate monitors: %v\n", err)
		return 1
	}

	if fs.NArg() == 1 {
		d, ok := findDisplay(displays, fs.Arg(0))
		if !ok {
			fmt.Fprintf(os.Stderr, "No connected monitor matches %q\n", fs.Arg(0))
			return 1
		}
		displays = []platform.Display{d}
	}

	if err := printer.Modes(displays); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// findDisplay matches ref against the connector id first, then the connector
// name (case-insensitive).
func findDisplay(displays []platform.Display, ref string) (platform.Display, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		for _, d := range displays {
			if d.ID == uint32(id) {
				return d, true
			}
		}
	}
	for _, d := range displays {
		if strings.EqualFold(d.Connector, ref) {
			return d, true
		}
	}
	return platform.Display{}, false
}

func runInfo(args []string) int {
	fs, common := newCommandFlags("info", "info [options]")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, _, backend, err := setup(common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	printer, err := newPrinter(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	info, err := backend.Info()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query device: %v\n", err)
		return 1
	}
	if err := printer.Info(info); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// newDevicesFlags only registers flags that matter for card discovery; the
// backend selection flags are not accepted.
func newDevicesFlags() (*flag.FlagSet, *commonFlags, *string) {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addOutputFlags(fs)
	dir := fs.String("dir", devnode.Dir, "Directory to scan for card nodes")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kmsdisplay devices [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs, common, dir
}

func runDevices(args []string) int {
	fs, common, dir := newDevicesFlags()
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := common.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printer, err := newPrinter(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	nodes, err := devnode.Cards(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := printer.Devices(nodes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWatch(args []string) int {
	fs, common := newCommandFlags("watch", "watch [options]")
	interval := fs.Duration("interval", 0, "Poll interval (default: watch_interval from config)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, logger, backend, err := setup(common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	printer, err := newPrinter(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	every := cfg.WatchInterval
	if *interval > 0 {
		every = *interval
	}

	w := watch.New(watch.Config{
		Interval: every,
		Logger:   logger,
		OnChange: func(c watch.Change) {
			if err := printer.Change(time.Now(), c); err != nil {
				logger.Error("failed to print change", "error", err)
			}
		},
	}, backend.Displays)

	ctx, cancel := signalContext()
	defer cancel()

	w.Run(ctx)
	return 0
}

func runBrowse(args []string) int {
	fs, common := newCommandFlags("browse", "browse [options]")
	pick := fs.Bool("pick", false, "Choose a card node interactively before browsing")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := common.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(cfg.LogLevel)

	if *pick && cfg.Backend != config.BackendX11 {
		nodes, err := devnode.Cards(devnode.Dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		choice, err := tui.PickDevice(nodes, cfg.Device)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg.Device = choice
	}

	opts := platform.OptionsFromConfig(cfg, logger)
	load := func() (tui.Snapshot, error) {
		backend, err := platform.New(opts)
		if err != nil {
			return tui.Snapshot{}, err
		}
		defer backend.Close()

		info, err := backend.Info()
		if err != nil {
			return tui.Snapshot{}, err
		}
		displays, err := backend.Displays()
		if err != nil {
			return tui.Snapshot{}, err
		}
		return tui.Snapshot{Info: info, Displays: displays}, nil
	}

	if err := tui.Run(load); err != nil {
		fmt.Fprintf(os.Stderr, "browse: %v\n", err)
		return 1
	}
	return 0
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
