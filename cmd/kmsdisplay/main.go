package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
	"github.com/1broseidon/kmsdisplay/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "monitors", "list":
		os.Exit(runMonitors(os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "info":
		os.Exit(runInfo(os.Args[2:]))
	case "devices":
		os.Exit(runDevices(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "browse", "tui":
		os.Exit(runBrowse(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kmsdisplay <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  monitors            List connected monitors")
	fmt.Fprintln(w, "  modes [ID|NAME]     List video modes of one or all monitors")
	fmt.Fprintln(w, "  info                Show driver, capabilities and resources")
	fmt.Fprintln(w, "  devices             List DRM card nodes")
	fmt.Fprintln(w, "  watch               Report monitors as they are plugged and unplugged")
	fmt.Fprintln(w, "  browse              Open interactive monitor browser")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'kmsdisplay <command> --help' for command-specific options.")
}

// commonFlags are shared by every command that reads monitors.
type commonFlags struct {
	configPath string
	device     string
	backend    string
	display    string
	sort       string
	output     string
	logLevel   string

	// deviceOrigin records which setting picked cfg.Device after load.
	deviceOrigin devnode.Origin
}

// addOutputFlags registers the flags that do not select a backend.
func addOutputFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", "", "Config file path (default: ~/.config/kmsdisplay/config.yaml)")
	fs.StringVar(&c.output, "output", "", "Output format: text, json or yaml")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	return c
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := addOutputFlags(fs)
	fs.StringVar(&c.device, "device", "", "DRM card node (default: $"+devnode.EnvDevice+", then config)")
	fs.StringVar(&c.backend, "backend", "", "Backend: drm or x11")
	fs.StringVar(&c.display, "display", "", "X display for the x11 backend")
	fs.StringVar(&c.sort, "sort", "", "Monitor order: kernel or id")
	return c
}

// load reads the config file and applies flag and environment overrides.
func (c *commonFlags) load() (*config.Config, error) {
	res, err := loadConfigResult(c.configPath)
	if err != nil {
		return nil, err
	}

	cfg := res.Config
	if c.backend != "" {
		cfg.Backend = config.Backend(strings.ToLower(c.backend))
	}
	if c.display != "" {
		cfg.Display = c.display
	}
	if c.sort != "" {
		cfg.Sort = config.SortOrder(strings.ToLower(c.sort))
	}
	if c.output != "" {
		cfg.Output = strings.ToLower(c.output)
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	cfg.Device, c.deviceOrigin = devnode.Resolve(c.device, cfg.Device)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newPrinter(cfg *config.Config) (*report.Printer, error) {
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	return report.NewPrinter(os.Stdout, format, report.ColorEnabled(os.Stdout)), nil
}

// setup loads config and opens the configured backend.
func setup(c *commonFlags) (*config.Config, *slog.Logger, platform.Backend, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	backend, err := platform.New(platform.OptionsFromConfig(cfg, logger))
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("backend opened", "backend", backend.Name(), "device", cfg.Device, "device_from", string(c.deviceOrigin))
	return cfg, logger, backend, nil
}

// parseFlags parses args and maps the result to an exit code; ok is false when
// the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}
