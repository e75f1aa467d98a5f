package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/kmsdisplay/internal/drm"
)

// Backend selects where monitor information is read from.
type Backend string

const (
	BackendDRM Backend = "drm" // KMS ioctls on a /dev/dri card node.
	BackendX11 Backend = "x11" // RandR outputs of a running X server.
)

// SortOrder controls the order monitors are reported in.
type SortOrder string

const (
	SortKernel SortOrder = "kernel" // As returned by the device.
	SortID     SortOrder = "id"     // Ascending connector id.
)

const (
	DefaultLogLevel      = "info"
	DefaultOutput        = "text"
	DefaultWatchInterval = 2 * time.Second
)

// Config is the effective configuration.
type Config struct {
	// Device is the DRM card node opened by the drm backend.
	Device string `yaml:"device"`
	// Display is the X display used by the x11 backend ("" means $DISPLAY).
	Display string `yaml:"display,omitempty"`
	// Backend is "drm" (default) or "x11".
	Backend Backend `yaml:"backend"`
	// Sort is "kernel" (default) or "id".
	Sort SortOrder `yaml:"sort"`
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Output is the default output format: text, json, yaml.
	Output string `yaml:"output"`
	// WatchInterval is the polling period of `kmsdisplay watch`.
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Device:        drm.DefaultCardPath,
		Backend:       BackendDRM,
		Sort:          SortKernel,
		LogLevel:      DefaultLogLevel,
		Output:        DefaultOutput,
		WatchInterval: DefaultWatchInterval,
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return &ValidationError{Path: "device", Err: fmt.Errorf("device must not be empty")}
	}
	switch c.Backend {
	case BackendDRM, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: drm, x11")}
	}
	switch c.Sort {
	case SortKernel, SortID:
	default:
		return &ValidationError{Path: "sort", Err: fmt.Errorf("sort must be one of: kernel, id")}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return &ValidationError{Path: "output", Err: fmt.Errorf("output must be one of: text, json, yaml")}
	}
	if c.WatchInterval < 100*time.Millisecond {
		return &ValidationError{Path: "watch_interval", Err: fmt.Errorf("watch_interval must be at least 100ms")}
	}
	return nil
}

// MarshalYAML renders the config with watch_interval as a duration string.
func (c *Config) MarshalYAML() (any, error) {
	return RawConfig{
		Device:        &c.Device,
		Display:       &c.Display,
		Backend:       (*string)(&c.Backend),
		Sort:          (*string)(&c.Sort),
		LogLevel:      &c.LogLevel,
		Output:        &c.Output,
		WatchInterval: ptr(c.WatchInterval.String()),
	}, nil
}

func ptr[T any](v T) *T { return &v }

var _ yaml.Marshaler = (*Config)(nil)
