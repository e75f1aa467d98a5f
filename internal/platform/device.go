package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/monitor"
)

// Options selects and configures a backend.
type Options struct {
	Backend config.Backend
	Device  string // card node for the drm backend
	Display string // X display for the x11 backend; "" means $DISPLAY
	Sort    config.SortOrder
	Logger  *slog.Logger
}

// OptionsFromConfig copies the backend settings out of cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Backend: cfg.Backend,
		Device:  cfg.Device,
		Display: cfg.Display,
		Sort:    cfg.Sort,
		Logger:  logger,
	}
}

// DeviceBackend serves monitors from any monitor.ControlDevice.
type DeviceBackend struct {
	name   string
	path   string
	dev    monitor.ControlDevice
	enum   *monitor.Enumerator
	sort   config.SortOrder
	logger *slog.Logger

	describe func() (Info, error)
}

var _ Backend = (*DeviceBackend)(nil)

// NewDeviceBackend wraps dev. If dev implements io.Closer, Close releases it.
func NewDeviceBackend(name, path string, dev monitor.ControlDevice, opts Options) *DeviceBackend {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("backend", name)
	return &DeviceBackend{
		name:   name,
		path:   path,
		dev:    dev,
		enum:   monitor.NewEnumerator(logger),
		sort:   opts.Sort,
		logger: logger,
	}
}

// Name returns the backend kind, e.g. "drm".
func (b *DeviceBackend) Name() string {
	return b.name
}

// Info describes the underlying device.
func (b *DeviceBackend) Info() (Info, error) {
	if b.describe != nil {
		return b.describe()
	}
	return Info{Backend: b.name, Path: b.path}, nil
}

// Monitors enumerates connected outputs, sorted per the configured order.
func (b *DeviceBackend) Monitors() ([]monitor.MonitorHandle, error) {
	if b.dev == nil {
		return nil, fmt.Errorf("%s backend is closed", b.name)
	}
	monitors, err := b.enum.Monitors(b.dev)
	if err != nil {
		return nil, err
	}
	if b.sort == config.SortID {
		monitor.SortByIdentifier(monitors)
	}
	return monitors, nil
}

// Displays returns Monitors in report form.
func (b *DeviceBackend) Displays() ([]Display, error) {
	monitors, err := b.Monitors()
	if err != nil {
		return nil, err
	}
	return DisplaysFromMonitors(monitors), nil
}

// Close releases the device. Calling Close again is a no-op.
func (b *DeviceBackend) Close() error {
	if b == nil || b.dev == nil {
		return nil
	}
	dev := b.dev
	b.dev = nil
	if c, ok := dev.(io.Closer); ok {
		b.logger.Debug("closing device", "path", b.path)
		return c.Close()
	}
	return nil
}
