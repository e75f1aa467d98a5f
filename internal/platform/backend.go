package platform

import (
	"errors"

	"github.com/1broseidon/kmsdisplay/internal/drm"
	"github.com/1broseidon/kmsdisplay/internal/monitor"
)

// ErrUnknownBackend is returned by New for an unsupported backend kind.
var ErrUnknownBackend = errors.New("unknown display backend")

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Mode is the report form of a monitor.VideoMode.
type Mode struct {
	Name              string `json:"name" yaml:"name"`
	Width             uint32 `json:"width" yaml:"width"`
	Height            uint32 `json:"height" yaml:"height"`
	RefreshRate       uint16 `json:"refresh_rate" yaml:"refresh_rate"`
	RefreshMillihertz uint32 `json:"refresh_millihertz" yaml:"refresh_millihertz"`
	BitDepth          uint16 `json:"bit_depth" yaml:"bit_depth"`
	Preferred         bool   `json:"preferred,omitempty" yaml:"preferred,omitempty"`
	Interlaced        bool   `json:"interlaced,omitempty" yaml:"interlaced,omitempty"`
}

// Display describes one connected output. Bounds is nil when the output
// reports no modes.
type Display struct {
	ID          uint32  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Connector   string  `json:"connector" yaml:"connector"`
	Bounds      *Rect   `json:"bounds" yaml:"bounds"`
	ScaleFactor float64 `json:"scale_factor" yaml:"scale_factor"`
	WidthMM     uint32  `json:"width_mm" yaml:"width_mm"`
	HeightMM    uint32  `json:"height_mm" yaml:"height_mm"`
	Modes       []Mode  `json:"modes" yaml:"modes"`
}

// Info describes the device a backend reads from. Driver, Capabilities and
// Resources are only filled by the drm backend; WindowManager and Desktops
// only by x11.
type Info struct {
	Backend       string            `json:"backend" yaml:"backend"`
	Path          string            `json:"path" yaml:"path"`
	WindowManager string            `json:"window_manager,omitempty" yaml:"window_manager,omitempty"`
	Desktops      int               `json:"desktops,omitempty" yaml:"desktops,omitempty"`
	Driver        *drm.Version      `json:"driver,omitempty" yaml:"driver,omitempty"`
	Capabilities  map[string]uint64 `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Resources     *drm.Resources    `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Backend abstracts where monitor information comes from.
type Backend interface {
	Name() string
	Info() (Info, error)
	Monitors() ([]monitor.MonitorHandle, error)
	Displays() ([]Display, error)
	Close() error
}

// ModesOf converts the modes of m in reported order.
func ModesOf(m monitor.MonitorHandle) []Mode {
	modes := make([]Mode, 0, m.ModeCount())
	for v := range m.VideoModes() {
		size := v.Size()
		modes = append(modes, Mode{
			Name:              v.Name(),
			Width:             size.Width,
			Height:            size.Height,
			RefreshRate:       v.RefreshRate(),
			RefreshMillihertz: v.RefreshRateMillihertz(),
			BitDepth:          v.BitDepth(),
			Preferred:         v.Preferred(),
			Interlaced:        v.Interlaced(),
		})
	}
	return modes
}

// DisplayFromMonitor converts a monitor handle to its report form.
func DisplayFromMonitor(m monitor.MonitorHandle) Display {
	name, _ := m.Name()
	widthMM, heightMM := m.PhysicalSizeMM()
	d := Display{
		ID:          m.NativeIdentifier(),
		Name:        name,
		Connector:   m.ConnectorName(),
		ScaleFactor: m.ScaleFactor(),
		WidthMM:     widthMM,
		HeightMM:    heightMM,
		Modes:       ModesOf(m),
	}
	if size, err := m.Size(); err == nil {
		pos := m.Position()
		d.Bounds = &Rect{
			X:      int(pos.X),
			Y:      int(pos.Y),
			Width:  int(size.Width),
			Height: int(size.Height),
		}
	}
	return d
}

// DisplaysFromMonitors converts monitors keeping their order.
func DisplaysFromMonitors(monitors []monitor.MonitorHandle) []Display {
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, DisplayFromMonitor(m))
	}
	return displays
}
