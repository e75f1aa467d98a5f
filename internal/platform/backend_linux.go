//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/drm"
	"github.com/1broseidon/kmsdisplay/internal/x11"
)

// New opens the backend named by opts.Backend. An empty kind means drm.
func New(opts Options) (Backend, error) {
	switch opts.Backend {
	case config.BackendDRM, "":
		return NewDRMBackend(opts)
	case config.BackendX11:
		return NewX11Backend(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// NewDRMBackend opens the card node opts.Device (drm.DefaultCardPath when empty).
func NewDRMBackend(opts Options) (*DeviceBackend, error) {
	path := opts.Device
	if path == "" {
		path = drm.DefaultCardPath
	}
	card, err := drm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	b := NewDeviceBackend(string(config.BackendDRM), path, card, opts)
	b.describe = func() (Info, error) { return describeCard(card) }
	return b, nil
}

// NewX11Backend connects to opts.Display and reads RandR outputs.
func NewX11Backend(opts Options) (*DeviceBackend, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	b := NewDeviceBackend(string(config.BackendX11), opts.Display, conn, opts)
	b.describe = func() (Info, error) { return describeX11(conn, opts.Display), nil }
	return b, nil
}

// describeX11 fills what the window manager advertises. Both values are
// optional; bare X servers have neither.
func describeX11(conn *x11.Connection, display string) Info {
	info := Info{Backend: string(config.BackendX11), Path: display}
	if wm, err := conn.WindowManager(); err == nil {
		info.WindowManager = wm
	}
	if n, err := conn.DesktopCount(); err == nil {
		info.Desktops = n
	}
	return info
}

func describeCard(card *drm.Card) (Info, error) {
	info := Info{Backend: string(config.BackendDRM), Path: card.Path()}

	version, err := card.Version()
	if err != nil {
		return Info{}, err
	}
	info.Driver = &version

	res, err := card.Resources()
	if err != nil {
		return Info{}, err
	}
	info.Resources = &res

	info.Capabilities = make(map[string]uint64, len(drm.CapabilityNames))
	for name, id := range drm.CapabilityNames {
		// Older kernels reject capabilities they do not know; leave those out.
		if v, err := card.Capability(id); err == nil {
			info.Capabilities[name] = v
		}
	}
	return info, nil
}
