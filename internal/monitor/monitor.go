// Package monitor turns connector snapshots from a display-control device into
// the monitor and video-mode values consumed by the windowing layer.
//
// MonitorHandle and VideoMode are immutable values. Each carries its own copy
// of the connector state it was built from, so both stay valid after the
// device they came from has been closed.
package monitor

import (
	"cmp"
	"errors"
	"iter"
	"slices"

	"github.com/1broseidon/kmsdisplay/internal/drm"
)

// ErrNoModes is returned by MonitorHandle.Size when the output reports no
// video modes.
var ErrNoModes = errors.New("monitor reports no video modes")

// placeholderName stands in for a real per-connector name lookup.
const placeholderName = "card0"

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

// PhysicalPosition is a position in device pixels.
type PhysicalPosition struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// MonitorHandle describes one connected output. Values are obtained from
// Enumerate or VideoMode.Monitor; the zero value has no modes.
type MonitorHandle struct {
	info drm.ConnectorInfo
}

func newMonitorHandle(info drm.ConnectorInfo) MonitorHandle {
	return MonitorHandle{info: info.Clone()}
}

// Name always reports "card0". It does not reflect the connector.
func (m MonitorHandle) Name() (string, bool) {
	return placeholderName, true
}

// NativeIdentifier returns the kernel connector id. It is stable for a
// physical connector while the device stays open and is the sole ordering key.
func (m MonitorHandle) NativeIdentifier() uint32 {
	return m.info.ID
}

// ConnectorName returns the kernel-style connector name such as "HDMI-A-1".
func (m MonitorHandle) ConnectorName() string {
	return m.info.Name
}

// Size returns the pixel dimensions of the first (preferred) mode.
func (m MonitorHandle) Size() (PhysicalSize, error) {
	if len(m.info.Modes) == 0 {
		return PhysicalSize{}, ErrNoModes
	}
	return sizeOf(m.info.Modes[0]), nil
}

// MustSize is like Size but panics when the monitor has no modes.
func (m MonitorHandle) MustSize() PhysicalSize {
	size, err := m.Size()
	if err != nil {
		panic(err)
	}
	return size
}

// Position is always the origin; outputs are not laid out relative to each other.
func (m MonitorHandle) Position() PhysicalPosition {
	return PhysicalPosition{}
}

// ScaleFactor is always 1.
func (m MonitorHandle) ScaleFactor() float64 {
	return 1.0
}

// PhysicalSizeMM returns the panel size in millimetres as reported by the
// kernel (0 when unknown).
func (m MonitorHandle) PhysicalSizeMM() (width, height uint32) {
	return m.info.MmWidth, m.info.MmHeight
}

// ModeCount returns the number of modes the output reports.
func (m MonitorHandle) ModeCount() int {
	return len(m.info.Modes)
}

// VideoModes yields one VideoMode per reported mode in kernel order, without
// sorting or de-duplication. The sequence can be ranged over repeatedly.
func (m MonitorHandle) VideoModes() iter.Seq[VideoMode] {
	owner := m.info.Clone()
	return func(yield func(VideoMode) bool) {
		for _, mode := range owner.Modes {
			if !yield(VideoMode{mode: mode, owner: owner}) {
				return
			}
		}
	}
}

// Equal reports whether both handles wrap identical connector state.
func (m MonitorHandle) Equal(other MonitorHandle) bool {
	return m.info.Equal(other.info)
}

// Compare orders handles by NativeIdentifier.
func (m MonitorHandle) Compare(other MonitorHandle) int {
	return cmp.Compare(m.info.ID, other.info.ID)
}

// Less reports whether m sorts before other.
func (m MonitorHandle) Less(other MonitorHandle) bool {
	return m.Compare(other) < 0
}

// SortByIdentifier sorts monitors in place by ascending NativeIdentifier.
func SortByIdentifier(monitors []MonitorHandle) {
	slices.SortStableFunc(monitors, MonitorHandle.Compare)
}

func sizeOf(mode drm.ModeInfo) PhysicalSize {
	w, h := mode.Size()
	return PhysicalSize{Width: uint32(w), Height: uint32(h)}
}
