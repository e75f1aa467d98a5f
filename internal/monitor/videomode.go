package monitor

import "github.com/1broseidon/kmsdisplay/internal/drm"

// bitDepth is reported for every mode regardless of pixel format.
const bitDepth = 32

// VideoMode is one supported mode of an output together with a copy of the
// output's connector state.
type VideoMode struct {
	mode  drm.ModeInfo
	owner drm.ConnectorInfo
}

// Size returns the mode's resolution.
func (v VideoMode) Size() PhysicalSize {
	return sizeOf(v.mode)
}

// BitDepth is fixed at 32.
func (v VideoMode) BitDepth() uint16 {
	return bitDepth
}

// RefreshRate returns the kernel-reported vertical refresh in whole Hz.
func (v VideoMode) RefreshRate() uint16 {
	return uint16(v.mode.VRefresh)
}

// RefreshRateMillihertz derives the refresh from the mode timings.
func (v VideoMode) RefreshRateMillihertz() uint32 {
	return v.mode.RefreshMillihertz()
}

// Preferred reports whether the connector flags this mode as preferred.
func (v VideoMode) Preferred() bool {
	return v.mode.Preferred()
}

// Interlaced reports whether the mode is interlaced.
func (v VideoMode) Interlaced() bool {
	return v.mode.Interlaced()
}

// Name returns the kernel's mode name, e.g. "1920x1080".
func (v VideoMode) Name() string {
	return v.mode.Name
}

// Timing returns the raw mode timings.
func (v VideoMode) Timing() drm.ModeInfo {
	return v.mode
}

// Monitor rebuilds the output this mode belongs to from the stored copy.
func (v VideoMode) Monitor() MonitorHandle {
	return newMonitorHandle(v.owner)
}

// Equal compares timings and owning output.
func (v VideoMode) Equal(other VideoMode) bool {
	return v.mode == other.mode && v.owner.Equal(other.owner)
}
