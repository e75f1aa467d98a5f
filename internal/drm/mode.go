package drm

// Mode type bits (DRM_MODE_TYPE_*).
const (
	ModeTypeBuiltin   uint32 = 1 << 0
	ModeTypePreferred uint32 = 1 << 3
	ModeTypeDefault   uint32 = 1 << 4
	ModeTypeUserDef   uint32 = 1 << 5
	ModeTypeDriver    uint32 = 1 << 6
)

// Mode flag bits (DRM_MODE_FLAG_*). RandR uses the same values.
const (
	ModeFlagPHSync    uint32 = 1 << 0
	ModeFlagNHSync    uint32 = 1 << 1
	ModeFlagPVSync    uint32 = 1 << 2
	ModeFlagNVSync    uint32 = 1 << 3
	ModeFlagInterlace uint32 = 1 << 4
	ModeFlagDblScan   uint32 = 1 << 5
	ModeFlagCSync     uint32 = 1 << 6
	ModeFlagDblClk    uint32 = 1 << 12
)

// ModeInfo is one display timing as reported by the kernel.
// Clock is the pixel clock in kHz; VRefresh is the kernel-computed vertical
// refresh in Hz.
type ModeInfo struct {
	Clock      uint32
	HDisplay   uint16
	HSyncStart uint16
	HSyncEnd   uint16
	HTotal     uint16
	HSkew      uint16
	VDisplay   uint16
	VSyncStart uint16
	VSyncEnd   uint16
	VTotal     uint16
	VScan      uint16
	VRefresh   uint32
	Flags      uint32
	Type       uint32
	Name       string
}

// Size returns the active area in pixels.
func (m ModeInfo) Size() (width, height uint16) {
	return m.HDisplay, m.VDisplay
}

// Preferred reports whether the connector flagged this mode as its preferred one.
func (m ModeInfo) Preferred() bool {
	return m.Type&ModeTypePreferred != 0
}

// Interlaced reports whether the mode scans interlaced fields.
func (m ModeInfo) Interlaced() bool {
	return m.Flags&ModeFlagInterlace != 0
}

// RefreshMillihertz derives the vertical refresh from the timings, rounded to
// the nearest mHz. It returns 0 for modes with no total timings.
func (m ModeInfo) RefreshMillihertz() uint32 {
	return refreshMillihertz(uint64(m.Clock)*1000, m.HTotal, m.VTotal, m.VScan, m.Flags)
}

func refreshMillihertz(clockHz uint64, htotal, vtotal, vscan uint16, flags uint32) uint32 {
	if htotal == 0 || vtotal == 0 {
		return 0
	}
	num := clockHz * 1000
	den := uint64(htotal) * uint64(vtotal)
	if flags&ModeFlagInterlace != 0 {
		num *= 2
	}
	if flags&ModeFlagDblScan != 0 {
		den *= 2
	}
	if vscan > 1 {
		den *= uint64(vscan)
	}
	return uint32((num + den/2) / den)
}

// RefreshFromDotClock computes the millihertz refresh of a timing given its
// pixel clock in Hz. Sources that only report timings (RandR) use it to fill
// VRefresh.
func RefreshFromDotClock(dotClockHz uint32, htotal, vtotal uint16, flags uint32) uint32 {
	return refreshMillihertz(uint64(dotClockHz), htotal, vtotal, 0, flags)
}
