package drm

// DefaultCardPath is the primary DRM device node.
const DefaultCardPath = "/dev/dri/card0"

// Capability ids for GET_CAP.
const (
	CapDumbBuffer uint64 = iota + 1
	CapVBlankHighCRTC
	CapDumbPreferredDepth
	CapDumbPreferShadow
	CapPrime
	CapTimestampMonotonic
	CapAsyncPageFlip
	CapCursorWidth
	CapCursorHeight

	CapAddFB2Modifiers uint64 = 0x10
)

// CapabilityNames lists the capabilities worth reporting, keyed by a short name.
var CapabilityNames = map[string]uint64{
	"dumb_buffer":          CapDumbBuffer,
	"dumb_preferred_depth": CapDumbPreferredDepth,
	"dumb_prefer_shadow":   CapDumbPreferShadow,
	"prime":                CapPrime,
	"timestamp_monotonic":  CapTimestampMonotonic,
	"async_page_flip":      CapAsyncPageFlip,
	"cursor_width":         CapCursorWidth,
	"cursor_height":        CapCursorHeight,
	"addfb2_modifiers":     CapAddFB2Modifiers,
}

// Version describes the kernel driver behind a card.
type Version struct {
	Major       int    `json:"major" yaml:"major"`
	Minor       int    `json:"minor" yaml:"minor"`
	Patch       int    `json:"patch" yaml:"patch"`
	Name        string `json:"name" yaml:"name"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}
