package drm

import (
	"fmt"
	"slices"
)

// ConnectionState is the connector status reported by the kernel.
type ConnectionState uint32

const (
	Connected         ConnectionState = 1
	Disconnected      ConnectionState = 2
	UnknownConnection ConnectionState = 3
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case UnknownConnection:
		return "unknown"
	default:
		return fmt.Sprintf("ConnectionState(%d)", uint32(s))
	}
}

// ConnectorType is the DRM_MODE_CONNECTOR_* value of a connector.
type ConnectorType uint32

const (
	ConnectorUnknown ConnectorType = iota
	ConnectorVGA
	ConnectorDVII
	ConnectorDVID
	ConnectorDVIA
	ConnectorComposite
	ConnectorSVideo
	ConnectorLVDS
	ConnectorComponent
	Connector9PinDIN
	ConnectorDisplayPort
	ConnectorHDMIA
	ConnectorHDMIB
	ConnectorTV
	ConnectorEDP
	ConnectorVirtual
	ConnectorDSI
	ConnectorDPI
	ConnectorWriteback
	ConnectorSPI
	ConnectorUSB
)

// Names match the kernel's drm_connector_enum_list so generated connector
// names read like the ones in /sys/class/drm.
var connectorTypeNames = [...]string{
	ConnectorUnknown:     "Unknown",
	ConnectorVGA:         "VGA",
	ConnectorDVII:        "DVI-I",
	ConnectorDVID:        "DVI-D",
	ConnectorDVIA:        "DVI-A",
	ConnectorComposite:   "Composite",
	ConnectorSVideo:      "SVIDEO",
	ConnectorLVDS:        "LVDS",
	ConnectorComponent:   "Component",
	Connector9PinDIN:     "DIN",
	ConnectorDisplayPort: "DP",
	ConnectorHDMIA:       "HDMI-A",
	ConnectorHDMIB:       "HDMI-B",
	ConnectorTV:          "TV",
	ConnectorEDP:         "eDP",
	ConnectorVirtual:     "Virtual",
	ConnectorDSI:         "DSI",
	ConnectorDPI:         "DPI",
	ConnectorWriteback:   "Writeback",
	ConnectorSPI:         "SPI",
	ConnectorUSB:         "USB",
}

func (t ConnectorType) String() string {
	if int(t) < len(connectorTypeNames) {
		return connectorTypeNames[t]
	}
	return "Unknown"
}

// ConnectorName builds the kernel-style name of a connector, e.g. "HDMI-A-1".
func ConnectorName(t ConnectorType, typeID uint32) string {
	return fmt.Sprintf("%s-%d", t, typeID)
}

// ConnectorInfo is a snapshot of one connector's control-plane state.
// Modes are kept in the order the kernel returned them; the first entry is
// the connector's preferred mode.
type ConnectorInfo struct {
	ID         uint32
	Name       string
	Type       ConnectorType
	TypeID     uint32
	Connection ConnectionState
	EncoderID  uint32
	MmWidth    uint32
	MmHeight   uint32
	Subpixel   uint32
	Modes      []ModeInfo
}

// Clone returns a copy that shares no memory with c.
func (c ConnectorInfo) Clone() ConnectorInfo {
	c.Modes = slices.Clone(c.Modes)
	return c
}

// Equal reports whether both snapshots hold identical state.
func (c ConnectorInfo) Equal(other ConnectorInfo) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.Type == other.Type &&
		c.TypeID == other.TypeID &&
		c.Connection == other.Connection &&
		c.EncoderID == other.EncoderID &&
		c.MmWidth == other.MmWidth &&
		c.MmHeight == other.MmHeight &&
		c.Subpixel == other.Subpixel &&
		slices.Equal(c.Modes, other.Modes)
}

// Resources lists the mode-setting objects of a device.
type Resources struct {
	CRTCs      []uint32 `json:"crtcs" yaml:"crtcs"`
	Connectors []uint32 `json:"connectors" yaml:"connectors"`
	Encoders   []uint32 `json:"encoders" yaml:"encoders"`
	MinWidth   uint32   `json:"min_width" yaml:"min_width"`
	MaxWidth   uint32   `json:"max_width" yaml:"max_width"`
	MinHeight  uint32   `json:"min_height" yaml:"min_height"`
	MaxHeight  uint32   `json:"max_height" yaml:"max_height"`
}
