package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/kmsdisplay/internal/drm"
)

// ConnectorIDs lists the RandR outputs of the root screen. Each output plays
// the role of a connector; the screen snapshot is kept for later Connector
// calls so ids and modes come from the same configuration.
func (c *Connection) ConnectorIDs() ([]uint32, error) {
	if c == nil || c.XUtil == nil {
		return nil, fmt.Errorf("x11 connection is closed")
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	c.resources = resources

	ids := make([]uint32, 0, len(resources.Outputs))
	for _, output := range resources.Outputs {
		ids = append(ids, uint32(output))
	}
	return ids, nil
}

// Connector reads one RandR output and converts it to connector form.
func (c *Connection) Connector(id uint32) (drm.ConnectorInfo, error) {
	if c == nil || c.XUtil == nil {
		return drm.ConnectorInfo{}, fmt.Errorf("x11 connection is closed")
	}
	if c.resources == nil {
		if _, err := c.ConnectorIDs(); err != nil {
			return drm.ConnectorInfo{}, err
		}
	}

	info, err := randr.GetOutputInfo(c.XUtil.Conn(), randr.Output(id), c.resources.ConfigTimestamp).Reply()
	if err != nil {
		return drm.ConnectorInfo{}, fmt.Errorf("failed to get output info for %d: %w", id, err)
	}

	return connectorFromOutput(id, info, modeTable(c.resources.Modes, c.resources.Names)), nil
}

// modeTable indexes the screen's modes by id. Mode names are packed back to
// back in names, in the same order as modes.
func modeTable(modes []randr.ModeInfo, names []byte) map[uint32]drm.ModeInfo {
	table := make(map[uint32]drm.ModeInfo, len(modes))
	offset := 0
	for _, m := range modes {
		name := ""
		end := offset + int(m.NameLen)
		if end <= len(names) {
			name = string(names[offset:end])
		}
		offset = end
		table[m.Id] = modeFromRandR(m, name)
	}
	return table
}

func modeFromRandR(m randr.ModeInfo, name string) drm.ModeInfo {
	// RandR mode flags share bit positions with DRM_MODE_FLAG_*.
	refresh := drm.RefreshFromDotClock(m.DotClock, m.Htotal, m.Vtotal, m.ModeFlags)
	return drm.ModeInfo{
		Clock:      m.DotClock / 1000,
		HDisplay:   m.Width,
		HSyncStart: m.HsyncStart,
		HSyncEnd:   m.HsyncEnd,
		HTotal:     m.Htotal,
		HSkew:      m.Hskew,
		VDisplay:   m.Height,
		VSyncStart: m.VsyncStart,
		VSyncEnd:   m.VsyncEnd,
		VTotal:     m.Vtotal,
		VRefresh:   (refresh + 500) / 1000,
		Flags:      m.ModeFlags,
		Type:       drm.ModeTypeDriver,
		Name:       name,
	}
}

func connectorFromOutput(id uint32, info *randr.GetOutputInfoReply, modes map[uint32]drm.ModeInfo) drm.ConnectorInfo {
	name := string(info.Name)
	typ, typeID := parseOutputName(name)

	out := drm.ConnectorInfo{
		ID:         id,
		Name:       name,
		Type:       typ,
		TypeID:     typeID,
		Connection: connectionState(info.Connection),
		MmWidth:    info.MmWidth,
		MmHeight:   info.MmHeight,
		Subpixel:   uint32(info.SubpixelOrder),
	}

	for i, modeID := range info.Modes {
		mode, ok := modes[uint32(modeID)]
		if !ok {
			continue
		}
		if i < int(info.NumPreferred) {
			mode.Type |= drm.ModeTypePreferred
		}
		out.Modes = append(out.Modes, mode)
	}
	return out
}

func connectionState(c byte) drm.ConnectionState {
	switch c {
	case randr.ConnectionConnected:
		return drm.Connected
	case randr.ConnectionDisconnected:
		return drm.Disconnected
	default:
		return drm.UnknownConnection
	}
}

var outputNamePrefixes = []struct {
	prefix string
	typ    drm.ConnectorType
}{
	// Longer prefixes first so "eDP" wins over "DP" and "HDMI-A" over "HDMI".
	{"DisplayPort", drm.ConnectorDisplayPort},
	{"HDMI-A", drm.ConnectorHDMIA},
	{"HDMI-B", drm.ConnectorHDMIB},
	{"HDMI", drm.ConnectorHDMIA},
	{"DVI-I", drm.ConnectorDVII},
	{"DVI-D", drm.ConnectorDVID},
	{"DVI-A", drm.ConnectorDVIA},
	{"DVI", drm.ConnectorDVII},
	{"eDP", drm.ConnectorEDP},
	{"DP", drm.ConnectorDisplayPort},
	{"VGA", drm.ConnectorVGA},
	{"LVDS", drm.ConnectorLVDS},
	{"DSI", drm.ConnectorDSI},
	{"Virtual", drm.ConnectorVirtual},
	{"VIRTUAL", drm.ConnectorVirtual},
}

// parseOutputName maps an X output name such as "HDMI-1" or "eDP1" to a
// connector type and index.
func parseOutputName(name string) (drm.ConnectorType, uint32) {
	typ := drm.ConnectorUnknown
	rest := name
	for _, p := range outputNamePrefixes {
		if strings.HasPrefix(name, p.prefix) {
			typ = p.typ
			rest = name[len(p.prefix):]
			break
		}
	}

	rest = strings.TrimLeft(rest, "-")
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return typ, 0
	}
	return typ, uint32(n)
}
