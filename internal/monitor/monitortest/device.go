// Package monitortest provides an in-memory control device for tests.
package monitortest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/1broseidon/kmsdisplay/internal/drm"
)

// Device is a scripted monitor.ControlDevice. Fields may be set directly
// before use; once shared with another goroutine use Set.
type Device struct {
	mu sync.Mutex

	Connectors []drm.ConnectorInfo

	// ListErr is returned from ConnectorIDs when set.
	ListErr error
	// ConnectorErrs maps connector ids to errors returned from Connector.
	ConnectorErrs map[uint32]error

	// Queries counts Connector calls.
	Queries int
	// Closes counts Close calls.
	Closes int
}

// Set replaces the connector list.
func (d *Device) Set(connectors ...drm.ConnectorInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Connectors = connectors
}

// Close records the call.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closes++
	return nil
}

// ConnectorIDs returns the ids of Connectors in slice order.
func (d *Device) ConnectorIDs() ([]uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ListErr != nil {
		return nil, d.ListErr
	}
	ids := make([]uint32, 0, len(d.Connectors))
	for _, c := range d.Connectors {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// Connector returns a copy of the connector with the given id.
func (d *Device) Connector(id uint32) (drm.ConnectorInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Queries++
	if err := d.ConnectorErrs[id]; err != nil {
		return drm.ConnectorInfo{}, err
	}
	for _, c := range d.Connectors {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return drm.ConnectorInfo{}, fmt.Errorf("connector %d not found", id)
}

// Mode builds a progressive mode with CVT-like totals for the given size and
// refresh rate.
func Mode(width, height uint16, refresh uint32) drm.ModeInfo {
	htotal := width + width/8
	vtotal := height + height/24
	clock := uint32(uint64(htotal) * uint64(vtotal) * uint64(refresh) / 1000)
	return drm.ModeInfo{
		Clock:    clock,
		HDisplay: width,
		HTotal:   htotal,
		VDisplay: height,
		VTotal:   vtotal,
		VRefresh: refresh,
		Type:     drm.ModeTypeDriver,
		Name:     fmt.Sprintf("%dx%d", width, height),
	}
}

// Connected builds a connected HDMI connector. The first mode is flagged
// preferred.
func Connected(id uint32, modes ...drm.ModeInfo) drm.ConnectorInfo {
	modes = slices.Clone(modes)
	if len(modes) > 0 {
		modes[0].Type |= drm.ModeTypePreferred
	}
	return drm.ConnectorInfo{
		ID:         id,
		Name:       drm.ConnectorName(drm.ConnectorHDMIA, id),
		Type:       drm.ConnectorHDMIA,
		TypeID:     id,
		Connection: drm.Connected,
		MmWidth:    600,
		MmHeight:   340,
		Modes:      modes,
	}
}

// Disconnected builds a disconnected DisplayPort connector.
func Disconnected(id uint32) drm.ConnectorInfo {
	return drm.ConnectorInfo{
		ID:         id,
		Name:       drm.ConnectorName(drm.ConnectorDisplayPort, id),
		Type:       drm.ConnectorDisplayPort,
		TypeID:     id,
		Connection: drm.Disconnected,
	}
}
