package monitor

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/kmsdisplay/internal/drm"
)

// ControlDevice answers the control-plane queries enumeration needs.
// *drm.Card implements it.
type ControlDevice interface {
	ConnectorIDs() ([]uint32, error)
	Connector(id uint32) (drm.ConnectorInfo, error)
}

// Enumerator lists connected monitors, logging what it skips.
type Enumerator struct {
	logger *slog.Logger
}

// NewEnumerator creates an Enumerator. A nil logger discards output.
func NewEnumerator(logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enumerator{logger: logger}
}

// Enumerate lists the connected outputs of dev in kernel order.
func Enumerate(dev ControlDevice) ([]MonitorHandle, error) {
	return NewEnumerator(nil).Monitors(dev)
}

// Monitors queries every connector and returns the connected ones in the
// order the device reported them. Any query failure aborts the whole call.
func (e *Enumerator) Monitors(dev ControlDevice) ([]MonitorHandle, error) {
	ids, err := dev.ConnectorIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}

	monitors := make([]MonitorHandle, 0, len(ids))
	for _, id := range ids {
		info, err := dev.Connector(id)
		if err != nil {
			return nil, fmt.Errorf("failed to query connector %d: %w", id, err)
		}

		if info.Connection != drm.Connected {
			e.logger.Debug("skipping connector",
				"connector_id", id,
				"name", info.Name,
				"connection", info.Connection.String())
			continue
		}

		e.logger.Debug("found monitor",
			"connector_id", id,
			"name", info.Name,
			"modes", len(info.Modes))
		monitors = append(monitors, newMonitorHandle(info))
	}

	return monitors, nil
}
