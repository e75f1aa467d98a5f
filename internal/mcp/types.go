package mcp

import (
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
)

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct {
	Sort string `json:"sort,omitempty" jsonschema:"Ordering of the result: kernel (as reported by the device) or id (ascending connector id). Defaults to the configured sort."`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Backend  string             `json:"backend"`
	Monitors []platform.Display `json:"monitors"`
}

// ListVideoModesInput is the input for the list_video_modes tool.
type ListVideoModesInput struct {
	ConnectorID uint32 `json:"connector_id" jsonschema:"Connector id of a connected monitor as returned by list_monitors"`
}

// ListVideoModesOutput is the output for the list_video_modes tool.
type ListVideoModesOutput struct {
	ConnectorID uint32          `json:"connector_id"`
	Connector   string          `json:"connector"`
	Modes       []platform.Mode `json:"modes"`
}

// DeviceInfoInput is the input for the device_info tool.
type DeviceInfoInput struct{}

// ListDevicesInput is the input for the list_devices tool.
type ListDevicesInput struct{}

// ListDevicesOutput is the output for the list_devices tool.
type ListDevicesOutput struct {
	Devices []devnode.Node `json:"devices"`
}
