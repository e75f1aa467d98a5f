package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
)

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, args ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	order := s.sort
	if v := strings.TrimSpace(args.Sort); v != "" {
		order = config.SortOrder(strings.ToLower(v))
		if order != config.SortKernel && order != config.SortID {
			return nil, ListMonitorsOutput{}, fmt.Errorf("sort must be kernel or id, got %q", args.Sort)
		}
	}

	var out ListMonitorsOutput
	err := s.withBackend("list_monitors", order, func(b platform.Backend) error {
		displays, err := b.Displays()
		if err != nil {
			return err
		}
		out = ListMonitorsOutput{Backend: b.Name(), Monitors: displays}
		return nil
	})
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleListVideoModes(_ context.Context, _ *mcpsdk.CallToolRequest, args ListVideoModesInput) (*mcpsdk.CallToolResult, ListVideoModesOutput, error) {
	var out ListVideoModesOutput
	err := s.withBackend("list_video_modes", s.sort, func(b platform.Backend) error {
		monitors, err := b.Monitors()
		if err != nil {
			return err
		}
		for _, m := range monitors {
			if m.NativeIdentifier() != args.ConnectorID {
				continue
			}
			out = ListVideoModesOutput{
				ConnectorID: m.NativeIdentifier(),
				Connector:   m.ConnectorName(),
				Modes:       platform.ModesOf(m),
			}
			return nil
		}
		return fmt.Errorf("no connected monitor with connector id %d", args.ConnectorID)
	})
	if err != nil {
		return nil, ListVideoModesOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleDeviceInfo(_ context.Context, _ *mcpsdk.CallToolRequest, _ DeviceInfoInput) (*mcpsdk.CallToolResult, platform.Info, error) {
	var out platform.Info
	err := s.withBackend("device_info", s.sort, func(b platform.Backend) error {
		info, err := b.Info()
		if err != nil {
			return err
		}
		out = info
		return nil
	})
	if err != nil {
		return nil, platform.Info{}, err
	}
	return nil, out, nil
}

func (s *Server) handleListDevices(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDevicesInput) (*mcpsdk.CallToolResult, ListDevicesOutput, error) {
	nodes, err := devnode.Cards(s.deviceDir)
	if err != nil {
		return nil, ListDevicesOutput{}, err
	}
	if nodes == nil {
		nodes = []devnode.Node{}
	}
	return nil, ListDevicesOutput{Devices: nodes}, nil
}

// withBackend opens a backend, runs fn and closes it again.
func (s *Server) withBackend(tool string, order config.SortOrder, fn func(platform.Backend) error) error {
	b, err := s.open(order)
	if err != nil {
		s.logger.Warn("failed to open backend", "tool", tool, "error", err)
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			s.logger.Warn("failed to close backend", "tool", tool, "error", err)
		}
	}()

	if err := fn(b); err != nil {
		s.logger.Warn("tool failed", "tool", tool, "error", err)
		return err
	}
	s.logger.Debug("tool completed", "tool", tool, "backend", b.Name())
	return nil
}
