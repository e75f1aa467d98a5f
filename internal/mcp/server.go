package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
)

const (
	ServerName    = "kmsdisplay"
	ServerVersion = "0.1.0"
)

// BackendOpener opens a fresh backend. The server opens one per tool call and
// closes it before returning, so the device is not held between calls. The
// returned backend must list monitors in the given order.
type BackendOpener func(order config.SortOrder) (platform.Backend, error)

// Server is the MCP server exposing monitor enumeration as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	open      BackendOpener
	sort      config.SortOrder
	deviceDir string
	logger    *slog.Logger
}

// NewServer creates a server that reads monitors through open.
func NewServer(cfg *config.Config, open BackendOpener, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		open:      open,
		sort:      cfg.Sort,
		deviceDir: devnode.Dir,
		logger:    logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors. Each entry has the connector id, connector name, current size, physical size in millimetres and the full mode list. Disconnected outputs are omitted.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_video_modes",
		Description: "List every video mode of one connected monitor in the order the device reports them, including refresh rate in Hz and millihertz and the preferred flag.",
	}, s.handleListVideoModes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "device_info",
		Description: "Describe the display device: backend, path and, for DRM cards, the kernel driver version, capability values and mode-setting resource counts.",
	}, s.handleDeviceInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_devices",
		Description: "List the DRM card nodes present under /dev/dri in card index order.",
	}, s.handleListDevices)
}
