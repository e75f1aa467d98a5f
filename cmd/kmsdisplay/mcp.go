package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/mcp"
	"github.com/1broseidon/kmsdisplay/internal/platform"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kmsdisplay mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'kmsdisplay mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs, common := newCommandFlags("serve", "mcp serve [options]")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: kmsdisplay mcp serve [options]")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Start the MCP server on stdio. The card node is opened for each tool")
		fmt.Fprintln(out, "call and closed again before the call returns.")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := common.load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// stdout carries the protocol, so logs stay on stderr.
	logger := newLogger(cfg.LogLevel)

	opts := platform.OptionsFromConfig(cfg, logger)
	server := mcp.NewServer(cfg, func(order config.SortOrder) (platform.Backend, error) {
		o := opts
		o.Sort = order
		return platform.New(o)
	}, logger)

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("mcp server starting", "backend", string(cfg.Backend), "device", cfg.Device, "device_from", string(common.deviceOrigin))
	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return 0
}
