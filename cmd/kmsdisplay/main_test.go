package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
)

func TestFindDisplay(t *testing.T) {
	displays := []platform.Display{
		{ID: 41, Connector: "eDP-1"},
		{ID: 77, Connector: "HDMI-A-1"},
	}

	tests := []struct {
		ref    string
		wantID uint32
		found  bool
	}{
		{"77", 77, true},
		{" 41 ", 41, true},
		{"hdmi-a-1", 77, true},
		{"eDP-1", 41, true},
		{"12", 0, false},
		{"DP-3", 0, false},
	}
	for _, tt := range tests {
		d, ok := findDisplay(displays, tt.ref)
		if ok != tt.found {
			t.Fatalf("findDisplay(%q) found=%v, want %v", tt.ref, ok, tt.found)
		}
		if ok && d.ID != tt.wantID {
			t.Fatalf("findDisplay(%q) = %d, want %d", tt.ref, d.ID, tt.wantID)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml", Line: 3, Column: 1}, "file:/tmp/c.yaml:3:1"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml"}, "file:/tmp/c.yaml"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func parseCommon(t *testing.T, args ...string) *commonFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return common
}

func TestCommonFlags_LoadOverridesConfig(t *testing.T) {
	t.Setenv(devnode.EnvDevice, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "device: /dev/dri/card1\nsort: kernel\noutput: yaml\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := parseCommon(t, "--config", path, "--sort", "ID", "--output", "json").load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Device != "/dev/dri/card1" {
		t.Fatalf("expected device from config, got %q", cfg.Device)
	}
	if cfg.Sort != config.SortID || cfg.Output != "json" {
		t.Fatalf("expected flag overrides, got sort=%q output=%q", cfg.Sort, cfg.Output)
	}
}

func TestCommonFlags_DevicePriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device: /dev/dri/card1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv(devnode.EnvDevice, "/dev/dri/card2")
	cfg, err := parseCommon(t, "--config", path).load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Device != "/dev/dri/card2" {
		t.Fatalf("expected env device, got %q", cfg.Device)
	}

	common := parseCommon(t, "--config", path, "--device", "/dev/dri/card3")
	cfg, err = common.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Device != "/dev/dri/card3" {
		t.Fatalf("expected flag device, got %q", cfg.Device)
	}
	if common.deviceOrigin != devnode.OriginFlag {
		t.Fatalf("expected flag origin, got %q", common.deviceOrigin)
	}
}

func TestCommonFlags_DeviceOriginFromConfig(t *testing.T) {
	t.Setenv(devnode.EnvDevice, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device: /dev/dri/card1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	common := parseCommon(t, "--config", path)
	if _, err := common.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if common.deviceOrigin != devnode.OriginConfig {
		t.Fatalf("expected config origin, got %q", common.deviceOrigin)
	}

	t.Setenv(devnode.EnvDevice, "/dev/dri/card2")
	if _, err := common.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if common.deviceOrigin != devnode.OriginEnv {
		t.Fatalf("expected env origin, got %q", common.deviceOrigin)
	}
}

func TestDevicesFlags_RejectBackendSelection(t *testing.T) {
	for _, args := range [][]string{{"--device", "/dev/dri/card1"}, {"--backend", "x11"}, {"--sort", "id"}} {
		fs, _, _ := newDevicesFlags()
		fs.SetOutput(io.Discard)
		if err := fs.Parse(args); err == nil {
			t.Fatalf("expected devices to reject %v", args)
		}
	}

	fs, common, dir := newDevicesFlags()
	fs.SetOutput(io.Discard)
	if err := fs.Parse([]string{"--output", "json", "--dir", "/tmp/dri"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if common.output != "json" || *dir != "/tmp/dri" {
		t.Fatalf("unexpected flags: output=%q dir=%q", common.output, *dir)
	}
}

func TestCommonFlags_InvalidOverrideFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := parseCommon(t, "--config", path, "--backend", "wayland").load()
	if err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestParseFlags_HelpIsZero(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if code, ok := parseFlags(fs, []string{"-h"}); ok || code != 0 {
		t.Fatalf("expected help to return 0, got code=%d ok=%v", code, ok)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if code, ok := parseFlags(fs, []string{"--bogus"}); ok || code != 2 {
		t.Fatalf("expected bad flag to return 2, got code=%d ok=%v", code, ok)
	}
}
