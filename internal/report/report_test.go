package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/drm"
	"github.com/1broseidon/kmsdisplay/internal/platform"
	"github.com/1broseidon/kmsdisplay/internal/watch"
)

func sampleDisplays() []platform.Display {
	return []platform.Display{
		{
			ID:          5,
			Name:        "card0",
			Connector:   "HDMI-A-1",
			Bounds:      &platform.Rect{Width: 1920, Height: 1080},
			ScaleFactor: 1,
			WidthMM:     600,
			HeightMM:    340,
			Modes: []platform.Mode{
				{Name: "1920x1080", Width: 1920, Height: 1080, RefreshRate: 60, RefreshMillihertz: 60000, BitDepth: 32, Preferred: true},
				{Name: "1920x1080i", Width: 1920, Height: 1080, RefreshRate: 60, RefreshMillihertz: 59940, BitDepth: 32, Interlaced: true},
			},
		},
		{ID: 9, Name: "card0", Connector: "DP-2", ScaleFactor: 1},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestColorEnabled_NonTerminal(t *testing.T) {
	if ColorEnabled(&bytes.Buffer{}) {
		t.Fatal("expected no colour for a buffer")
	}
}

func TestFormatRefresh(t *testing.T) {
	tests := map[uint32]string{
		60000: "60.00 Hz",
		59940: "59.94 Hz",
		59995: "60.00 Hz",
		0:     "-",
	}
	for in, want := range tests {
		if got := FormatRefresh(in); got != want {
			t.Errorf("FormatRefresh(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplays_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Displays(sampleDisplays()); err != nil {
		t.Fatalf("Displays() error: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "CONNECTOR") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "HDMI-A-1") || !strings.Contains(lines[1], "1920x1080") || !strings.Contains(lines[1], "60.00 Hz") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "DP-2") || !strings.Contains(lines[2], " - ") {
		t.Fatalf("expected dash for a display without modes: %q", lines[2])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape codes without colour:\n%q", out)
	}
}

func TestDisplays_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Displays(nil); err != nil {
		t.Fatalf("Displays() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No connected monitors") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestDisplays_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON, false).Displays(sampleDisplays()); err != nil {
		t.Fatalf("Displays() error: %v", err)
	}
	var got []platform.Display
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0].Bounds == nil || got[1].Bounds != nil {
		t.Fatalf("unexpected decoded displays: %+v", got)
	}
	if !strings.Contains(buf.String(), `"refresh_millihertz": 59940`) {
		t.Fatalf("expected snake_case keys:\n%s", buf.String())
	}
}

func TestDisplays_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON, false).Displays(nil); err != nil {
		t.Fatalf("Displays() error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected [], got %q", buf.String())
	}
}

func TestModes_TextAndYAML(t *testing.T) {
	displays := sampleDisplays()

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Modes(displays[:1]); err != nil {
		t.Fatalf("Modes() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "HDMI-A-1 (id 5)") || !strings.Contains(out, "preferred") || !strings.Contains(out, "interlaced") {
		t.Fatalf("unexpected text output:\n%s", out)
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatYAML, false).Modes(displays[:1]); err != nil {
		t.Fatalf("Modes() error: %v", err)
	}
	var got []DisplayModes
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one display entry, got %+v", got)
	}
	modes := got[0].Modes
	if len(modes) != 2 || !modes[0].Preferred || modes[1].RefreshMillihertz != 59940 {
		t.Fatalf("unexpected yaml modes: %+v", modes)
	}
}

func TestModes_SeveralDisplaysKeepOwner(t *testing.T) {
	displays := sampleDisplays()

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatYAML, false).Modes(displays); err != nil {
		t.Fatalf("Modes() error: %v", err)
	}
	dec := yaml.NewDecoder(&buf)
	var got []DisplayModes
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		t.Fatalf("expected a single yaml document, found another: %v", extra)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 display entries, got %+v", got)
	}
	if got[0].ConnectorID != 5 || got[0].Connector != "HDMI-A-1" || len(got[0].Modes) != 2 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].ConnectorID != 9 || got[1].Connector != "DP-2" || len(got[1].Modes) != 0 {
		t.Fatalf("expected second entry with an empty mode list, got %+v", got[1])
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatJSON, false).Modes(displays); err != nil {
		t.Fatalf("Modes() error: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("expected one json array, got %v:\n%s", err, buf.String())
	}
	if len(entries) != 2 || entries[1]["connector"] != "DP-2" {
		t.Fatalf("unexpected json entries: %v", entries)
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatText, false).Modes(displays); err != nil {
		t.Fatalf("Modes() error: %v", err)
	}
	text := buf.String()
	if !strings.Contains(text, "HDMI-A-1 (id 5)") || !strings.Contains(text, "DP-2 (id 9)") || !strings.Contains(text, "no modes reported") {
		t.Fatalf("unexpected text output:\n%s", text)
	}
}

func TestInfo_Text(t *testing.T) {
	info := platform.Info{
		Backend:      "drm",
		Path:         "/dev/dri/card0",
		Driver:       &drm.Version{Major: 1, Minor: 2, Patch: 3, Name: "i915", Date: "20230929", Description: "Intel Graphics"},
		Resources:    &drm.Resources{CRTCs: []uint32{1, 2}, Connectors: []uint32{3}, MaxWidth: 16384, MaxHeight: 16384},
		Capabilities: map[string]uint64{"prime": 3, "dumb_buffer": 1},
	}
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Info(info); err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"i915 1.2.3", "Intel Graphics", "CRTCs", "16384x16384", "prime"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "dumb_buffer") > strings.Index(out, "prime") {
		t.Fatalf("expected capabilities sorted by name:\n%s", out)
	}
}

func TestInfo_TextX11(t *testing.T) {
	info := platform.Info{Backend: "x11", Path: ":0", WindowManager: "i3", Desktops: 4}
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Info(info); err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"x11", "i3", "Desktops"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Capabilities") {
		t.Fatalf("expected no capabilities section for x11:\n%s", out)
	}
}

func TestDevices(t *testing.T) {
	var buf bytes.Buffer
	nodes := []devnode.Node{{Path: "/dev/dri/card0"}, {Path: "/dev/dri/card1", Index: 1}}
	if err := NewPrinter(&buf, FormatText, false).Devices(nodes); err != nil {
		t.Fatalf("Devices() error: %v", err)
	}
	if buf.String() != "/dev/dri/card0\n/dev/dri/card1\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestChange_TextAndJSONLines(t *testing.T) {
	displays := sampleDisplays()
	change := watch.Change{Added: displays[:1], Removed: displays[1:]}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText, false).Change(at, change); err != nil {
		t.Fatalf("Change() error: %v", err)
	}
	want := "03:04:05 + HDMI-A-1 (id 5) 1920x1080\n03:04:05 - DP-2 (id 9) -\n"
	if buf.String() != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", buf.String(), want)
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatJSON, false).Change(at, change); err != nil {
		t.Fatalf("Change() error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single JSON line, got %q", buf.String())
	}
	var ev struct {
		Time   time.Time    `json:"time"`
		Change watch.Change `json:"change"`
	}
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ev.Time.Equal(at) || len(ev.Change.Added) != 1 || len(ev.Change.Removed) != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
