package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/kmsdisplay/internal/config"
	"github.com/1broseidon/kmsdisplay/internal/drm"
	"github.com/1broseidon/kmsdisplay/internal/monitor"
	"github.com/1broseidon/kmsdisplay/internal/monitor/monitortest"
)

func testDevice() *monitortest.Device {
	return &monitortest.Device{
		Connectors: []drm.ConnectorInfo{
			monitortest.Connected(5, monitortest.Mode(1920, 1080, 60), monitortest.Mode(1280, 720, 60)),
			monitortest.Disconnected(3),
			monitortest.Connected(2, monitortest.Mode(2560, 1440, 144)),
		},
	}
}

func TestDeviceBackend_KernelOrder(t *testing.T) {
	b := NewDeviceBackend("test", "mem", testDevice(), Options{Sort: config.SortKernel})

	displays, err := b.Displays()
	if err != nil {
		t.Fatalf("Displays() error: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}
	if displays[0].ID != 5 || displays[1].ID != 2 {
		t.Fatalf("expected kernel order 5,2; got %d,%d", displays[0].ID, displays[1].ID)
	}
}

func TestDeviceBackend_SortByID(t *testing.T) {
	b := NewDeviceBackend("test", "mem", testDevice(), Options{Sort: config.SortID})

	monitors, err := b.Monitors()
	if err != nil {
		t.Fatalf("Monitors() error: %v", err)
	}
	if monitors[0].NativeIdentifier() != 2 || monitors[1].NativeIdentifier() != 5 {
		t.Fatalf("expected id order 2,5; got %d,%d",
			monitors[0].NativeIdentifier(), monitors[1].NativeIdentifier())
	}
}

func TestDeviceBackend_ErrorsPropagate(t *testing.T) {
	errList := errors.New("gone")
	b := NewDeviceBackend("test", "mem", &monitortest.Device{ListErr: errList}, Options{})

	if _, err := b.Displays(); !errors.Is(err, errList) {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestDeviceBackend_CloseOnce(t *testing.T) {
	dev := testDevice()
	b := NewDeviceBackend("test", "mem", dev, Options{})

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if dev.Closes != 1 {
		t.Fatalf("expected device closed once, got %d", dev.Closes)
	}
	if _, err := b.Monitors(); err == nil {
		t.Fatal("expected error after Close")
	}
}

func TestDeviceBackend_DefaultInfo(t *testing.T) {
	b := NewDeviceBackend("test", "mem", testDevice(), Options{})
	info, err := b.Info()
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if info.Backend != "test" || info.Path != "mem" || info.Driver != nil {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestDisplayFromMonitor(t *testing.T) {
	monitors, err := monitor.Enumerate(testDevice())
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}

	d := DisplayFromMonitor(monitors[0])
	if d.Name != "card0" || d.Connector != "HDMI-A-5" {
		t.Fatalf("unexpected names: %q %q", d.Name, d.Connector)
	}
	if d.Bounds == nil || *d.Bounds != (Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("unexpected bounds: %+v", d.Bounds)
	}
	if d.ScaleFactor != 1 || d.WidthMM != 600 || d.HeightMM != 340 {
		t.Fatalf("unexpected scale/physical size: %+v", d)
	}
	if len(d.Modes) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(d.Modes))
	}
	if !d.Modes[0].Preferred || d.Modes[1].Preferred {
		t.Fatal("expected only the first mode preferred")
	}
	if d.Modes[0].RefreshMillihertz != 60000 || d.Modes[0].BitDepth != 32 {
		t.Fatalf("unexpected mode: %+v", d.Modes[0])
	}
}

func TestDisplayFromMonitor_NoModesHasNoBounds(t *testing.T) {
	dev := &monitortest.Device{Connectors: []drm.ConnectorInfo{monitortest.Connected(9)}}
	monitors, err := monitor.Enumerate(dev)
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}

	d := DisplayFromMonitor(monitors[0])
	if d.Bounds != nil {
		t.Fatalf("expected nil bounds, got %+v", d.Bounds)
	}
	if len(d.Modes) != 0 {
		t.Fatalf("expected no modes, got %d", len(d.Modes))
	}
}
