package drm

import "testing"

func TestConnectorName(t *testing.T) {
	tests := []struct {
		typ    ConnectorType
		typeID uint32
		want   string
	}{
		{ConnectorHDMIA, 1, "HDMI-A-1"},
		{ConnectorDisplayPort, 2, "DP-2"},
		{ConnectorEDP, 1, "eDP-1"},
		{ConnectorVirtual, 3, "Virtual-3"},
		{ConnectorType(99), 1, "Unknown-1"},
	}
	for _, tt := range tests {
		if got := ConnectorName(tt.typ, tt.typeID); got != tt.want {
			t.Errorf("ConnectorName(%d, %d) = %q, want %q", tt.typ, tt.typeID, got, tt.want)
		}
	}
}

func TestConnectionStateString(t *testing.T) {
	if Connected.String() != "connected" {
		t.Fatalf("Connected = %q", Connected.String())
	}
	if Disconnected.String() != "disconnected" {
		t.Fatalf("Disconnected = %q", Disconnected.String())
	}
	if got := ConnectionState(7).String(); got != "ConnectionState(7)" {
		t.Fatalf("unknown state = %q", got)
	}
}

func TestConnectorInfo_CloneIsIndependent(t *testing.T) {
	orig := ConnectorInfo{
		ID:         3,
		Connection: Connected,
		Modes:      []ModeInfo{{HDisplay: 1280, VDisplay: 720, VRefresh: 60}},
	}
	clone := orig.Clone()
	if !clone.Equal(orig) {
		t.Fatal("clone should equal original")
	}

	clone.Modes[0].HDisplay = 640
	if orig.Modes[0].HDisplay != 1280 {
		t.Fatal("mutating the clone changed the original")
	}
	if clone.Equal(orig) {
		t.Fatal("expected modified clone to differ")
	}
}

func TestConnectorInfo_EqualComparesAllFields(t *testing.T) {
	a := ConnectorInfo{ID: 1, Name: "DP-1", MmWidth: 300}
	b := a
	b.MmWidth = 310
	if a.Equal(b) {
		t.Fatal("expected different physical size to break equality")
	}
	b = a
	b.Modes = []ModeInfo{{HDisplay: 800}}
	if a.Equal(b) {
		t.Fatal("expected different mode list to break equality")
	}
}
