package drm

import "testing"

func TestModeInfo_RefreshMillihertz(t *testing.T) {
	tests := []struct {
		name string
		mode ModeInfo
		want uint32
	}{
		{
			name: "1080p60",
			mode: ModeInfo{Clock: 148500, HTotal: 2200, VTotal: 1125},
			want: 60000,
		},
		{
			name: "1080i60 counts fields",
			mode: ModeInfo{Clock: 74250, HTotal: 2200, VTotal: 1125, Flags: ModeFlagInterlace},
			want: 60000,
		},
		{
			name: "double scan halves",
			mode: ModeInfo{Clock: 148500, HTotal: 2200, VTotal: 1125, Flags: ModeFlagDblScan},
			want: 30000,
		},
		{
			name: "vscan divides",
			mode: ModeInfo{Clock: 148500, HTotal: 2200, VTotal: 1125, VScan: 2},
			want: 30000,
		},
		{
			name: "NTSC-style 59.94",
			mode: ModeInfo{Clock: 148352, HTotal: 2200, VTotal: 1125},
			want: 59940,
		},
		{
			name: "missing totals",
			mode: ModeInfo{Clock: 148500},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.RefreshMillihertz(); got != tt.want {
				t.Fatalf("RefreshMillihertz() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRefreshFromDotClock(t *testing.T) {
	if got := RefreshFromDotClock(148500000, 2200, 1125, 0); got != 60000 {
		t.Fatalf("RefreshFromDotClock = %d, want 60000", got)
	}
}

func TestModeInfo_Flags(t *testing.T) {
	m := ModeInfo{Type: ModeTypeDriver}
	if m.Preferred() {
		t.Fatal("driver-only mode should not be preferred")
	}
	m.Type |= ModeTypePreferred
	if !m.Preferred() {
		t.Fatal("expected preferred")
	}
	if m.Interlaced() {
		t.Fatal("expected progressive")
	}
}
