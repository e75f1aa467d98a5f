package report

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/kmsdisplay/internal/devnode"
	"github.com/1broseidon/kmsdisplay/internal/platform"
	"github.com/1broseidon/kmsdisplay/internal/watch"
)

// Displays prints one row per display.
func (p *Printer) Displays(displays []platform.Display) error {
	if displays == nil {
		displays = []platform.Display{}
	}
	if ok, err := p.encode(displays); ok {
		return err
	}

	if len(displays) == 0 {
		_, err := fmt.Fprintln(p.w, "No connected monitors found")
		return err
	}

	rows := [][]string{{"ID", "CONNECTOR", "NAME", "SIZE", "REFRESH", "MODES", "PHYSICAL"}}
	for _, d := range displays {
		refresh := "-"
		if m, ok := firstMode(d); ok {
			refresh = FormatRefresh(m.RefreshMillihertz)
		}
		rows = append(rows, []string{
			fmt.Sprint(d.ID),
			d.Connector,
			d.Name,
			FormatBounds(d.Bounds),
			refresh,
			fmt.Sprint(len(d.Modes)),
			fmt.Sprintf("%dx%d mm", d.WidthMM, d.HeightMM),
		})
	}
	return p.table(rows)
}

// DisplayModes is the machine-readable form of one monitor's mode list.
type DisplayModes struct {
	ConnectorID uint32          `json:"connector_id" yaml:"connector_id"`
	Connector   string          `json:"connector" yaml:"connector"`
	Modes       []platform.Mode `json:"modes" yaml:"modes"`
}

// Modes prints the modes of each display in reported order. JSON and YAML
// output is a single list with one entry per display.
func (p *Printer) Modes(displays []platform.Display) error {
	out := make([]DisplayModes, 0, len(displays))
	for _, d := range displays {
		modes := d.Modes
		if modes == nil {
			modes = []platform.Mode{}
		}
		out = append(out, DisplayModes{ConnectorID: d.ID, Connector: d.Connector, Modes: modes})
	}
	if ok, err := p.encode(out); ok {
		return err
	}

	for i, d := range displays {
		if i > 0 {
			if _, err := fmt.Fprintln(p.w); err != nil {
				return err
			}
		}
		if err := p.modesText(d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) modesText(d platform.Display) error {
	modes := d.Modes
	title := fmt.Sprintf("%s (id %d)", d.Connector, d.ID)
	if _, err := fmt.Fprintln(p.w, p.styles.header.Render(title)); err != nil {
		return err
	}
	if len(modes) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.dim.Render("  no modes reported"))
		return err
	}

	rows := [][]string{{"MODE", "SIZE", "REFRESH", "DEPTH", ""}}
	for _, m := range modes {
		var flags []string
		if m.Preferred {
			flags = append(flags, p.styles.preferred.Render("preferred"))
		}
		if m.Interlaced {
			flags = append(flags, "interlaced")
		}
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%dx%d", m.Width, m.Height),
			FormatRefresh(m.RefreshMillihertz),
			fmt.Sprintf("%d-bit", m.BitDepth),
			strings.Join(flags, " "),
		})
	}
	return p.table(rows)
}

// Info prints device details.
func (p *Printer) Info(info platform.Info) error {
	if ok, err := p.encode(info); ok {
		return err
	}

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(p.styles.label.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	line("Backend", info.Backend)
	line("Path", orDash(info.Path))
	if info.Driver != nil {
		v := info.Driver
		line("Driver", fmt.Sprintf("%s %d.%d.%d (%s)", v.Name, v.Major, v.Minor, v.Patch, v.Date))
		line("Description", orDash(v.Description))
	}
	if info.Resources != nil {
		r := info.Resources
		line("CRTCs", fmt.Sprint(len(r.CRTCs)))
		line("Encoders", fmt.Sprint(len(r.Encoders)))
		line("Connectors", fmt.Sprint(len(r.Connectors)))
		line("Framebuffer", fmt.Sprintf("%dx%d .. %dx%d", r.MinWidth, r.MinHeight, r.MaxWidth, r.MaxHeight))
	}
	if info.WindowManager != "" {
		line("Window manager", info.WindowManager)
	}
	if info.Desktops > 0 {
		line("Desktops", fmt.Sprint(info.Desktops))
	}
	if len(info.Capabilities) > 0 {
		b.WriteString(p.styles.header.Render("Capabilities"))
		b.WriteByte('\n')
		for _, name := range sortedKeys(info.Capabilities) {
			line("  "+name, fmt.Sprint(info.Capabilities[name]))
		}
	}

	_, err := fmt.Fprint(p.w, b.String())
	return err
}

// Devices prints the card nodes found on disk.
func (p *Printer) Devices(nodes []devnode.Node) error {
	if nodes == nil {
		nodes = []devnode.Node{}
	}
	if ok, err := p.encode(nodes); ok {
		return err
	}
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(p.w, "No DRM card nodes found")
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintln(p.w, n.Path); err != nil {
			return err
		}
	}
	return nil
}

type changeEvent struct {
	Time   time.Time    `json:"time" yaml:"time"`
	Change watch.Change `json:"change" yaml:"change"`
}

// Change prints one hotplug event. JSON output is one object per line.
func (p *Printer) Change(at time.Time, change watch.Change) error {
	switch p.format {
	case FormatJSON:
		// Streamed events are easier to consume unindented.
		data, err := json.Marshal(changeEvent{Time: at, Change: change})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(data))
		return err
	case FormatYAML:
		if _, err := fmt.Fprintln(p.w, "---"); err != nil {
			return err
		}
		_, err := p.encode(changeEvent{Time: at, Change: change})
		return err
	}

	stamp := p.styles.dim.Render(at.Format(time.TimeOnly))
	write := func(style func(...string) string, mark string, d platform.Display) error {
		_, err := fmt.Fprintf(p.w, "%s %s %s (id %d) %s\n",
			stamp, style(mark), d.Connector, d.ID, FormatBounds(d.Bounds))
		return err
	}
	for _, d := range change.Added {
		if err := write(p.styles.added.Render, "+", d); err != nil {
			return err
		}
	}
	for _, d := range change.Removed {
		if err := write(p.styles.removed.Render, "-", d); err != nil {
			return err
		}
	}
	for _, d := range change.Changed {
		if err := write(p.styles.changed.Render, "~", d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) table(rows [][]string) error {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				line.WriteString(cell)
				continue
			}
			line.WriteString(p.styles.column(widths[i]+2, cell))
		}
		text := strings.TrimRight(line.String(), " ")
		if r == 0 {
			text = p.styles.header.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	_, err := fmt.Fprint(p.w, b.String())
	return err
}

func firstMode(d platform.Display) (platform.Mode, bool) {
	if len(d.Modes) == 0 {
		return platform.Mode{}, false
	}
	return d.Modes[0], true
}

// FormatBounds renders r as WIDTHxHEIGHT, or "-" when nil.
func FormatBounds(r *platform.Rect) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// FormatRefresh renders a millihertz rate as e.g. "59.94 Hz".
func FormatRefresh(mhz uint32) string {
	if mhz == 0 {
		return "-"
	}
	centi := (mhz + 5) / 10
	return fmt.Sprintf("%d.%02d Hz", centi/100, centi%100)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
