package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/kmsdisplay/internal/platform"
	"github.com/1broseidon/kmsdisplay/internal/report"
)

// monitorItem is a list item for one connected display.
type monitorItem struct {
	display platform.Display
}

func (i monitorItem) Title() string {
	return fmt.Sprintf("%s (id %d)", i.display.Connector, i.display.ID)
}

func (i monitorItem) Description() string {
	refresh := "-"
	if len(i.display.Modes) > 0 {
		refresh = report.FormatRefresh(i.display.Modes[0].RefreshMillihertz)
	}
	return fmt.Sprintf("%s @ %s · %d modes",
		report.FormatBounds(i.display.Bounds), refresh, len(i.display.Modes))
}

func (i monitorItem) FilterValue() string { return i.display.Connector }

func buildMonitorItems(displays []platform.Display) []list.Item {
	items := make([]list.Item, 0, len(displays))
	for _, d := range displays {
		items = append(items, monitorItem{display: d})
	}
	return items
}

func newMonitorList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Monitors"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// renderModes lists the modes of d, marking the preferred one.
func renderModes(d platform.Display) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	preferredStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %d×%d mm", d.Connector, d.WidthMM, d.HeightMM)))
	b.WriteString("\n\n")

	if len(d.Modes) == 0 {
		b.WriteString(dimStyle.Render("no modes reported"))
		return b.String()
	}

	for _, m := range d.Modes {
		mark := " "
		if m.Preferred {
			mark = preferredStyle.Render("●")
		}
		line := fmt.Sprintf("%s %-12s %9s  %d-bit", mark,
			fmt.Sprintf("%dx%d", m.Width, m.Height),
			report.FormatRefresh(m.RefreshMillihertz),
			m.BitDepth)
		if m.Interlaced {
			line += dimStyle.Render("  interlaced")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDevice shows the backend description.
func renderDevice(info platform.Info) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		row("Backend", info.Backend),
		row("Path", displayOrDefault(info.Path, "(default)")),
	}
	if v := info.Driver; v != nil {
		lines = append(lines,
			row("Driver", fmt.Sprintf("%s %d.%d.%d", v.Name, v.Major, v.Minor, v.Patch)),
			row("Description", v.Description),
		)
	}
	if r := info.Resources; r != nil {
		lines = append(lines,
			row("CRTCs", fmt.Sprint(len(r.CRTCs))),
			row("Connectors", fmt.Sprint(len(r.Connectors))),
			row("Max FB", fmt.Sprintf("%dx%d", r.MaxWidth, r.MaxHeight)),
		)
	}
	if info.WindowManager != "" {
		lines = append(lines, row("WM", info.WindowManager))
	}
	return strings.Join(lines, "\n")
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
