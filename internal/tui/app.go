package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/kmsdisplay/internal/platform"
)

// Snapshot is what the browser shows: one enumeration plus device details.
type Snapshot struct {
	Info     platform.Info
	Displays []platform.Display
}

// Loader takes a fresh Snapshot.
type Loader func() (Snapshot, error)

type snapshotMsg struct {
	snap Snapshot
	err  error
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		snap, err := load()
		return snapshotMsg{snap: snap, err: err}
	}
}

// model is the root bubbletea model for the browser.
type model struct {
	load     Loader
	snap     Snapshot
	loading  bool
	errText  string
	monitors list.Model

	activeTab Tab

	width  int
	height int
}

func newModel(load Loader) model {
	return model{
		load:     load,
		loading:  true,
		monitors: newMonitorList(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return loadCmd(m.load)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			// Keep showing the previous snapshot.
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.snap = msg.snap
		cmd := m.monitors.SetItems(buildMonitorItems(msg.snap.Displays))
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, loadCmd(m.load)
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabModes
			return m, nil
		case "2":
			m.activeTab = TabDevice
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.monitors.SetSize(m.leftWidth(), m.contentHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.monitors, cmd = m.monitors.Update(msg)
	return m, cmd
}

// selected returns the display under the cursor.
func (m model) selected() (platform.Display, bool) {
	item, ok := m.monitors.SelectedItem().(monitorItem)
	if !ok {
		return platform.Display{}, false
	}
	return item.display, true
}

// contentHeight returns the height available below the bars.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

func (m model) leftWidth() int {
	return max(m.width*2/5, 20)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.snap.Info.Backend, len(m.snap.Displays), m.loading, m.errText, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	leftWidth := m.leftWidth()
	rightWidth := max(m.width-leftWidth, 10)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Render(m.monitors.View())

	var body string
	switch m.activeTab {
	case TabDevice:
		body = renderDevice(m.snap.Info)
	default:
		if d, ok := m.selected(); ok {
			body = renderModes(d)
		} else {
			body = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("No connected monitors")
		}
	}
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(contentHeight).
		Padding(0, 2).
		Render(body)

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
