// Package tui is the interactive monitor browser.
package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/kmsdisplay/internal/devnode"
)

// ErrNotTerminal is returned when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")

func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	return nil
}

// Run starts the browser and blocks until the user quits.
func Run(load Loader) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	_, err := tea.NewProgram(newModel(load), tea.WithAltScreen()).Run()
	return err
}

// PickDevice asks the user to choose one of nodes. With a single node it
// returns that node without prompting.
func PickDevice(nodes []devnode.Node, current string) (string, error) {
	switch len(nodes) {
	case 0:
		return "", fmt.Errorf("no DRM card nodes found under %s", devnode.Dir)
	case 1:
		return nodes[0].Path, nil
	}
	if err := requireTerminal(); err != nil {
		return "", err
	}

	choice := defaultChoice(nodes, current)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("DRM device").
				Description("Card node to read monitors from").
				Options(huh.NewOptions(devicePaths(nodes)...)...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func devicePaths(nodes []devnode.Node) []string {
	paths := make([]string, 0, len(nodes))
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	return paths
}

// defaultChoice preselects current when it is one of nodes.
func defaultChoice(nodes []devnode.Node, current string) string {
	for _, n := range nodes {
		if n.Path == current {
			return current
		}
	}
	return nodes[0].Path
}
