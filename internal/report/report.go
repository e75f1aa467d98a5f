// Package report renders monitor data as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes reports in one format.
type Printer struct {
	w      io.Writer
	format Format
	styles styles
}

// NewPrinter creates a printer. Colour is only used for text output.
func NewPrinter(w io.Writer, format Format, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, format: format, styles: newStyles(r)}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// encode writes v as JSON or YAML. It returns false for text output.
func (p *Printer) encode(v any) (bool, error) {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

type styles struct {
	header    lipgloss.Style
	label     lipgloss.Style
	dim       lipgloss.Style
	preferred lipgloss.Style
	added     lipgloss.Style
	removed   lipgloss.Style
	changed   lipgloss.Style
	r         *lipgloss.Renderer
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		label:     r.NewStyle().Foreground(lipgloss.Color("248")).Width(14),
		dim:       r.NewStyle().Foreground(lipgloss.Color("241")),
		preferred: r.NewStyle().Foreground(lipgloss.Color("42")),
		added:     r.NewStyle().Foreground(lipgloss.Color("42")),
		removed:   r.NewStyle().Foreground(lipgloss.Color("196")),
		changed:   r.NewStyle().Foreground(lipgloss.Color("226")),
		r:         r,
	}
}

// column pads s to width cells.
func (s styles) column(width int, text string) string {
	return s.r.NewStyle().Width(width).Render(text)
}
