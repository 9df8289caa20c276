package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"regions/internal/region"
)

// colorEnabled is decided once per invocation by setupColor.
var colorEnabled bool

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on":
		colorEnabled = true
	case "off":
		colorEnabled = false
	case "auto":
		colorEnabled = isTerminal(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
	color.NoColor = !colorEnabled
	if colorEnabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// palette holds the dump styles; all plain when color is off.
type palette struct {
	kinds map[region.ScopeKind]lipgloss.Style
	guide lipgloss.Style
	note  lipgloss.Style
}

func newPalette(enabled bool) palette {
	plain := lipgloss.NewStyle()
	p := palette{
		kinds: make(map[region.ScopeKind]lipgloss.Style, 5),
		guide: plain,
		note:  plain,
	}
	for _, k := range []region.ScopeKind{region.KindNode, region.KindCallSite, region.KindArguments, region.KindDestruction, region.KindRemainder} {
		p.kinds[k] = plain
	}
	if !enabled {
		return p
	}
	p.kinds[region.KindCallSite] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	p.kinds[region.KindArguments] = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	p.kinds[region.KindDestruction] = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	p.kinds[region.KindRemainder] = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	p.kinds[region.KindNode] = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	p.guide = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	p.note = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	return p
}

func (p palette) scope(s region.Scope) string {
	return p.kinds[s.Kind].Render(s.String())
}
