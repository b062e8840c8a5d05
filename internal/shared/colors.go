// Package shared provides terminal styling shared by mesos-style components.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Veraticus/mesos-style/internal/config"
)

// Standard color definitions.
var (
	Red    = lipgloss.Color("#f38ba8")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Blue   = lipgloss.Color("#89dceb")
	Cyan   = lipgloss.Color("#94e2d5")
	Mauve  = lipgloss.Color("#cba6f7")
	Text   = lipgloss.Color("#cdd6f4")
)

// Styles holds the styles for one output stream.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Debug   lipgloss.Style
	Title   lipgloss.Style
	Item    lipgloss.Style
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms
}

// NewRenderer returns a renderer for w in one of the config color modes.
// In auto mode color is used only when
// w is a terminal.
func NewRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		if !IsTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

// NewStyles builds the standard styles on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Error:   r.NewStyle().Foreground(Red),
		Success: r.NewStyle().Foreground(Green),
		Warning: r.NewStyle().Foreground(Yellow),
		Info:    r.NewStyle().Foreground(Blue),
		Debug:   r.NewStyle().Foreground(Cyan),
		Title:   r.NewStyle().Bold(true).Foreground(Mauve),
		Item:    r.NewStyle().Foreground(Text),
	}
}

// PlainStyles renders everything without escape sequences.
func PlainStyles() Styles {
	return NewStyles(NewRenderer(io.Discard, config.ColorNever))
}
