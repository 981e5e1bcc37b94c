package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorTeal   = lipgloss.Color("#94e2d5")
	ColorMauve  = lipgloss.Color("#cba6f7")
	ColorMuted  = lipgloss.Color("#5a6278")
)

// theme holds the styles for one output stream. A zero theme renders
// plain text. A nil writer means stdout.
type theme struct {
	enabled bool
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	num     lipgloss.Style
	path    lipgloss.Style
	param   lipgloss.Style
	muted   lipgloss.Style
}

func newTheme(w io.Writer, color bool) theme {
	if !color {
		return theme{}
	}
	r := lipgloss.DefaultRenderer()
	if w != nil {
		r = lipgloss.NewRenderer(w)
	}
	return theme{
		enabled: true,
		ok:      r.NewStyle().Foreground(ColorGreen),
		err:     r.NewStyle().Foreground(ColorRed).Bold(true),
		warn:    r.NewStyle().Foreground(ColorYellow),
		num:     r.NewStyle().Foreground(ColorTeal),
		path:    r.NewStyle().Foreground(ColorBlue),
		param:   r.NewStyle().Foreground(ColorMauve),
		muted:   r.NewStyle().Foreground(ColorMuted),
	}
}

func (t theme) render(s lipgloss.Style, text string) string {
	if !t.enabled {
		return text
	}
	return s.Render(text)
}

// yesNo renders a decision flag.
func (t theme) yesNo(b bool) string {
	if b {
		return t.render(t.ok, "yes")
	}
	return t.render(t.err, "no")
}

// failures renders a failure count, highlighted when non-zero.
func (t theme) failures(n int64) string {
	if n == 0 {
		return t.render(t.ok, FormatCount(n))
	}
	return t.render(t.err, FormatCount(n))
}
