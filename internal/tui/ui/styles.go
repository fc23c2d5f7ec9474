package ui

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var errNotHex = errors.New("not a hex color")

// Styles contains all the styles used in the TUI
type Styles struct {
	// Base styles
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Content area
	ViewTitle lipgloss.Style
	DayTitle  lipgloss.Style
	Today     lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Entry rows
	RowSelected  lipgloss.Style
	RowNormal    lipgloss.Style
	RowPause     lipgloss.Style
	RowIndex     lipgloss.Style
	Start        lipgloss.Style
	StartMissing lipgloss.Style
	Project      lipgloss.Style
	Comment      lipgloss.Style
	Duration     lipgloss.Style
	FieldFocused lipgloss.Style
	Pending      lipgloss.Style

	// Summary
	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	// Suggestions and picker
	Suggestion       lipgloss.Style
	SuggestionActive lipgloss.Style
	SuggestionMatch  lipgloss.Style

	// Input
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Dialog
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style

	// Errors and warnings
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

type palette struct {
	primary    lipgloss.TerminalColor
	secondary  lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	muted      lipgloss.TerminalColor
	success    lipgloss.TerminalColor
	warning    lipgloss.TerminalColor
	errorColor lipgloss.TerminalColor
	fg         lipgloss.TerminalColor
	bg         lipgloss.TerminalColor
	selection  lipgloss.TerminalColor
	pause      lipgloss.TerminalColor
	pending    lipgloss.TerminalColor
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:    lipgloss.Color("99"),  // Purple
		secondary:  lipgloss.Color("39"),  // Cyan
		accent:     lipgloss.Color("212"), // Pink
		muted:      lipgloss.Color("240"), // Gray
		success:    lipgloss.Color("82"),
		warning:    lipgloss.Color("214"),
		errorColor: lipgloss.Color("196"),
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
		selection:  lipgloss.Color("237"),
		pause:      lipgloss.Color("244"),
		pending:    lipgloss.Color("214"),
	})
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// This maps theme colors to semantic UI elements:
// - Primary: Purple (tabs, titles, projects)
// - Secondary: Cyan (start times, keys)
// - Accent: BrightPurple (durations)
// - Muted: BrightBlack (inactive elements, labels)
// - Pause rows: foreground faded halfway into the background
func NewStylesFromRegistry(r *tint.Registry) Styles {
	fg := r.Fg()
	bg := r.Bg()
	muted := r.BrightBlack()

	return newStyles(palette{
		primary:    r.Purple(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      muted,
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.Red(),
		fg:         fg,
		bg:         bg,
		selection:  Blend(bg, muted, 0.6),
		pause:      Blend(fg, bg, 0.5),
		pending:    r.Yellow(),
	})
}

// PlainStyles returns styles without colors, for NO_COLOR terminals.
func PlainStyles() Styles {
	none := lipgloss.NoColor{}
	s := newStyles(palette{
		primary:    none,
		secondary:  none,
		accent:     none,
		muted:      none,
		success:    none,
		warning:    none,
		errorColor: none,
		fg:         none,
		bg:         none,
		selection:  none,
		pause:      none,
		pending:    none,
	})
	s.RowSelected = lipgloss.NewStyle().Reverse(true)
	s.RowPause = lipgloss.NewStyle().Faint(true)
	return s
}

// Blend mixes two hex colors in Lab space; t=0 gives a and t=1 gives b.
// Colors that are not hex values (ANSI indexes, adaptive colors) leave a
// unchanged.
func Blend(a, b lipgloss.TerminalColor, t float64) lipgloss.TerminalColor {
	ca, err := toColorful(a)
	if err != nil {
		return a
	}
	cb, err := toColorful(b)
	if err != nil {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

func toColorful(c lipgloss.TerminalColor) (colorful.Color, error) {
	hex, ok := c.(lipgloss.Color)
	if !ok {
		return colorful.Color{}, errNotHex
	}
	return colorful.Hex(string(hex))
}

func newStyles(p palette) Styles {
	return Styles{
		// Base styles
		App: lipgloss.NewStyle().Padding(1, 2),

		// Tab bar
		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		// Content area
		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),
		DayTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(p.success),

		// Status bar
		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		// Entry rows
		RowSelected: lipgloss.NewStyle().
			Background(p.selection).
			Bold(true),
		RowNormal: lipgloss.NewStyle(),
		RowPause: lipgloss.NewStyle().
			Foreground(p.pause).
			Italic(true),
		RowIndex: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(4),
		Start: lipgloss.NewStyle().
			Foreground(p.secondary).
			Width(7),
		StartMissing: lipgloss.NewStyle().
			Foreground(p.warning).
			Width(7),
		Project: lipgloss.NewStyle().
			Foreground(p.primary),
		Comment: lipgloss.NewStyle().
			Foreground(p.fg),
		Duration: lipgloss.NewStyle().
			Foreground(p.accent).
			Width(8).
			Align(lipgloss.Right),
		FieldFocused: lipgloss.NewStyle().
			Underline(true).
			Bold(true),
		Pending: lipgloss.NewStyle().
			Foreground(p.pending),

		// Summary
		StatLabel: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),

		// Suggestions and picker
		Suggestion: lipgloss.NewStyle().
			Foreground(p.muted),
		SuggestionActive: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),
		SuggestionMatch: lipgloss.NewStyle().
			Foreground(p.accent).
			Underline(true),

		// Input
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		// Dialog
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(50),
		DialogTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		// Errors and warnings
		Error: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
