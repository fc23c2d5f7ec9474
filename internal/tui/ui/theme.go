package ui

import (
	"slices"

	tint "github.com/lrstanley/bubbletint"
	"github.com/muesli/termenv"
)

// DefaultTheme is used when no theme is configured or the configured one
// does not exist.
const DefaultTheme = "dracula"

// ThemeProvider holds the selected bubbletint theme of the TUI.
type ThemeProvider struct {
	registry *tint.Registry
	plain    bool
}

// NewThemeProvider selects initialTheme, falling back to DefaultTheme.
// Colors are disabled entirely when NO_COLOR is set.
func NewThemeProvider(initialTheme string) *ThemeProvider {
	tints := tint.DefaultTints()

	var fallback tint.Tint
	if i := slices.IndexFunc(tints, func(t tint.Tint) bool { return t.ID() == DefaultTheme }); i >= 0 {
		fallback = tints[i]
	} else if len(tints) > 0 {
		fallback = tints[0]
	}

	tp := &ThemeProvider{
		registry: tint.NewRegistry(fallback, tints...),
		plain:    termenv.EnvNoColor(),
	}
	if initialTheme != "" {
		tp.registry.SetTintID(initialTheme)
	}
	return tp
}

// SetTheme selects a theme by ID. Unknown IDs leave the selection unchanged
// and return false.
func (tp *ThemeProvider) SetTheme(id string) bool {
	return tp.registry.SetTintID(id)
}

// Use selects a theme and returns the styles to render with. The bool is
// false when id is unknown.
func (tp *ThemeProvider) Use(id string) (Styles, bool) {
	ok := tp.SetTheme(id)
	return tp.Styles(), ok
}

// CurrentName returns the ID of the selected theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// Themes returns the IDs of all themes, sorted.
func (tp *ThemeProvider) Themes() []string {
	ids := tp.registry.TintIDs()
	slices.Sort(ids)
	return ids
}

// Plain reports whether colors are disabled.
func (tp *ThemeProvider) Plain() bool {
	return tp.plain
}

// Styles returns the styles of the selected theme, or the monochrome styles
// when colors are disabled.
func (tp *ThemeProvider) Styles() Styles {
	if tp.plain {
		return PlainStyles()
	}
	return NewStylesFromRegistry(tp.registry)
}
