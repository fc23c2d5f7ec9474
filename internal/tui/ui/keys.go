package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// QuickSlots is the number of quick project and quick comment keys.
const QuickSlots = 9

// KeyMap contains all key bindings for the TUI
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// Tab navigation
	NextTab     key.Binding
	PrevTab     key.Binding
	TabDay      key.Binding
	TabSummary  key.Binding
	TabProjects key.Binding
	TabSettings key.Binding

	// Actions
	Select  key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Accept  key.Binding

	// Day view
	Add        key.Binding
	Pause      key.Binding
	Project    key.Binding
	Comment    key.Binding
	Start      key.Binding
	Increment  key.Binding
	Decrement  key.Binding
	Delete     key.Binding
	ExportDay  key.Binding
	ExportYear key.Binding

	// Quick keys, index i is slot i+1
	QuickProject [QuickSlots]key.Binding
	QuickComment [QuickSlots]key.Binding

	// Summary view
	Copy  key.Binding
	Scope key.Binding

	// Projects view
	Rename key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		// Navigation (vim + arrows)
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),

		// Tab navigation
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		TabDay: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "day"),
		),
		TabSummary: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "summary"),
		),
		TabProjects: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "projects"),
		),
		TabSettings: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "settings"),
		),

		// Actions
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept suggestion"),
		),

		// Day view
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Pause: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "pause"),
		),
		Project: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "project"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "later"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "earlier"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ExportDay: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export day"),
		),
		ExportYear: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export year"),
		),

		// Summary view
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy comments"),
		),
		Scope: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "day/year"),
		),

		// Projects view
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
	}

	for i := 0; i < QuickSlots; i++ {
		n := strconv.Itoa(i + 1)
		km.QuickProject[i] = key.NewBinding(
			key.WithKeys(n),
			key.WithHelp(n, "quick project"),
		)
		km.QuickComment[i] = key.NewBinding(
			key.WithKeys("alt+"+n),
			key.WithHelp("alt+"+n, "quick comment"),
		)
	}
	return km
}
