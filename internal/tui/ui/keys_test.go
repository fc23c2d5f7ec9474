package ui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
	}{
		{"Up", keys.Up},
		{"Down", keys.Down},
		{"PrevDay", keys.PrevDay},
		{"NextDay", keys.NextDay},
		{"Today", keys.Today},
		{"NextTab", keys.NextTab},
		{"PrevTab", keys.PrevTab},
		{"TabDay", keys.TabDay},
		{"TabSummary", keys.TabSummary},
		{"TabProjects", keys.TabProjects},
		{"TabSettings", keys.TabSettings},
		{"Select", keys.Select},
		{"Back", keys.Back},
		{"Quit", keys.Quit},
		{"Help", keys.Help},
		{"Refresh", keys.Refresh},
		{"Accept", keys.Accept},
		{"Add", keys.Add},
		{"Pause", keys.Pause},
		{"Project", keys.Project},
		{"Comment", keys.Comment},
		{"Start", keys.Start},
		{"Increment", keys.Increment},
		{"Decrement", keys.Decrement},
		{"Delete", keys.Delete},
		{"ExportDay", keys.ExportDay},
		{"ExportYear", keys.ExportYear},
		{"Copy", keys.Copy},
		{"Scope", keys.Scope},
		{"Rename", keys.Rename},
	}
	for i := 0; i < QuickSlots; i++ {
		tests = append(tests,
			struct {
				name    string
				binding key.Binding
			}{"QuickProject", keys.QuickProject[i]},
			struct {
				name    string
				binding key.Binding
			}{"QuickComment", keys.QuickComment[i]},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.binding.Keys()) == 0 {
				t.Errorf("expected keys for binding %s", tt.name)
			}
			help := tt.binding.Help()
			if help.Key == "" {
				t.Errorf("expected help key for binding %s", tt.name)
			}
			if help.Desc == "" {
				t.Errorf("expected help description for binding %s", tt.name)
			}
		})
	}
}

func TestKeyBindingsMatch(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"Quit q", keys.Quit, "q"},
		{"Quit ctrl+c", keys.Quit, "ctrl+c"},
		{"Up k", keys.Up, "k"},
		{"Down j", keys.Down, "j"},
		{"PrevDay h", keys.PrevDay, "h"},
		{"NextDay l", keys.NextDay, "l"},
		{"Add a", keys.Add, "a"},
		{"Pause b", keys.Pause, "b"},
		{"Project p", keys.Project, "p"},
		{"Comment c", keys.Comment, "c"},
		{"Increment +", keys.Increment, "+"},
		{"Increment =", keys.Increment, "="},
		{"Decrement -", keys.Decrement, "-"},
		{"Decrement _", keys.Decrement, "_"},
		{"Delete d", keys.Delete, "d"},
		{"ExportYear E", keys.ExportYear, "E"},
		{"TabDay f1", keys.TabDay, "f1"},
		{"QuickProject 1", keys.QuickProject[0], "1"},
		{"QuickProject 9", keys.QuickProject[8], "9"},
		{"QuickComment alt+3", keys.QuickComment[2], "alt+3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Contains(tt.binding.Keys(), tt.key) {
				t.Errorf("expected binding %s to include key %s, got keys %v", tt.name, tt.key, tt.binding.Keys())
			}
		})
	}
}

func TestQuickCommentMatchesAltKey(t *testing.T) {
	keys := DefaultKeyMap()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}, Alt: true}

	if !key.Matches(msg, keys.QuickComment[3]) {
		t.Errorf("alt+4 should match QuickComment[3], key string %q", msg.String())
	}
	if key.Matches(msg, keys.QuickProject[3]) {
		t.Error("alt+4 should not match QuickProject[3]")
	}
}
