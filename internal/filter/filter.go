package filter

import (
	"strings"

	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
)

// Filter represents search criteria for the entries of a day.
// All fields are optional - empty values match all entries.
type Filter struct {
	Keyword string // Case-insensitive substring search in entry comments
	Project string // Project label match (case-insensitive), "No project" for blank projects
}

// NewFilter creates a new Filter with the given criteria.
func NewFilter(keyword, project string) *Filter {
	return &Filter{
		Keyword: strings.TrimSpace(keyword),
		Project: strings.TrimSpace(project),
	}
}

// IsEmpty returns true if all filter fields are empty (matches all entries)
func (f *Filter) IsEmpty() bool {
	return f.Keyword == "" && f.Project == ""
}

// FilterEntries returns a new slice containing only entries that match the filter criteria.
// If the filter is empty, returns all entries.
func FilterEntries(entries []entry.Entry, f *Filter) []entry.Entry {
	if f.IsEmpty() {
		return entries
	}

	filtered := make([]entry.Entry, 0)
	for _, e := range entries {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MatchesKeyword returns true if the keyword is found in the entry's comment (case-insensitive).
func (f *Filter) MatchesKeyword(e entry.Entry) bool {
	if f.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Comment), strings.ToLower(f.Keyword))
}

// MatchesProject compares summary labels, so "No project" selects entries
// without a project and "Pause" selects pauses.
func (f *Filter) MatchesProject(e entry.Entry) bool {
	if f.Project == "" {
		return true
	}
	return strings.EqualFold(sheet.ProjectLabel(e.Project), f.Project)
}

// Matches reports whether e satisfies every criterion.
func (f *Filter) Matches(e entry.Entry) bool {
	return f.MatchesProject(e) && f.MatchesKeyword(e)
}
