package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
)

// maxShownSuggestions limits the suggestion list under an input.
const maxShownSuggestions = 6

// formatDuration formats minutes as human-readable duration
func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if n := len(word); n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])) {
		return word[:n-1] + "ies"
	}
	return word + "s"
}

// fit truncates s to width cells, marking the cut with an ellipsis.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// suggest ranks candidates against query. An empty query keeps the
// candidates in their given order.
func suggest(query string, candidates []string, limit int) []fuzzy.Match {
	var matches []fuzzy.Match
	if strings.TrimSpace(query) == "" {
		for i, c := range candidates {
			matches = append(matches, fuzzy.Match{Str: c, Index: i})
		}
	} else {
		matches = fuzzy.Find(query, candidates)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// highlight renders a match with its matched characters emphasized.
func highlight(m fuzzy.Match, base, match lipgloss.Style) string {
	if len(m.MatchedIndexes) == 0 {
		return base.Render(m.Str)
	}
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range m.Str {
		if matched[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
