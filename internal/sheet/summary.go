package sheet

import (
	"slices"
	"strings"

	"github.com/xolan/tsheet/internal/entry"
)

// NoProjectLabel groups entries whose project is blank.
const NoProjectLabel = "No project"

// MaxSuggestions caps the comment suggestion list.
const MaxSuggestions = 20

// ProjectTotal is the summed duration of one project.
type ProjectTotal struct {
	Project string
	Minutes int
}

// CompareFunc orders project names. A nil CompareFunc means byte order.
type CompareFunc func(a, b string) int

// ProjectLabel returns the summary label of an entry's project.
func ProjectLabel(project string) string {
	if p := strings.TrimSpace(project); p != "" {
		return p
	}
	return NoProjectLabel
}

// GroupByProject sums visible durations per project, skipping pauses.
// The result is ordered by cmp.
func GroupByProject(entries []entry.Entry, cmp CompareFunc) []ProjectTotal {
	acc := make(map[string]int)
	for _, e := range entries {
		if e.IsPause() {
			continue
		}
		acc[ProjectLabel(e.Project)] += VisibleMinutes(e, entries)
	}
	return sortedTotals(acc, cmp)
}

// Total sums a list of project totals.
func Total(totals []ProjectTotal) int {
	sum := 0
	for _, t := range totals {
		sum += t.Minutes
	}
	return sum
}

func sortedTotals(acc map[string]int, cmp CompareFunc) []ProjectTotal {
	if cmp == nil {
		cmp = strings.Compare
	}
	out := make([]ProjectTotal, 0, len(acc))
	for p, m := range acc {
		out = append(out, ProjectTotal{Project: p, Minutes: m})
	}
	slices.SortFunc(out, func(a, b ProjectTotal) int { return cmp(a.Project, b.Project) })
	return out
}

// SumByProject builds totals from an explicit label to minutes map.
func SumByProject(acc map[string]int, cmp CompareFunc) []ProjectTotal {
	return sortedTotals(acc, cmp)
}

// FrequentComments returns the day's non-empty comments, most frequent first.
// When project is not blank only entries of that project (case-insensitive)
// are considered. At most max comments are returned.
func FrequentComments(entries []entry.Entry, project string, max int) []string {
	if max <= 0 {
		max = MaxSuggestions
	}
	project = strings.TrimSpace(project)

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		c := strings.TrimSpace(e.Comment)
		if c == "" {
			continue
		}
		if project != "" && !strings.EqualFold(strings.TrimSpace(e.Project), project) {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	slices.SortStableFunc(order, func(a, b string) int { return counts[b] - counts[a] })
	if len(order) > max {
		order = order[:max]
	}
	return order
}

// ProjectComments returns the non-empty comments of every entry whose
// project matches label exactly after trimming. NoProjectLabel matches
// entries without a project.
func ProjectComments(entries []entry.Entry, label string) []string {
	label = strings.TrimSpace(label)
	var out []string
	for _, e := range entries {
		p := strings.TrimSpace(e.Project)
		if label == NoProjectLabel {
			if p != "" {
				continue
			}
		} else if p != label {
			continue
		}
		if c := strings.TrimSpace(e.Comment); c != "" {
			out = append(out, c)
		}
	}
	return out
}
