package sheet

import (
	"github.com/xolan/tsheet/internal/entry"
)

// VisibleMinutes derives the displayed duration of e within its day.
//
// Without a valid start the legacy Minutes field is returned. Otherwise the
// duration runs to the smallest start, among the other entries, that is
// strictly later than e's start. The search covers the whole day, not just
// the neighbour in display order. The last entry of the day has duration 0.
func VisibleMinutes(e entry.Entry, all []entry.Entry) int {
	start, ok := e.StartMinutes()
	if !ok {
		return e.Minutes
	}

	next := -1
	for _, other := range all {
		if other.ID == e.ID {
			continue
		}
		m, ok := other.StartMinutes()
		if !ok || m <= start {
			continue
		}
		if next < 0 || m < next {
			next = m
		}
	}
	if next < 0 {
		return 0
	}
	return next - start
}

// NextStart returns the start of the entry that follows position i in a
// chronologically sorted slice, or "" when that entry has no valid start.
// It gives the end time of a row in an export.
func NextStart(sorted []entry.Entry, i int) string {
	if i < 0 || i+1 >= len(sorted) {
		return ""
	}
	if next := sorted[i+1]; next.HasValidStart() {
		return next.Start
	}
	return ""
}

// MinutesToNextValid returns the minutes from sorted[i] to the first later
// entry in sorted that has a valid start, or 0 when there is none or when
// sorted[i] itself is unscheduled.
func MinutesToNextValid(sorted []entry.Entry, i int) int {
	if i < 0 || i >= len(sorted) {
		return 0
	}
	start, ok := sorted[i].StartMinutes()
	if !ok {
		return 0
	}
	for _, next := range sorted[i+1:] {
		if m, ok := next.StartMinutes(); ok {
			return m - start
		}
	}
	return 0
}
