package sheet

import (
	"slices"

	"github.com/xolan/tsheet/internal/entry"
)

// compareDescending orders entries without a valid start first, then valid
// starts latest first. Equal keys compare as 0 so that a stable sort keeps
// insertion order.
func compareDescending(a, b entry.Entry) int {
	am, aok := a.StartMinutes()
	bm, bok := b.StartMinutes()
	switch {
	case aok && bok:
		return bm - am
	case aok:
		return 1
	case bok:
		return -1
	}
	return 0
}

// compareAscending orders valid starts earliest first and puts entries
// without a valid start last.
func compareAscending(a, b entry.Entry) int {
	am, aok := a.StartMinutes()
	bm, bok := b.StartMinutes()
	switch {
	case aok && bok:
		return am - bm
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

// SortByStartDescending returns a new slice with unscheduled entries first,
// in their original order, followed by scheduled entries latest first.
// Ties keep their relative order.
func SortByStartDescending(entries []entry.Entry) []entry.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareDescending)
	return out
}

// SortByStartAscending returns a new slice in chronological order with
// unscheduled entries last. This is the order used for export.
func SortByStartAscending(entries []entry.Entry) []entry.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareAscending)
	return out
}

// IsSortedDescending reports whether entries already satisfy the display order.
func IsSortedDescending(entries []entry.Entry) bool {
	return slices.IsSortedFunc(entries, compareDescending)
}
