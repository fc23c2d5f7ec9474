package sheet

import (
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/timeutil"
)

const (
	// ResolveStep is how far a colliding start moves per attempt.
	ResolveStep = 15
	// maxResolveIterations covers every slot of the day once.
	maxResolveIterations = timeutil.MinutesPerDay / ResolveStep
)

// EnsureUniqueStart moves entries[i] by ResolveStep minutes in direction dir
// (forward when dir >= 0) until no other entry shares its start minute.
// It gives up after a full day of attempts and leaves the last value in place.
// Entries without a valid start are left alone. It reports whether Start changed.
func EnsureUniqueStart(entries []entry.Entry, i int, dir int) bool {
	if i < 0 || i >= len(entries) {
		return false
	}
	minutes, ok := entries[i].StartMinutes()
	if !ok {
		return false
	}

	step := ResolveStep
	if dir < 0 {
		step = -ResolveStep
	}

	changed := false
	for n := 0; n < maxResolveIterations; n++ {
		if !collides(entries, i, minutes) {
			break
		}
		minutes = timeutil.Wrap(minutes + step)
		entries[i].Start = timeutil.FormatTime(minutes)
		changed = true
	}
	return changed
}

func collides(entries []entry.Entry, i, minutes int) bool {
	for j, other := range entries {
		if j == i || other.ID == entries[i].ID {
			continue
		}
		if m, ok := other.StartMinutes(); ok && m == minutes {
			return true
		}
	}
	return false
}

// HasUniqueStarts reports whether no two valid starts share a minute.
func HasUniqueStarts(entries []entry.Entry) bool {
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		m, ok := e.StartMinutes()
		if !ok {
			continue
		}
		if seen[m] {
			return false
		}
		seen[m] = true
	}
	return true
}
