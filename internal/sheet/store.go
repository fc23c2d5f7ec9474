package sheet

import (
	"slices"

	"github.com/xolan/tsheet/internal/entry"
)

// Store holds the entries of one day in display order.
//
// Store itself does not enforce ordering or uniqueness; the Editor calls
// Sort and ResolveStart at the points where those invariants must hold.
type Store struct {
	entries []entry.Entry
}

// NewStore returns a store over a copy of entries.
func NewStore(entries []entry.Entry) *Store {
	return &Store{entries: slices.Clone(entries)}
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in their current order.
func (s *Store) Entries() []entry.Entry {
	return slices.Clone(s.entries)
}

// At returns the entry at position i.
func (s *Store) At(i int) entry.Entry { return s.entries[i] }

// IndexOf returns the position of the entry with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e entry.Entry) bool { return e.ID == id })
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (entry.Entry, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return entry.Entry{}, false
}

// Append adds e at the end of the store.
func (s *Store) Append(e entry.Entry) {
	s.entries = append(s.entries, e)
}

// Remove deletes the entry with the given ID and reports whether it existed.
func (s *Store) Remove(id string) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return true
}

// Update applies fn to the entry with the given ID in place.
func (s *Store) Update(id string, fn func(*entry.Entry)) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	fn(&s.entries[i])
	return true
}

// ResolveStart runs the uniqueness resolver on the entry with the given ID.
func (s *Store) ResolveStart(id string, dir int) bool {
	return EnsureUniqueStart(s.entries, s.IndexOf(id), dir)
}

// Sort puts the entries in display order.
func (s *Store) Sort() {
	s.entries = SortByStartDescending(s.entries)
}

// VisibleMinutes returns the derived duration of the entry with the given ID.
func (s *Store) VisibleMinutes(id string) int {
	e, ok := s.Get(id)
	if !ok {
		return 0
	}
	return VisibleMinutes(e, s.entries)
}
