package service

import (
	"errors"
	"fmt"

	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
)

// Common errors for day operations
var (
	ErrInvalidIndex    = errors.New("invalid entry index")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoEntries       = errors.New("no entries found")
)

// OpenOptions tunes OpenDay.
type OpenOptions struct {
	// Renderer is notified after every change.
	Renderer sheet.Renderer
	// Dispatch delivers deferred resorts to the caller's event loop.
	// Nil runs them on the timer goroutine, which is only safe when the
	// caller never touches the editor concurrently.
	Dispatch func(func())
	// FlushOnly holds deferred resorts until Editor.Flush. One-shot
	// commands use it so the timer goroutine never touches the editor.
	FlushOnly bool
	// Placeholder adds an empty row to an empty day.
	Placeholder bool
}

// OpenDay returns an editor for date. An empty date selects today.
func (s *Services) OpenDay(date string, opts OpenOptions) *sheet.Editor {
	cfg := s.Config.Get()
	dispatch := opts.Dispatch
	if opts.FlushOnly {
		dispatch = func(func()) {}
	}
	return sheet.NewEditor(sheet.Config{
		Date:        date,
		Persister:   s.Repo,
		Projects:    s.Projects,
		Renderer:    opts.Renderer,
		Clock:       s.Clock,
		Logger:      s.Logger,
		Delay:       cfg.DebounceDelay(),
		Dispatch:    dispatch,
		Compare:     s.Projects.Compare,
		Placeholder: opts.Placeholder,
	})
}

// ResolveDate turns user input such as "yesterday" or "15/01/2024" into a
// day key. Empty input means today.
func (s *Services) ResolveDate(input string) (string, error) {
	if input == "" {
		return s.Today(), nil
	}
	return timeutil.NormalizeDate(input, s.Clock.Now())
}

// Today returns the current day key.
func (s *Services) Today() string {
	return timeutil.FormatDate(s.Clock.Now())
}

// Entries returns the stored entries of date in display order without
// opening an editor.
func (s *Services) Entries(date string) []entry.Entry {
	return sheet.SortByStartDescending(s.Repo.LoadDay(date).Entries)
}

// EntryAt returns the ID of the entry shown at the 1-based position n of
// the editor's current order.
func EntryAt(ed *sheet.Editor, n int) (string, error) {
	entries := ed.Entries()
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	if n < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidIndex, n)
	}
	if n > len(entries) {
		return "", fmt.Errorf("%w: %d (valid range: 1-%d)", ErrIndexOutOfRange, n, len(entries))
	}
	return entries[n-1].ID, nil
}
