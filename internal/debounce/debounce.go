// Package debounce coalesces bursts of edits into a single deferred action.
//
// A Scheduler holds at most one outstanding timer. Every Schedule call
// replaces it, so the action runs once, a fixed delay after the last call.
package debounce

import (
	"sync"
	"time"

	"github.com/xolan/tsheet/internal/clock"
)

// DefaultDelay is the quiet period before a scheduled resort runs.
const DefaultDelay = 400 * time.Millisecond

// Target identifies the row and control that should regain focus once the
// deferred action has run.
type Target struct {
	EntryID string
	Control string
}

// Scheduler runs a callback once after a burst of Schedule calls settles.
type Scheduler struct {
	clock    clock.Clock
	delay    time.Duration
	run      func(Target)
	dispatch func(func())

	mu      sync.Mutex
	timer   clock.Timer
	gen     uint64
	pending bool
	target  Target
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatch routes timer callbacks through fn, typically to hand them to
// the owner's event loop. By default callbacks run on the timer goroutine.
func WithDispatch(fn func(func())) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.dispatch = fn
		}
	}
}

// New returns a Scheduler that calls run after delay of inactivity.
func New(c clock.Clock, delay time.Duration, run func(Target), opts ...Option) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Scheduler{
		clock:    c,
		delay:    delay,
		run:      run,
		dispatch: func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule (re)arms the timer. Non-empty fields of t replace the stored
// focus target; empty fields keep the previous value.
func (s *Scheduler) Schedule(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	s.pending = true
	if t.EntryID != "" {
		s.target.EntryID = t.EntryID
	}
	if t.Control != "" {
		s.target.Control = t.Control
	}

	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.dispatch(func() { s.fire(gen) })
	})
}

// Cancel discards the pending action and its target without running it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Flush runs the pending action immediately. It returns false when nothing
// was pending.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	target := s.target
	s.resetLocked()
	s.mu.Unlock()

	s.run(target)
	return true
}

// IsPending reports whether an action is waiting to run.
func (s *Scheduler) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Target returns the focus target that the pending action will restore.
func (s *Scheduler) Target() Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Delay returns the configured quiet period.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.pending {
		// superseded by a later Schedule, Cancel or Flush
		s.mu.Unlock()
		return
	}
	target := s.target
	s.timer = nil
	s.pending = false
	s.target = Target{}
	s.mu.Unlock()

	s.run(target)
}

func (s *Scheduler) resetLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.pending = false
	s.target = Target{}
}
