package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Dispatcher forwards callbacks from timer goroutines to the bubbletea event
// loop as DeferredMsg values. Callbacks dispatched before Bind are queued.
type Dispatcher struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	queued []tea.Msg
}

// Bind sets the function that delivers messages, usually Program.Send.
func (d *Dispatcher) Bind(send func(tea.Msg)) {
	d.mu.Lock()
	queued := d.queued
	d.queued = nil
	d.send = send
	d.mu.Unlock()

	for _, msg := range queued {
		send(msg)
	}
}

// Dispatch hands fn to the event loop.
func (d *Dispatcher) Dispatch(fn func()) {
	msg := DeferredMsg{Fn: fn}

	d.mu.Lock()
	send := d.send
	if send == nil {
		d.queued = append(d.queued, msg)
	}
	d.mu.Unlock()

	if send != nil {
		send(msg)
	}
}
