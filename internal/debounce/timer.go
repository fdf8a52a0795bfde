// Package debounce provides a single-slot cancellable timer for Bubble Tea programs
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FiredMsg is delivered when an armed timer elapses
type FiredMsg struct {
	ID    int
	Token uint64
}

// Timer owns at most one pending timer. Scheduling replaces and cancels the
// previous one. It is not safe for concurrent use; call it from Update only.
type Timer struct {
	id    int
	delay time.Duration
	token uint64
	armed *pending
}

type pending struct {
	timer *time.Timer
	stop  chan struct{}
	token uint64
}

// New creates a timer that fires delay after each Schedule
func New(delay time.Duration) *Timer {
	return &Timer{id: nextID(), delay: delay}
}

// ID identifies this timer's FiredMsg values
func (t *Timer) ID() int {
	return t.id
}

// Delay returns the quiet period
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Schedule cancels any pending timer and arms a new one. The returned command
// blocks until the timer fires (yielding a FiredMsg) or is cancelled (yielding nil).
func (t *Timer) Schedule() tea.Cmd {
	t.Cancel()

	t.token++
	p := &pending{
		timer: time.NewTimer(t.delay),
		stop:  make(chan struct{}),
		token: t.token,
	}
	t.armed = p

	id := t.id
	return func() tea.Msg {
		select {
		case <-p.timer.C:
			return FiredMsg{ID: id, Token: p.token}
		case <-p.stop:
			return nil
		}
	}
}

// Cancel stops the pending timer, if any
func (t *Timer) Cancel() {
	if t.armed == nil {
		return
	}
	t.armed.timer.Stop()
	close(t.armed.stop)
	t.armed = nil
}

// Armed reports whether a timer is pending
func (t *Timer) Armed() bool {
	return t.armed != nil
}

// Accept reports whether msg belongs to the currently armed timer and, if so,
// disarms it. Messages from cancelled or replaced timers are rejected.
func (t *Timer) Accept(msg FiredMsg) bool {
	if msg.ID != t.id || t.armed == nil || msg.Token != t.armed.token {
		return false
	}
	t.armed = nil
	return true
}
