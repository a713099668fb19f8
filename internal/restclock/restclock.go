// Package restclock is a deadline-based countdown for rest periods between
// sets. Remaining time is always derived from the stored deadline, so a
// process that is suspended and resumed reports the correct value.
package restclock

import (
	"sync"
	"time"
)

// Timer is safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	now      func() time.Time
	deadline time.Time
	running  bool
}

// New returns a stopped Timer reading the clock from now, or time.Now when
// now is nil.
func New(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start (re)arms the timer to expire d from now.
func (t *Timer) Start(d time.Duration) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deadline = t.now().Add(d)
	t.running = d > 0
	return t.deadline
}

// Remaining returns deadline minus now, clamped at zero. An elapsed timer
// stops itself.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

func (t *Timer) remainingLocked() time.Duration {
	if !t.running {
		return 0
	}
	left := t.deadline.Sub(t.now())
	if left <= 0 {
		t.running = false
		return 0
	}
	return left
}

// Running reports whether the timer is armed and not yet elapsed.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked() > 0
}

// Deadline returns the expiry time and whether the timer is running.
func (t *Timer) Deadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingLocked() == 0 {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Status reports the deadline, the remaining time and whether the timer is
// running from a single clock reading, so the three always agree.
func (t *Timer) Status() (deadline time.Time, remaining time.Duration, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining = t.remainingLocked()
	if remaining == 0 {
		return time.Time{}, 0, false
	}
	return t.deadline, remaining, true
}

// Cancel stops the timer immediately.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.deadline = time.Time{}
}
