// Package session tracks per-session active/idle status and last-activity
// time. The tracker is the synchronization point of the wake protocol: the
// idle→active flip commits before any wake prompt is sent, so a concurrent
// sender observing "active" knows a wake is already in flight.
package session

import (
	"sync"
	"time"

	"github.com/hupe1980/agentswarm/core"
)

// Tracker holds session status in a process-local map. Safe for concurrent
// access. Sessions start active; the only transitions are active→idle (turn
// ended with no queued wake) and idle→active (first step of a wake).
type Tracker struct {
	mu           sync.Mutex
	status       map[string]core.SessionStatus
	lastActivity map[string]time.Time
}

// NewTracker constructs an empty state tracker.
func NewTracker() *Tracker {
	return &Tracker{
		status:       make(map[string]core.SessionStatus),
		lastActivity: make(map[string]time.Time),
	}
}

// Track registers a session in its initial active state.
func (t *Tracker) Track(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.status[sessionID]; ok {
		return
	}
	t.status[sessionID] = core.StatusActive
	t.lastActivity[sessionID] = time.Now().UTC()
}

// Status returns the session's current status. Unknown sessions report false.
func (t *Tracker) Status(sessionID string) (core.SessionStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.status[sessionID]
	return st, ok
}

// IsIdle reports whether the session is known and idle.
func (t *Tracker) IsIdle(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[sessionID] == core.StatusIdle
}

// MarkActive flips the session to active and reports whether this call
// performed the transition. A false return means the session was already
// active: a wake is in flight elsewhere and the caller must not issue
// another one.
func (t *Tracker) MarkActive(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status[sessionID] == core.StatusActive {
		return false
	}
	t.status[sessionID] = core.StatusActive
	t.lastActivity[sessionID] = time.Now().UTC()
	return true
}

// MarkIdle flips the session to idle. Idempotent.
func (t *Tracker) MarkIdle(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status[sessionID] == core.StatusIdle {
		return
	}
	t.status[sessionID] = core.StatusIdle
	t.lastActivity[sessionID] = time.Now().UTC()
}

// LastActivity returns the time of the session's most recent transition.
func (t *Tracker) LastActivity(sessionID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.lastActivity[sessionID]
	return ts, ok
}
