// Package pending stages finished subagent output for callers that cannot
// receive it immediately, together with the race guards that make delivery
// exactly-once: the in-checkpoint set (callers currently inside the host's
// pre-idle decision point) and the delivered set (callers whose output was
// already injected visibly this round).
package pending

import (
	"sync"

	"github.com/hupe1980/agentswarm/logging"
)

// Output is one staged, already-formatted subagent result awaiting delivery
// to its caller.
type Output struct {
	SessionID   string // caller session id
	SenderAlias string
	Body        string // formatted output text
}

// Store holds staged outputs and the delivery race guards. Safe for
// concurrent access. Exactly one mechanism may consume a staged entry;
// whichever fires first removes it so the other becomes a no-op.
type Store struct {
	mu           sync.Mutex
	staged       map[string][]Output
	inCheckpoint map[string]struct{}
	delivered    map[string]struct{}
	logger       logging.Logger
}

// Options configures a Store.
type Options struct {
	Logger logging.Logger
}

// NewStore constructs an empty pending-output store.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		staged:       make(map[string][]Output),
		inCheckpoint: make(map[string]struct{}),
		delivered:    make(map[string]struct{}),
		logger:       opts.Logger,
	}
}

// Stage queues output for later consumption by the caller's checkpoint.
func (s *Store) Stage(o Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[o.SessionID] = append(s.staged[o.SessionID], o)
	s.logger.Debug("output staged", "caller", o.SessionID, "sender", o.SenderAlias)
}

// Consume removes and returns every staged entry for the caller. A second
// call (or a racing Drop) finds nothing.
func (s *Store) Consume(sessionID string) []Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.staged[sessionID]
	delete(s.staged, sessionID)
	return out
}

// Drop discards any staged entries for the caller. Used when the immediate
// delivery path won the race.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, sessionID)
}

// HasStaged reports whether the caller has output waiting.
func (s *Store) HasStaged(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged[sessionID]) > 0
}

// EnterCheckpoint records that the caller is inside the host's pre-idle
// decision point.
func (s *Store) EnterCheckpoint(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inCheckpoint[sessionID] = struct{}{}
}

// LeaveCheckpoint clears the in-checkpoint mark.
func (s *Store) LeaveCheckpoint(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inCheckpoint, sessionID)
}

// InCheckpoint reports whether the caller is mid-checkpoint.
func (s *Store) InCheckpoint(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inCheckpoint[sessionID]
	return ok
}

// MarkDelivered records that output was injected visibly for the caller this
// round, and reports whether this call set the mark. A false return means a
// competing path already delivered.
func (s *Store) MarkDelivered(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.delivered[sessionID]; ok {
		return false
	}
	s.delivered[sessionID] = struct{}{}
	return true
}

// WasDelivered reports whether the caller already received a visible
// injection this round.
func (s *Store) WasDelivered(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.delivered[sessionID]
	return ok
}

// ClearDelivered resets the delivered mark at the end of the caller's turn.
func (s *Store) ClearDelivered(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.delivered, sessionID)
}
