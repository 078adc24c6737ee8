package inbox

import (
	"sync"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
)

// DefaultMaxInbox bounds each recipient's queue when no override is given.
const DefaultMaxInbox = 50

// Store is a volatile per-recipient message store. It is safe for concurrent
// access and returns copies so callers cannot mutate internal state.
//
// Contract:
//   - Index strictly increasing per recipient, starting at 1
//   - Queue length per recipient never exceeds the configured maximum;
//     overflow evicts the oldest handled message if one exists, else the
//     oldest message overall
//   - The presented set is monotonic: indices are added, never removed
type Store struct {
	mu        sync.Mutex
	max       int
	nextIndex map[string]int
	queues    map[string][]*core.Message
	presented map[string]map[int]struct{}
	logger    logging.Logger
}

// Options configures a Store.
type Options struct {
	// Max bounds each recipient's queue. Defaults to DefaultMaxInbox.
	Max    int
	Logger logging.Logger
}

// NewStore constructs an empty in-memory inbox store.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{Max: DefaultMaxInbox, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Max <= 0 {
		opts.Max = DefaultMaxInbox
	}
	return &Store{
		max:       opts.Max,
		nextIndex: make(map[string]int),
		queues:    make(map[string][]*core.Message),
		presented: make(map[string]map[int]struct{}),
		logger:    opts.Logger,
	}
}

// Send allocates a global id and the next per-recipient sequence number,
// appends the message (evicting first if the queue is full) and returns the
// created message.
func (s *Store) Send(from, fromAlias, to, body string) core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := core.NewMessage(from, fromAlias, to, body)
	s.nextIndex[to]++
	msg.Index = s.nextIndex[to]

	if len(s.queues[to]) >= s.max {
		s.evictLocked(to)
	}
	s.queues[to] = append(s.queues[to], &msg)

	s.logger.Debug("message queued", "to", to, "from", fromAlias, "msg_index", msg.Index)

	return msg
}

// evictLocked removes the oldest handled message if one exists, else the
// oldest message overall. Caller holds the lock.
func (s *Store) evictLocked(to string) {
	q := s.queues[to]
	victim := 0
	for i, m := range q {
		if m.Handled {
			victim = i
			break
		}
	}
	s.queues[to] = append(q[:victim], q[victim+1:]...)
}

// Unhandled returns the recipient's unhandled messages in insertion order.
func (s *Store) Unhandled(sessionID string) []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Message
	for _, m := range s.queues[sessionID] {
		if !m.Handled {
			out = append(out, *m)
		}
	}
	return out
}

// NeedingResume returns the unhandled messages whose indices are not yet in
// the recipient's presented set. Only these justify a wake: anything already
// injected passively must not also trigger a resume.
func (s *Store) NeedingResume(sessionID string) []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := s.presented[sessionID]
	var out []core.Message
	for _, m := range s.queues[sessionID] {
		if m.Handled {
			continue
		}
		if _, ok := seen[m.Index]; ok {
			continue
		}
		out = append(out, *m)
	}
	return out
}

// MarkHandled flips the handled flag for the given indices. It is idempotent:
// only messages that actually transitioned are returned, as reply
// confirmation records.
func (s *Store) MarkHandled(sessionID string, indices []int) []core.ReplyReceipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		want[i] = struct{}{}
	}

	var receipts []core.ReplyReceipt
	for _, m := range s.queues[sessionID] {
		if _, ok := want[m.Index]; !ok || m.Handled {
			continue
		}
		m.Handled = true
		receipts = append(receipts, core.ReplyReceipt{ID: m.ID, From: m.FromAlias, Body: m.Body})
	}
	return receipts
}

// MarkPresented adds the given indices to the recipient's presented set.
// The set never shrinks.
func (s *Store) MarkPresented(sessionID string, indices ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen, ok := s.presented[sessionID]
	if !ok {
		seen = make(map[int]struct{})
		s.presented[sessionID] = seen
	}
	for _, i := range indices {
		seen[i] = struct{}{}
	}
}

// Len returns the current queue length for a recipient.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[sessionID])
}
