// Package spawn implements the spawn-wait coordinator: the bookkeeping that
// lets a parent block deterministically on a child it spawned even though the
// host exposes no native join primitive. Each spawn owns a channel-backed
// handle resolved exactly once when the child's terminal signal is observed.
package spawn

import (
	"context"
	"sync"

	"github.com/hupe1980/agentswarm/logging"
)

// Handle is the completion future for one spawn. Wait blocks until the
// coordinator resolves it with the child's output (or terminal error).
type Handle struct {
	ChildID string
	Alias   string

	done   chan struct{}
	output string
	err    error
}

// Wait blocks until the child terminates or the context is cancelled.
func (h *Handle) Wait(ctx context.Context) (string, error) {
	select {
	case <-h.done:
		return h.output, h.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Done exposes the completion channel for select-based callers.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Coordinator tracks outstanding spawns per caller. It enforces no ordering
// between sibling spawns issued concurrently by the same caller: each handle
// independently resolves when its own child finishes.
type Coordinator struct {
	mu       sync.Mutex
	byCaller map[string][]*Handle
	byChild  map[string]*Handle
	callerOf map[string]string
	logger   logging.Logger
}

// Options configures a Coordinator.
type Options struct {
	Logger logging.Logger
}

// NewCoordinator constructs an empty spawn-wait coordinator.
func NewCoordinator(optFns ...func(o *Options)) *Coordinator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{
		byCaller: make(map[string][]*Handle),
		byChild:  make(map[string]*Handle),
		callerOf: make(map[string]string),
		logger:   opts.Logger,
	}
}

// Add records a pending spawn keyed by caller id and returns its handle.
func (c *Coordinator) Add(callerID, childID, alias string) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := &Handle{ChildID: childID, Alias: alias, done: make(chan struct{})}
	c.byCaller[callerID] = append(c.byCaller[callerID], h)
	c.byChild[childID] = h
	c.callerOf[childID] = callerID

	c.logger.Debug("spawn recorded", "caller", callerID, "child", childID, "alias", alias)

	return h
}

// Resolve marks the child terminated, releases its waiting caller and clears
// the pending entry. Idempotent: only the first call for a child has effect.
func (c *Coordinator) Resolve(childID, output string, err error) bool {
	c.mu.Lock()
	h, ok := c.byChild[childID]
	if !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.byChild, childID)
	callerID := c.callerOf[childID]
	delete(c.callerOf, childID)

	handles := c.byCaller[callerID]
	for i, other := range handles {
		if other == h {
			c.byCaller[callerID] = append(handles[:i], handles[i+1:]...)
			break
		}
	}
	if len(c.byCaller[callerID]) == 0 {
		delete(c.byCaller, callerID)
	}
	c.mu.Unlock()

	h.output = output
	h.err = err
	close(h.done)

	c.logger.Debug("spawn resolved", "child", childID, "caller", callerID)

	return true
}

// PendingFor returns how many spawns the caller is still waiting on.
func (c *Coordinator) PendingFor(callerID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byCaller[callerID])
}
