package agentswarm

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/spawn"
)

// SpawnSpec describes a child agent to spawn into the caller's pocket.
type SpawnSpec struct {
	// Alias names the child; it must be unique within the pocket.
	Alias string
	// Prompt is the child's initial task prompt.
	Prompt string
	// Description is recorded as the child's first status-history entry.
	Description string
	// Workspace optionally isolates the child in its own working directory.
	Workspace string
	// Model optionally overrides the host's default model for the child.
	Model string
}

// Spawn creates a child session under the caller's root, runs its first turn
// on a supervised goroutine and blocks until the child's terminal signal is
// observed: output piped to the caller, child marked idle, pending-spawn
// entry cleared. Control does not return to the caller's own turn before the
// handle resolves.
//
// The wait is built over asynchronous completion deliberately: the host's
// native idle signal does not fire for non-root sessions, and its
// tool-finished signal fires only after control already returned. No ordering
// is enforced between sibling spawns issued concurrently by the same caller;
// each independently completes when its own child finishes.
func (s *Swarm) Spawn(ctx context.Context, callerID string, spec SpawnSpec) (string, error) {
	if s.host == nil {
		return "", core.ErrNoHost
	}

	rootID, ok := s.topology.RootOf(callerID)
	if !ok {
		return "", fmt.Errorf("unknown caller session %s", callerID)
	}
	if s.topology.IsCleanedUp(callerID) {
		return "", &core.StaleTargetError{Alias: s.topology.AliasOf(callerID), SessionID: callerID}
	}

	childID := core.NewID()
	if err := s.topology.Register(spec.Alias, childID, rootID, callerID, spec.Workspace); err != nil {
		return "", err
	}
	s.tracker.Track(childID)
	if spec.Description != "" {
		s.topology.AppendStatus(childID, "spawned: "+spec.Description)
	}

	handle := s.spawns.Add(callerID, childID, spec.Alias)
	s.supervise("spawn "+spec.Alias, func() error {
		return s.runChild(ctx, handle, callerID, spec)
	})

	return handle.Wait(ctx)
}

// PendingSpawns reports how many children the caller is still waiting on.
func (s *Swarm) PendingSpawns(callerID string) int {
	return s.spawns.PendingFor(callerID)
}

// runChild drives the child's first turn and publishes its terminal signal:
// mark idle, pipe output to the caller, resolve the pending-spawn entry.
func (s *Swarm) runChild(ctx context.Context, handle *spawn.Handle, callerID string, spec SpawnSpec) error {
	output, err := s.host.Prompt(ctx, handle.ChildID, core.PromptRequest{
		Parts: core.TextParts(spec.Prompt),
		Agent: handle.Alias,
		Model: spec.Model,
	})

	s.tracker.MarkIdle(handle.ChildID)

	if err != nil {
		derr := &core.DeliveryError{SessionID: handle.ChildID, Err: err}
		s.spawns.Resolve(handle.ChildID, "", derr)
		return derr
	}

	s.topology.AppendStatus(handle.ChildID, "finished")

	if perr := s.PipeOutput(ctx, callerID, handle.Alias, output); perr != nil {
		s.logger.Error("piping child output failed", "child", handle.ChildID, "caller", callerID, "error", perr)
	}

	s.spawns.Resolve(handle.ChildID, output, nil)

	return nil
}
