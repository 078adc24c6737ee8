package agentswarm

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentswarm/command"
	"github.com/hupe1980/agentswarm/core"
)

// ErrNoCoordinator is returned by Command for the bare form when the pocket
// has no spawned agents yet.
var ErrNoCoordinator = errors.New("No coordinator agent has been spawned in this pocket.")

// Command routes a user command: `@alias <message>` targets the named agent,
// the bare form routes to the pocket's coordinator (the first spawned agent).
// Targets not present in the invoker's topology, targets in an already
// cleaned-up pocket, and targets whose root differs from the invoking root
// each fail with a distinct textual error and no state mutation.
func (s *Swarm) Command(ctx context.Context, invokerSessionID, input string) (string, error) {
	if s.host == nil {
		return "", core.ErrNoHost
	}

	rootID, ok := s.topology.RootOf(invokerSessionID)
	if !ok {
		return "", fmt.Errorf("unknown session %s", invokerSessionID)
	}

	target, body := command.Parse(input)

	var targetID string
	if target == "" {
		id, ok := s.topology.Coordinator(rootID)
		if !ok {
			return "", ErrNoCoordinator
		}
		targetID = id
		target = s.topology.AliasOf(id)
	} else {
		id, ok := s.topology.Resolve(rootID, target)
		if !ok {
			if otherRoot, elsewhere := s.topology.ResolveAnywhere(target); elsewhere && otherRoot != rootID {
				return "", &core.IsolationError{Alias: target, CallerRoot: rootID, TargetRoot: otherRoot}
			}
			return "", &core.LookupError{Alias: target, Known: s.topology.Aliases(rootID)}
		}
		targetID = id
	}

	if s.topology.IsCleanedUp(targetID) {
		return "", &core.StaleTargetError{Alias: target, SessionID: targetID}
	}

	return s.Send(ctx, invokerSessionID, target, body)
}
