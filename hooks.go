package agentswarm

import (
	"strings"

	"github.com/hupe1980/agentswarm/command"
	"github.com/hupe1980/agentswarm/core"
)

// Inject implements core.Hooks. Called when a turn starts, it returns the
// session's unread backlog as context parts and marks every returned index
// presented. Presenting here is what keeps those messages from also
// triggering a resume later.
func (s *Swarm) Inject(sessionID string) []core.Part {
	msgs := s.inbox.NeedingResume(sessionID)
	if len(msgs) == 0 {
		return nil
	}

	parts := make([]core.Part, 0, len(msgs))
	indices := make([]int, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, core.TextPart{Text: command.FormatInboxMessage(m)})
		indices = append(indices, m.Index)
	}
	s.inbox.MarkPresented(sessionID, indices...)

	s.logger.Debug("inbox presented", "session_id", sessionID, "count", len(indices))

	return parts
}

// PreIdle implements core.Hooks: the pre-idle checkpoint, fired once per turn
// before the host ends it. Staged subagent output wins and becomes the next
// turn's prompt; otherwise an unread never-presented message does; otherwise
// the session goes idle.
func (s *Swarm) PreIdle(sessionID string) (string, bool) {
	s.pending.EnterCheckpoint(sessionID)
	defer s.pending.LeaveCheckpoint(sessionID)

	if outs := s.pending.Consume(sessionID); len(outs) > 0 {
		bodies := make([]string, len(outs))
		for i, o := range outs {
			bodies[i] = o.Body
		}
		s.pending.MarkDelivered(sessionID)
		s.logger.Debug("checkpoint consumed staged output", "session_id", sessionID, "count", len(outs))
		return strings.Join(bodies, "\n\n"), true
	}

	if msgs := s.inbox.NeedingResume(sessionID); len(msgs) > 0 {
		s.inbox.MarkPresented(sessionID, msgs[0].Index)
		return command.FormatInboxMessage(msgs[0]), true
	}

	s.tracker.MarkIdle(sessionID)
	return "", false
}

// TurnCompleted implements core.Hooks. The delivered guard is scoped to one
// round, so it resets here.
func (s *Swarm) TurnCompleted(sessionID string) {
	s.pending.ClearDelivered(sessionID)
}
