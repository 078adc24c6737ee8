package agentswarm

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentswarm/command"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/pending"
)

// Send queues a point-to-point message for the named pocket-mate and returns
// the tool-result contract text. If the recipient is idle a supervised wake
// chain is started; an active recipient sees the message through passive
// injection at its next turn boundary.
func (s *Swarm) Send(ctx context.Context, fromSessionID, toAlias, body string) (string, error) {
	if s.host == nil {
		return "", core.ErrNoHost
	}

	rootID, ok := s.topology.RootOf(fromSessionID)
	if !ok {
		return "", fmt.Errorf("unknown sender session %s", fromSessionID)
	}

	targetID, ok := s.topology.Resolve(rootID, toAlias)
	if !ok {
		return "", &core.LookupError{Alias: toAlias, Known: s.topology.Aliases(rootID)}
	}
	if s.topology.IsCleanedUp(targetID) {
		return "", &core.StaleTargetError{Alias: toAlias, SessionID: targetID}
	}

	msg := s.inbox.Send(fromSessionID, s.aliasFor(fromSessionID), targetID, body)

	if s.tracker.IsIdle(targetID) {
		s.supervise("wake "+toAlias, func() error {
			return s.engine.Wake(context.WithoutCancel(ctx), targetID, msg.FromAlias, body)
		})
	}

	return command.FormatSendResult(s.aliasFor(fromSessionID), s.Agents(fromSessionID), toAlias, body), nil
}

// Reply marks the given inbox indices handled for the session and returns the
// tool-result contract text quoting each message that actually transitioned.
// Repeated calls with the same indices confirm nothing the second time.
func (s *Swarm) Reply(ctx context.Context, sessionID string, indices []int) (string, error) {
	_ = ctx
	if s.host == nil {
		return "", core.ErrNoHost
	}
	if _, ok := s.topology.RootOf(sessionID); !ok {
		return "", fmt.Errorf("unknown session %s", sessionID)
	}

	receipts := s.inbox.MarkHandled(sessionID, indices)

	return command.FormatReplyResult(s.aliasFor(sessionID), s.Agents(sessionID), receipts), nil
}

// Broadcast is a send with no explicit recipient: it appends to the sender's
// status history instead of queuing a message, and returns the tool-result
// contract text.
func (s *Swarm) Broadcast(sessionID, status string) (string, error) {
	if s.host == nil {
		return "", core.ErrNoHost
	}
	if _, ok := s.topology.RootOf(sessionID); !ok {
		return "", fmt.Errorf("unknown session %s", sessionID)
	}

	s.topology.AppendStatus(sessionID, status)

	return command.FormatBroadcastResult(s.aliasFor(sessionID), s.Agents(sessionID), status), nil
}

// PipeOutput delivers a finished child's output to its caller exactly once,
// regardless of whether the caller is mid-turn, idle, or inside its own
// pre-idle checkpoint.
//
// Priority: an active caller outside its checkpoint gets the output injected
// immediately as a visible, non-reply-triggering message. Every other case
// stages the formatted output for the caller's checkpoint to consume; an idle
// caller is additionally woken so that checkpoint actually fires.
func (s *Swarm) PipeOutput(ctx context.Context, callerID, senderAlias, body string) error {
	if s.host == nil {
		return core.ErrNoHost
	}

	formatted := command.FormatSubagentOutput(senderAlias, body)

	status, _ := s.tracker.Status(callerID)
	if status == core.StatusActive && !s.pending.InCheckpoint(callerID) {
		if s.pending.MarkDelivered(callerID) {
			// Immediate path won: any staged entry for this caller is void.
			s.pending.Drop(callerID)
			_, err := s.host.Prompt(ctx, callerID, core.PromptRequest{
				Parts:   core.TextParts(formatted),
				NoReply: true,
			})
			if err != nil {
				return &core.DeliveryError{SessionID: callerID, Err: err}
			}
			s.logger.Debug("output delivered immediately", "caller", callerID, "sender", senderAlias)
			return nil
		}
	}

	s.pending.Stage(pending.Output{SessionID: callerID, SenderAlias: senderAlias, Body: formatted})
	s.logger.Debug("output staged for checkpoint", "caller", callerID, "sender", senderAlias)

	if s.tracker.IsIdle(callerID) {
		s.supervise("pipe wake "+senderAlias, func() error {
			return s.engine.Wake(context.WithoutCancel(ctx), callerID, senderAlias, "")
		})
	}

	return nil
}
