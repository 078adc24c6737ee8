package core

import "context"

// PromptRequest carries one host-level injection targeting a session.
type PromptRequest struct {
	// Parts is the ordered prompt content.
	Parts []Part
	// Agent optionally names the acting agent (shown by hosts that render it).
	Agent string
	// Model optionally overrides the host's default model for this turn.
	Model string
	// NoReply persists the message visibly without starting a new turn.
	NoReply bool
	// HideQueueBadge suppresses the host's queued-message indicator for short
	// control prompts such as wake notices.
	HideQueueBadge bool
}

// Host is the boundary to whatever drives agent turns. Prompt injects a
// message into the given session. With NoReply set the call returns
// immediately and the returned text is empty; otherwise it starts a new turn
// and blocks until that turn ends, returning the turn's final assistant text.
//
// Implementations must allow concurrent Prompt calls for different sessions
// but may assume at most one active turn per session at a time.
type Host interface {
	Prompt(ctx context.Context, sessionID string, req PromptRequest) (string, error)
}

// Hooks are the lifecycle callbacks a host invokes around the turns it runs.
// The coordinator implements these; hosts that support lifecycle signals
// accept them via HookBinder.
type Hooks interface {
	// Inject is called when a turn starts and returns extra context parts to
	// present passively to the agent (unread inbox messages).
	Inject(sessionID string) []Part

	// PreIdle is the pre-idle checkpoint, fired once per turn before the host
	// ends it. A true resume return keeps the session active and feeds next
	// as the following turn's prompt.
	PreIdle(sessionID string) (next string, resume bool)

	// TurnCompleted signals that a turn for the session has fully ended.
	TurnCompleted(sessionID string)
}

// HookBinder is implemented by hosts that can surface lifecycle signals.
type HookBinder interface {
	BindHooks(hooks Hooks)
}
