package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentswarm/core"
)

// PromptCall records one host injection observed by the scripted host.
type PromptCall struct {
	SessionID string
	Req       core.PromptRequest
}

// ScriptedHost is an in-memory core.Host for tests. Every Prompt call is
// recorded; replies are served from per-session queues. With RunHooks set
// (the default) a non-NoReply prompt behaves like a real host turn: context
// injection at the start, the pre-idle checkpoint loop, and the
// turn-completed signal at the end.
type ScriptedHost struct {
	mu      sync.Mutex
	hooks   core.Hooks
	calls   []PromptCall
	replies map[string][]string
	fail    map[string]error

	// RunHooks drives Inject/PreIdle/TurnCompleted around each turn.
	RunHooks bool

	// Handler, when set, replaces the default turn behavior entirely (the
	// call is still recorded). Useful for blocking or erroring scenarios.
	Handler func(ctx context.Context, sessionID string, req core.PromptRequest) (string, error)
}

// NewScriptedHost constructs a scripted host with hook driving enabled.
func NewScriptedHost() *ScriptedHost {
	return &ScriptedHost{
		RunHooks: true,
		replies:  make(map[string][]string),
		fail:     make(map[string]error),
	}
}

// BindHooks implements core.HookBinder.
func (h *ScriptedHost) BindHooks(hooks core.Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = hooks
}

// QueueReply enqueues assistant texts for the session's next turns. When the
// queue runs dry the host answers "ok".
func (h *ScriptedHost) QueueReply(sessionID string, texts ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replies[sessionID] = append(h.replies[sessionID], texts...)
}

// FailWith makes every subsequent prompt for the session fail.
func (h *ScriptedHost) FailWith(sessionID string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail[sessionID] = err
}

// Calls returns a copy of all recorded prompt calls.
func (h *ScriptedHost) Calls() []PromptCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]PromptCall, len(h.calls))
	copy(out, h.calls)
	return out
}

// CallsFor returns the recorded prompt calls targeting one session.
func (h *ScriptedHost) CallsFor(sessionID string) []PromptCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []PromptCall
	for _, c := range h.calls {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out
}

func (h *ScriptedHost) record(sessionID string, req core.PromptRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, PromptCall{SessionID: sessionID, Req: req})
}

func (h *ScriptedHost) nextReply(sessionID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.replies[sessionID]
	if len(q) == 0 {
		return "ok"
	}
	h.replies[sessionID] = q[1:]
	return q[0]
}

func (h *ScriptedHost) snapshot() (core.Hooks, func(context.Context, string, core.PromptRequest) (string, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks, h.Handler
}

// Prompt implements core.Host.
func (h *ScriptedHost) Prompt(ctx context.Context, sessionID string, req core.PromptRequest) (string, error) {
	h.record(sessionID, req)

	hooks, handler := h.snapshot()
	if handler != nil {
		return handler(ctx, sessionID, req)
	}

	h.mu.Lock()
	failErr := h.fail[sessionID]
	runHooks := h.RunHooks
	h.mu.Unlock()

	if failErr != nil {
		return "", failErr
	}
	if req.NoReply {
		return "", nil
	}
	if !runHooks || hooks == nil {
		return h.nextReply(sessionID), nil
	}

	// Drive the turn lifecycle like a real host: inject, run, checkpoint,
	// continue while the checkpoint resumes.
	hooks.Inject(sessionID)
	final := h.nextReply(sessionID)
	for {
		next, resumeTurn := hooks.PreIdle(sessionID)
		if !resumeTurn {
			break
		}
		h.record(sessionID, core.PromptRequest{Parts: core.TextParts(next)})
		final = h.nextReply(sessionID)
	}
	hooks.TurnCompleted(sessionID)

	return final, nil
}
