// Package resume implements the wake engine: the component that transitions
// an idle session back to active, prompts it, and drains any backlog of
// messages the agent has never seen.
package resume

import (
	"context"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/inbox"
	"github.com/hupe1980/agentswarm/internal/util"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/session"
)

// DefaultWakeTemplate is the wake prompt when no override is configured. It
// deliberately omits the message body: the body reaches the agent through
// inbox presentation, never duplicated in the wake text.
const DefaultWakeTemplate = "New message from {{.Sender}}. Check your inbox."

// Engine wakes idle sessions and drains unread backlog. One wake is one host
// prompt awaited to turn completion; the backlog drain is an explicit work
// loop rather than recursion, popping one never-presented index per pass.
//
// Termination: each pass marks one previously-unpresented index presented
// before prompting again, and the presented set only grows and is bounded by
// the messages ever sent to the recipient, so the loop runs at most
// inbox-size times and no index is processed twice.
type Engine struct {
	host    core.Host
	inbox   *inbox.Store
	tracker *session.Tracker
	tmpl    string
	logger  logging.Logger
}

// Options configures an Engine.
type Options struct {
	// WakeTemplate renders the wake prompt; it receives {{.Sender}}.
	WakeTemplate string
	Logger       logging.Logger
}

// NewEngine constructs a resume engine over the given host and stores.
func NewEngine(host core.Host, ibx *inbox.Store, tracker *session.Tracker, optFns ...func(o *Options)) *Engine {
	opts := Options{WakeTemplate: DefaultWakeTemplate, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.WakeTemplate == "" {
		opts.WakeTemplate = DefaultWakeTemplate
	}
	return &Engine{host: host, inbox: ibx, tracker: tracker, tmpl: opts.WakeTemplate, logger: opts.Logger}
}

// Wake transitions the session to active, sends a short "new message arrived"
// prompt, awaits the triggered turn, parks the session idle again, and
// repeats while unhandled never-presented messages remain.
//
// The active flip commits before the prompt is sent; if the flip fails the
// session is already active (a concurrent wake or its own turn) and Wake
// returns without prompting. If the prompt itself fails the session is forced
// back to idle regardless, the error is logged, and the chain stops: fail
// open, no retry.
func (e *Engine) Wake(ctx context.Context, sessionID, senderAlias, body string) error {
	if e.host == nil {
		return core.ErrNoHost
	}

	_ = body // delivered via inbox presentation, never via the wake prompt

	for {
		if !e.tracker.MarkActive(sessionID) {
			e.logger.Debug("wake skipped, session already active", "session_id", sessionID)
			return nil
		}

		text, err := util.RenderTemplate(e.tmpl, map[string]any{"Sender": senderAlias})
		if err != nil {
			text = "New message arrived. Check your inbox."
		}

		start := time.Now()
		_, err = e.host.Prompt(ctx, sessionID, core.PromptRequest{
			Parts:          core.TextParts(text),
			HideQueueBadge: true,
		})
		e.tracker.MarkIdle(sessionID)

		if err != nil {
			e.logger.Error("wake prompt failed", "session_id", sessionID, "sender", senderAlias, "error", err)
			return &core.DeliveryError{SessionID: sessionID, Err: err}
		}
		e.logger.Debug("wake turn completed", "session_id", sessionID, "sender", senderAlias, "duration", time.Since(start))

		backlog := e.inbox.NeedingResume(sessionID)
		if len(backlog) == 0 {
			return nil
		}

		// Present before prompting again so the same index can never drive
		// two passes.
		next := backlog[0]
		e.inbox.MarkPresented(sessionID, next.Index)
		senderAlias = next.FromAlias
	}
}
