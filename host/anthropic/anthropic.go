// Package anthropic provides a host adapter over the Anthropic Claude API.
// Each coordinated session maps to its own message transcript; a prompt call
// runs one turn, honoring the lifecycle hooks (context injection, pre-idle
// checkpoint, turn-completed) the coordinator binds.
package anthropic

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentswarm/core"
)

// Options configures the Anthropic host adapter (model id, temperature, max
// tokens, API key, system prompt). Extend via functional options to preserve
// stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	System      string
}

// Host drives agent turns over the Anthropic Messages API. It implements
// core.Host and core.HookBinder.
type Host struct {
	client *anthropic.Client
	opts   Options

	mu          sync.Mutex
	transcripts map[string][]anthropic.MessageParam
	hooks       core.Hooks
}

// NewHost creates a new Anthropic host using the official client.
func NewHost(optFns ...func(o *Options)) *Host {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Host{
		client:      &client,
		opts:        opts,
		transcripts: make(map[string][]anthropic.MessageParam),
	}
}

// NewHostFromClient creates a new Anthropic host from an existing client.
func NewHostFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Host {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Host{
		client:      client,
		opts:        opts,
		transcripts: make(map[string][]anthropic.MessageParam),
	}
}

// BindHooks implements core.HookBinder.
func (h *Host) BindHooks(hooks core.Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = hooks
}

func (h *Host) appendMessage(sessionID string, msg anthropic.MessageParam) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transcripts[sessionID] = append(h.transcripts[sessionID], msg)
}

func (h *Host) messages(sessionID string) []anthropic.MessageParam {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]anthropic.MessageParam, len(h.transcripts[sessionID]))
	copy(out, h.transcripts[sessionID])
	return out
}

func (h *Host) currentHooks() core.Hooks {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks
}

// Prompt implements core.Host. With NoReply the message only persists in the
// session transcript. Otherwise it runs one full turn: passive context
// injection, a Messages API call, and the pre-idle checkpoint loop, returning
// the turn's final assistant text.
func (h *Host) Prompt(ctx context.Context, sessionID string, req core.PromptRequest) (string, error) {
	text := core.JoinText(req.Parts)
	if text != "" {
		h.appendMessage(sessionID, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
	}

	if req.NoReply {
		return "", nil
	}

	hooks := h.currentHooks()
	var final string

	for {
		if hooks != nil {
			if parts := hooks.Inject(sessionID); len(parts) > 0 {
				h.appendMessage(sessionID, anthropic.NewUserMessage(anthropic.NewTextBlock(core.JoinText(parts))))
			}
		}

		reply, err := h.complete(ctx, sessionID, req.Model)
		if err != nil {
			return "", err
		}
		final = reply
		h.appendMessage(sessionID, anthropic.NewAssistantMessage(anthropic.NewTextBlock(reply)))

		if hooks == nil {
			break
		}
		next, resumeTurn := hooks.PreIdle(sessionID)
		if !resumeTurn {
			break
		}
		h.appendMessage(sessionID, anthropic.NewUserMessage(anthropic.NewTextBlock(next)))
	}

	if hooks != nil {
		hooks.TurnCompleted(sessionID)
	}

	return final, nil
}

// complete performs one Messages API call over the session transcript.
func (h *Host) complete(ctx context.Context, sessionID, modelOverride string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       h.opts.Model,
		Messages:    h.messages(sessionID),
		MaxTokens:   h.opts.MaxTokens,
		Temperature: anthropic.Float(h.opts.Temperature),
	}
	if modelOverride != "" {
		params.Model = anthropic.Model(modelOverride)
	}
	if h.opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: h.opts.System}}
	}

	resp, err := h.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var out string
	for _, block := range resp.Content {
		if block.Type == "text" {
			out += block.AsText().Text
		}
	}
	return out, nil
}
