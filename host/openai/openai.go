// Package openai provides a host adapter over the OpenAI Chat Completions
// API. Each coordinated session maps to its own message transcript; a prompt
// call runs one turn, honoring the lifecycle hooks (context injection,
// pre-idle checkpoint, turn-completed) the coordinator binds.
package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentswarm/core"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI host adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	System              string
}

// Host drives agent turns over the OpenAI Chat Completions API. It
// implements core.Host and core.HookBinder.
type Host struct {
	client *openai.Client
	opts   Options

	mu          sync.Mutex
	transcripts map[string][]openai.ChatCompletionMessageParamUnion
	hooks       core.Hooks
}

// NewHost creates a new OpenAI host using the official client.
func NewHost(optFns ...func(o *Options)) *Host {
	client := openai.NewClient()
	return NewHostFromClient(&client, optFns...)
}

// NewHostFromClient creates a new OpenAI host from an existing client.
func NewHostFromClient(client *openai.Client, optFns ...func(o *Options)) *Host {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Host{
		client:      client,
		opts:        opts,
		transcripts: make(map[string][]openai.ChatCompletionMessageParamUnion),
	}
}

// BindHooks implements core.HookBinder.
func (h *Host) BindHooks(hooks core.Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = hooks
}

func (h *Host) appendMessage(sessionID string, msg openai.ChatCompletionMessageParamUnion) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transcripts[sessionID] = append(h.transcripts[sessionID], msg)
}

func (h *Host) messages(sessionID string) []openai.ChatCompletionMessageParamUnion {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []openai.ChatCompletionMessageParamUnion
	if h.opts.System != "" {
		out = append(out, openai.SystemMessage(h.opts.System))
	}
	out = append(out, h.transcripts[sessionID]...)
	return out
}

func (h *Host) currentHooks() core.Hooks {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks
}

// Prompt implements core.Host. With NoReply the message only persists in the
// session transcript. Otherwise it runs one full turn: passive context
// injection, a Chat Completions call, and the pre-idle checkpoint loop,
// returning the turn's final assistant text.
func (h *Host) Prompt(ctx context.Context, sessionID string, req core.PromptRequest) (string, error) {
	text := core.JoinText(req.Parts)
	if text != "" {
		h.appendMessage(sessionID, openai.UserMessage(text))
	}

	if req.NoReply {
		return "", nil
	}

	hooks := h.currentHooks()
	var final string

	for {
		if hooks != nil {
			if parts := hooks.Inject(sessionID); len(parts) > 0 {
				h.appendMessage(sessionID, openai.UserMessage(core.JoinText(parts)))
			}
		}

		reply, err := h.complete(ctx, sessionID, req.Model)
		if err != nil {
			return "", err
		}
		final = reply
		h.appendMessage(sessionID, openai.AssistantMessage(reply))

		if hooks == nil {
			break
		}
		next, resumeTurn := hooks.PreIdle(sessionID)
		if !resumeTurn {
			break
		}
		h.appendMessage(sessionID, openai.UserMessage(next))
	}

	if hooks != nil {
		hooks.TurnCompleted(sessionID)
	}

	return final, nil
}

// complete performs one Chat Completions call over the session transcript.
func (h *Host) complete(ctx context.Context, sessionID, modelOverride string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:               h.opts.Model,
		Messages:            h.messages(sessionID),
		Temperature:         openai.Float(h.opts.Temperature),
		MaxCompletionTokens: openai.Int(h.opts.MaxCompletionTokens),
	}
	if modelOverride != "" {
		params.Model = modelOverride
	}

	resp, err := h.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
