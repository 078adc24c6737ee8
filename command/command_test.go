package command

import (
	"testing"
	"time"

	"github.com/hupe1980/agentswarm/core"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantTarget string
		wantBody   string
	}{
		{"targeted", "@writer please draft the intro", "writer", "please draft the intro"},
		{"bare routes to coordinator", "status update please", "", "status update please"},
		{"alias only", "@writer", "writer", ""},
		{"leading whitespace", "  @writer hi", "writer", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, body := Parse(tt.input)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestFormatSendResult(t *testing.T) {
	agents := []core.AgentRecord{
		{Alias: "writer", StatusHistory: []core.StatusEntry{{Status: "spawned: drafting", At: time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)}}},
		{Alias: "critic"},
	}

	out := FormatSendResult("researcher", agents, "writer", "intro ready")

	assert.Contains(t, out, "You are: researcher")
	assert.Contains(t, out, "- writer")
	assert.Contains(t, out, "    [09:30:00] spawned: drafting")
	assert.Contains(t, out, "- critic")
	assert.Contains(t, out, `Sent to writer: "intro ready"`)
}

func TestFormatReplyResult(t *testing.T) {
	receipts := []core.ReplyReceipt{{ID: "m1", From: "writer", Body: "need the sources"}}

	out := FormatReplyResult("researcher", nil, receipts)
	assert.Contains(t, out, "You are: researcher")
	assert.Contains(t, out, `Replied to writer: "need the sources"`)

	empty := FormatReplyResult("researcher", nil, nil)
	assert.Contains(t, empty, "already handled")
}

func TestFormatAgentList_Empty(t *testing.T) {
	assert.Equal(t, "No other agents in your pocket.", FormatAgentList(nil))
}

func TestFormatSubagentOutput(t *testing.T) {
	out := FormatSubagentOutput("worker", "result body")
	assert.Contains(t, out, "Subagent worker finished:")
	assert.Contains(t, out, "result body")
}
