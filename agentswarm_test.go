package agentswarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/testutil"
)

func newTestSwarm(t *testing.T) (*Swarm, *testutil.ScriptedHost) {
	t.Helper()
	host := testutil.NewScriptedHost()
	s := New(func(o *Options) { o.Host = host })
	return s, host
}

func spawnAgent(t *testing.T, s *Swarm, callerID, alias string) string {
	t.Helper()
	_, err := s.Spawn(context.Background(), callerID, SpawnSpec{
		Alias:       alias,
		Prompt:      "work on " + alias,
		Description: "working on " + alias,
	})
	require.NoError(t, err)

	rootID, ok := s.topology.RootOf(callerID)
	require.True(t, ok)
	id, ok := s.topology.Resolve(rootID, alias)
	require.True(t, ok)
	return id
}

func TestSpawnRunsChildAndPipesOutput(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")

	out, err := s.Spawn(context.Background(), "root-1", SpawnSpec{
		Alias:       "researcher",
		Prompt:      "research the topic",
		Description: "digging into sources",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	s.Drain()

	agents := s.Agents("root-1")
	require.Len(t, agents, 1)
	assert.Equal(t, "researcher", agents[0].Alias)
	require.NotEmpty(t, agents[0].StatusHistory)
	assert.Equal(t, "spawned: digging into sources", agents[0].StatusHistory[0].Status)
	assert.Equal(t, "finished", agents[0].StatusHistory[len(agents[0].StatusHistory)-1].Status)

	childID := agents[0].SessionID
	assert.True(t, s.tracker.IsIdle(childID))
	assert.Equal(t, 0, s.PendingSpawns("root-1"))

	// The caller was active, so the output arrived as an immediate visible
	// injection rather than a staged entry.
	var piped []testutil.PromptCall
	for _, c := range host.CallsFor("root-1") {
		if c.Req.NoReply {
			piped = append(piped, c)
		}
	}
	require.Len(t, piped, 1)
	assert.Contains(t, core.JoinText(piped[0].Req.Parts), "Subagent researcher finished:\nok")
	assert.False(t, s.pending.HasStaged("root-1"))
}

func TestSpawnSecondOutputStagedUntilNextTurn(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")

	spawnAgent(t, s, "root-1", "researcher")
	spawnAgent(t, s, "root-1", "writer")
	s.Drain()

	// The first output consumed the per-round delivered mark, so the second
	// stays staged until the caller's own checkpoint picks it up.
	assert.True(t, s.pending.HasStaged("root-1"))

	_, err := host.Prompt(context.Background(), "root-1", core.PromptRequest{
		Parts: core.TextParts("carry on"),
	})
	require.NoError(t, err)

	var resumed bool
	for _, c := range host.CallsFor("root-1") {
		if core.JoinText(c.Req.Parts) == "Subagent writer finished:\nok" {
			resumed = true
		}
	}
	assert.True(t, resumed, "checkpoint should have resumed the turn with the staged output")
	assert.False(t, s.pending.HasStaged("root-1"))
	assert.True(t, s.tracker.IsIdle("root-1"))
}

func TestSendWakesIdleRecipient(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")

	researcherID := spawnAgent(t, s, "root-1", "researcher")
	writerID := spawnAgent(t, s, "root-1", "writer")
	s.Drain()
	require.True(t, s.tracker.IsIdle(writerID))

	callsBefore := len(host.CallsFor(writerID))

	out, err := s.Send(context.Background(), researcherID, "writer", "intro ready")
	require.NoError(t, err)
	assert.Contains(t, out, "You are: researcher")
	assert.Contains(t, out, `Sent to writer: "intro ready"`)
	s.Drain()

	calls := host.CallsFor(writerID)
	require.Greater(t, len(calls), callsBefore)
	wake := calls[callsBefore]
	assert.True(t, wake.Req.HideQueueBadge)
	text := core.JoinText(wake.Req.Parts)
	assert.Contains(t, text, "researcher")
	assert.NotContains(t, text, "intro ready")

	// The wake turn presented the message, so nothing is left to resume and
	// the recipient parked idle again.
	assert.Empty(t, s.inbox.NeedingResume(writerID))
	assert.Len(t, s.inbox.Unhandled(writerID), 1)
	assert.True(t, s.tracker.IsIdle(writerID))
}

func TestSendUnknownAlias(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")

	_, err := s.Send(context.Background(), "root-1", "ghost", "hello?")
	require.Error(t, err)

	var lookupErr *core.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "Agent 'ghost' not found in current pocket.", err.Error())

	// Failed sends mutate nothing and wake nobody.
	s.Drain()
	assert.Empty(t, host.Calls())
}

func TestReplyConfirmsOnce(t *testing.T) {
	s, _ := newTestSwarm(t)
	s.RegisterRoot("root-1")

	researcherID := spawnAgent(t, s, "root-1", "researcher")
	writerID := spawnAgent(t, s, "root-1", "writer")
	s.Drain()

	_, err := s.Send(context.Background(), researcherID, "writer", "intro ready")
	require.NoError(t, err)
	s.Drain()

	out, err := s.Reply(context.Background(), writerID, []int{1})
	require.NoError(t, err)
	assert.Contains(t, out, "You are: writer")
	assert.Contains(t, out, `Replied to researcher: "intro ready"`)

	out, err = s.Reply(context.Background(), writerID, []int{1})
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to reply to: the given messages were already handled.")
}

func TestBroadcastUpdatesStatusHistory(t *testing.T) {
	s, _ := newTestSwarm(t)
	s.RegisterRoot("root-1")

	researcherID := spawnAgent(t, s, "root-1", "researcher")
	spawnAgent(t, s, "root-1", "writer")
	s.Drain()

	out, err := s.Broadcast(researcherID, "drafting the outline")
	require.NoError(t, err)
	assert.Contains(t, out, `Status updated: "drafting the outline"`)
	assert.Contains(t, out, "- writer")

	// Broadcast queues nothing; it only appends to the sender's history,
	// where pocket-mates see it in their agent list.
	assert.Equal(t, 0, s.inbox.Len(researcherID))
	for _, a := range s.Agents("root-1") {
		if a.Alias != "researcher" {
			continue
		}
		last := a.StatusHistory[len(a.StatusHistory)-1]
		assert.Equal(t, "drafting the outline", last.Status)
	}
}

func TestCommandRoutesBareFormToCoordinator(t *testing.T) {
	s, _ := newTestSwarm(t)
	s.RegisterRoot("root-1")

	spawnAgent(t, s, "root-1", "researcher")
	spawnAgent(t, s, "root-1", "writer")
	s.Drain()

	out, err := s.Command(context.Background(), "root-1", "how is it going?")
	require.NoError(t, err)
	assert.Contains(t, out, `Sent to researcher: "how is it going?"`)
	s.Drain()
}

func TestCommandNoCoordinator(t *testing.T) {
	s, _ := newTestSwarm(t)
	s.RegisterRoot("root-1")

	_, err := s.Command(context.Background(), "root-1", "anyone there?")
	require.ErrorIs(t, err, ErrNoCoordinator)
	assert.Equal(t, "No coordinator agent has been spawned in this pocket.", err.Error())
}

func TestCommandCrossPocketTarget(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")
	s.RegisterRoot("root-2")

	spawnAgent(t, s, "root-1", "researcher")
	spawnAgent(t, s, "root-2", "editor")
	s.Drain()
	before := len(host.Calls())

	_, err := s.Command(context.Background(), "root-1", "@editor please review")
	require.Error(t, err)

	var isoErr *core.IsolationError
	require.ErrorAs(t, err, &isoErr)
	assert.Equal(t, "Agent 'editor' belongs to a different pocket.", err.Error())

	s.Drain()
	assert.Len(t, host.Calls(), before)
}

func TestCommandCleanedUpTarget(t *testing.T) {
	s, _ := newTestSwarm(t)
	s.RegisterRoot("root-1")

	writerID := spawnAgent(t, s, "root-1", "writer")
	s.Drain()
	s.MarkCleanedUp(writerID)

	_, err := s.Command(context.Background(), "root-1", "@writer still there?")
	require.Error(t, err)

	var staleErr *core.StaleTargetError
	require.ErrorAs(t, err, &staleErr)
	assert.Equal(t, "Agent 'writer' was already cleaned up.", err.Error())
	assert.Equal(t, 0, s.inbox.Len(writerID))
}

func TestPipeOutputIdleCallerStagesAndWakes(t *testing.T) {
	s, host := newTestSwarm(t)
	s.RegisterRoot("root-1")
	s.tracker.MarkIdle("root-1")

	err := s.PipeOutput(context.Background(), "root-1", "writer", "all done")
	require.NoError(t, err)
	s.Drain()

	var resumed bool
	for _, c := range host.CallsFor("root-1") {
		if core.JoinText(c.Req.Parts) == "Subagent writer finished:\nall done" {
			resumed = true
		}
	}
	assert.True(t, resumed, "wake checkpoint should have consumed the staged output")
	assert.False(t, s.pending.HasStaged("root-1"))
	assert.True(t, s.tracker.IsIdle("root-1"))
}

func TestNoHostFailsClosed(t *testing.T) {
	s := New()
	s.RegisterRoot("root-1")
	ctx := context.Background()

	_, err := s.Send(ctx, "root-1", "writer", "hi")
	assert.ErrorIs(t, err, core.ErrNoHost)

	_, err = s.Reply(ctx, "root-1", []int{1})
	assert.ErrorIs(t, err, core.ErrNoHost)

	_, err = s.Broadcast("root-1", "busy")
	assert.ErrorIs(t, err, core.ErrNoHost)

	_, err = s.Spawn(ctx, "root-1", SpawnSpec{Alias: "writer", Prompt: "write"})
	assert.ErrorIs(t, err, core.ErrNoHost)

	_, err = s.Command(ctx, "root-1", "@writer hi")
	assert.ErrorIs(t, err, core.ErrNoHost)

	assert.ErrorIs(t, s.PipeOutput(ctx, "root-1", "writer", "out"), core.ErrNoHost)
}
