package session

import (
	"testing"

	"github.com/hupe1980/agentswarm/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_InitialStateActive(t *testing.T) {
	tr := NewTracker()
	tr.Track("s1")

	st, ok := tr.Status("s1")
	require.True(t, ok)
	assert.Equal(t, core.StatusActive, st)
	assert.False(t, tr.IsIdle("s1"))
}

func TestTracker_MarkActiveReportsTransition(t *testing.T) {
	tr := NewTracker()
	tr.Track("s1")

	// Already active: no transition, a wake must not be issued.
	assert.False(t, tr.MarkActive("s1"))

	tr.MarkIdle("s1")
	assert.True(t, tr.IsIdle("s1"))

	// First waker wins the flip; a concurrent second waker backs off.
	assert.True(t, tr.MarkActive("s1"))
	assert.False(t, tr.MarkActive("s1"))
}

func TestTracker_LastActivityUpdatesOnTransitions(t *testing.T) {
	tr := NewTracker()
	tr.Track("s1")

	first, ok := tr.LastActivity("s1")
	require.True(t, ok)

	tr.MarkIdle("s1")
	second, _ := tr.LastActivity("s1")
	assert.False(t, second.Before(first))

	// Idempotent MarkIdle is not a transition.
	tr.MarkIdle("s1")
	third, _ := tr.LastActivity("s1")
	assert.Equal(t, second, third)
}

func TestTracker_UnknownSession(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Status("ghost")
	assert.False(t, ok)
	assert.False(t, tr.IsIdle("ghost"))
}
