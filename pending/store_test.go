package pending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ConsumeIsExactlyOnce(t *testing.T) {
	s := NewStore()

	s.Stage(Output{SessionID: "caller", SenderAlias: "worker", Body: "result"})
	require.True(t, s.HasStaged("caller"))

	outs := s.Consume("caller")
	require.Len(t, outs, 1)
	assert.Equal(t, "result", outs[0].Body)

	// The competing path finds nothing.
	assert.Empty(t, s.Consume("caller"))
	assert.False(t, s.HasStaged("caller"))
}

func TestStore_DropVoidsStagedEntry(t *testing.T) {
	s := NewStore()

	s.Stage(Output{SessionID: "caller", SenderAlias: "worker", Body: "result"})
	s.Drop("caller")

	assert.Empty(t, s.Consume("caller"))
}

func TestStore_CheckpointMarks(t *testing.T) {
	s := NewStore()

	assert.False(t, s.InCheckpoint("caller"))
	s.EnterCheckpoint("caller")
	assert.True(t, s.InCheckpoint("caller"))
	s.LeaveCheckpoint("caller")
	assert.False(t, s.InCheckpoint("caller"))
}

func TestStore_DeliveredGuardPerRound(t *testing.T) {
	s := NewStore()

	assert.True(t, s.MarkDelivered("caller"))
	assert.False(t, s.MarkDelivered("caller")) // second path loses the race
	assert.True(t, s.WasDelivered("caller"))

	s.ClearDelivered("caller")
	assert.False(t, s.WasDelivered("caller"))
	assert.True(t, s.MarkDelivered("caller")) // fresh round
}

func TestStore_MultipleStagedOutputsDrainTogether(t *testing.T) {
	s := NewStore()

	s.Stage(Output{SessionID: "caller", SenderAlias: "a", Body: "one"})
	s.Stage(Output{SessionID: "caller", SenderAlias: "b", Body: "two"})

	outs := s.Consume("caller")
	require.Len(t, outs, 2)
	assert.Equal(t, "one", outs[0].Body)
	assert.Equal(t, "two", outs[1].Body)
}
