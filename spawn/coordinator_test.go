package spawn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_ResolveReleasesWaiter(t *testing.T) {
	c := NewCoordinator()
	h := c.Add("caller", "child", "worker")

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Resolve("child", "all done", nil)
	}()

	out, err := h.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "all done", out)
	assert.Equal(t, 0, c.PendingFor("caller"))
}

func TestCoordinator_ResolveIsIdempotent(t *testing.T) {
	c := NewCoordinator()
	c.Add("caller", "child", "worker")

	assert.True(t, c.Resolve("child", "out", nil))
	assert.False(t, c.Resolve("child", "again", nil))
	assert.False(t, c.Resolve("unknown", "", nil))
}

func TestCoordinator_ResolvePropagatesError(t *testing.T) {
	c := NewCoordinator()
	h := c.Add("caller", "child", "worker")

	boom := errors.New("child failed")
	c.Resolve("child", "", boom)

	_, err := h.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCoordinator_WaitHonorsContext(t *testing.T) {
	c := NewCoordinator()
	h := c.Add("caller", "child", "worker")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The pending entry survives: only Resolve clears it.
	assert.Equal(t, 1, c.PendingFor("caller"))
}

func TestCoordinator_SiblingSpawnsResolveIndependently(t *testing.T) {
	c := NewCoordinator()
	h1 := c.Add("caller", "child-1", "a")
	h2 := c.Add("caller", "child-2", "b")
	require.Equal(t, 2, c.PendingFor("caller"))

	// No ordering between siblings: resolving the second first is fine.
	c.Resolve("child-2", "second", nil)
	out, err := h2.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", out)
	assert.Equal(t, 1, c.PendingFor("caller"))

	select {
	case <-h1.Done():
		t.Fatal("sibling handle must not resolve")
	default:
	}
}
