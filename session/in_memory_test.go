package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_GetOrCreate(t *testing.T) {
	store := NewInMemoryStore()

	created, err := store.GetOrCreate("")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "missing id must be generated")

	named, err := store.GetOrCreate("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", named.ID)

	again, err := store.GetOrCreate("sess-1")
	require.NoError(t, err)
	assert.Same(t, named, again, "live session must be returned by reference")
	assert.Equal(t, 2, store.Len())
}

func TestInMemoryStore_ExpirySweep(t *testing.T) {
	store := NewInMemoryStore(func(o *Options) {
		o.IdleTimeout = 30 * time.Minute
	})
	current := time.Now()
	store.now = func() time.Time { return current }

	_, err := store.GetOrCreate("idle")
	require.NoError(t, err)
	require.NoError(t, store.AppendTurn("idle", "q", "r", "gmail"))

	// Keep a second session fresh past the first one's expiry.
	current = current.Add(20 * time.Minute)
	_, err = store.GetOrCreate("active")
	require.NoError(t, err)

	current = current.Add(15 * time.Minute) // idle at 35m, active at 15m
	sess, err := store.GetOrCreate("active")
	require.NoError(t, err)
	assert.Equal(t, "active", sess.ID)
	assert.Equal(t, 1, store.Len(), "idle session should have been swept")

	// Recreating the swept id yields a fresh, empty session.
	revived, err := store.GetOrCreate("idle")
	require.NoError(t, err)
	assert.Zero(t, revived.Len())
}

func TestInMemoryStore_AccessWithinTimeoutPersists(t *testing.T) {
	store := NewInMemoryStore(func(o *Options) {
		o.IdleTimeout = 30 * time.Minute
	})
	current := time.Now()
	store.now = func() time.Time { return current }

	for i := 0; i < 4; i++ {
		current = current.Add(20 * time.Minute)
		sess, err := store.GetOrCreate("chatty")
		require.NoError(t, err)
		require.NoError(t, store.AppendTurn("chatty", fmt.Sprintf("q%d", i), fmt.Sprintf("r%d", i), "gmail"))
		assert.Equal(t, i+1, sess.Len())
	}

	sess, err := store.GetOrCreate("chatty")
	require.NoError(t, err)
	turns := sess.Turns()
	require.Len(t, turns, 4)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("q%d", i), turn.Query)
	}
	assert.Equal(t, "gmail", sess.LastAgent())
}

func TestInMemoryStore_AppendTurnRoundTrip(t *testing.T) {
	store := NewInMemoryStore()

	const n = 5
	for i := 0; i < n; i++ {
		agent := "gmail"
		if i == n-1 {
			agent = "weather"
		}
		require.NoError(t, store.AppendTurn("rt", fmt.Sprintf("q%d", i), fmt.Sprintf("r%d", i), agent))
	}

	sess, err := store.GetOrCreate("rt")
	require.NoError(t, err)
	turns := sess.Turns()
	require.Len(t, turns, n)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("q%d", i), turn.Query)
		assert.Equal(t, fmt.Sprintf("r%d", i), turn.Response)
	}
	assert.Equal(t, "weather", sess.LastAgent())
}
