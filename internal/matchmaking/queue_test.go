package matchmaking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnedithB/BellaDating-sub003/internal/matchmaking"
)

func waitingEntry(userID int64) *matchmaking.QueueEntry {
	return &matchmaking.QueueEntry{
		UserID:    userID,
		Intent:    matchmaking.IntentCasual,
		Gender:    matchmaking.GenderWoman,
		Age:       30,
		Interests: []string{"music"},
		Languages: []string{"en"},
	}
}

func TestQueueJoinRejectsDuplicate(t *testing.T) {
	q := matchmaking.NewQueueStore()

	require.NoError(t, q.Join(waitingEntry(1)))
	assert.ErrorIs(t, q.Join(waitingEntry(1)), matchmaking.ErrAlreadyInQueue)
	assert.Equal(t, 1, q.Len())
}

func TestQueueLeaveFailureIsIdempotent(t *testing.T) {
	q := matchmaking.NewQueueStore()

	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Leave(1))

	// Leaving twice yields the same error, not a crash
	assert.ErrorIs(t, q.Leave(1), matchmaking.ErrNotInQueue)
	assert.ErrorIs(t, q.Leave(1), matchmaking.ErrNotInQueue)
}

func TestQueueRejoinAfterLeave(t *testing.T) {
	q := matchmaking.NewQueueStore()

	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Leave(1))
	assert.NoError(t, q.Join(waitingEntry(1)))
}

func TestQueueSnapshotIsImmutableCopy(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Join(waitingEntry(2)))

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 2)

	// Queue mutations after the snapshot never corrupt the pass
	require.NoError(t, q.Leave(1))
	assert.Len(t, snapshot, 2)
	assert.Equal(t, matchmaking.StatusWaiting, snapshot[0].Status)

	// Mutating a snapshot entry does not leak into the store
	snapshot[1].Interests[0] = "changed"
	fresh := q.Snapshot()
	require.Len(t, fresh, 1)
	assert.Equal(t, "music", fresh[0].Interests[0])
}

func TestQueueSnapshotOrderedByEnteredAt(t *testing.T) {
	q := matchmaking.NewQueueStore()
	for id := int64(1); id <= 5; id++ {
		require.NoError(t, q.Join(waitingEntry(id)))
	}

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 5)
	for i := 1; i < len(snapshot); i++ {
		assert.False(t, snapshot[i].EnteredAt.Before(snapshot[i-1].EnteredAt))
	}
}

func TestQueueCommitMatch(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Join(waitingEntry(2)))

	require.NoError(t, q.CommitMatch(1, 2, "match-1"))

	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Status(1).InQueue)
	assert.False(t, q.Status(2).InQueue)
}

func TestQueueCommitMatchStaleEntry(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Join(waitingEntry(2)))

	// A leave that happens first always wins
	require.NoError(t, q.Leave(2))
	assert.ErrorIs(t, q.CommitMatch(1, 2, "match-1"), matchmaking.ErrStaleEntry)

	// The surviving entry is untouched and still waiting
	assert.True(t, q.Status(1).InQueue)
}

func TestQueueCommitMatchRejectsSelfMatch(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))

	assert.ErrorIs(t, q.CommitMatch(1, 1, "match-1"), matchmaking.ErrStaleEntry)
	assert.True(t, q.Status(1).InQueue)
}

func TestQueueCommitMatchConsumedEntryIsStale(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Join(waitingEntry(2)))
	require.NoError(t, q.Join(waitingEntry(3)))

	require.NoError(t, q.CommitMatch(1, 2, "match-1"))
	assert.ErrorIs(t, q.CommitMatch(2, 3, "match-2"), matchmaking.ErrStaleEntry)
	assert.True(t, q.Status(3).InQueue)
}

func TestQueueStatusPosition(t *testing.T) {
	q := matchmaking.NewQueueStore()
	require.NoError(t, q.Join(waitingEntry(1)))
	require.NoError(t, q.Join(waitingEntry(2)))
	require.NoError(t, q.Join(waitingEntry(3)))

	assert.Equal(t, 1, q.Status(1).Position)
	assert.Equal(t, 3, q.Status(3).Position)

	notQueued := q.Status(99)
	assert.False(t, notQueued.InQueue)
	assert.Zero(t, notQueued.Position)
}
