package matchmaking

import (
	"sort"
	"sync"
	"time"
)

// QueueStore holds the set of users currently waiting for a match. All
// operations are independently atomic; Snapshot is copy-on-read so the
// scheduler's view is decoupled from concurrent joins and leaves.
type QueueStore interface {
	Join(entry *QueueEntry) error
	Leave(userID int64) error
	Snapshot() []*QueueEntry
	CommitMatch(userID1, userID2 int64, matchID string) error
	Status(userID int64) *QueueStatusInfo
	Len() int
}

type memoryQueueStore struct {
	mu      sync.RWMutex
	waiting map[int64]*QueueEntry
	now     func() time.Time
}

// NewQueueStore creates an in-memory queue store.
func NewQueueStore() QueueStore {
	return &memoryQueueStore{
		waiting: make(map[int64]*QueueEntry),
		now:     time.Now,
	}
}

func (q *memoryQueueStore) Join(entry *QueueEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.waiting[entry.UserID]; ok {
		return ErrAlreadyInQueue
	}

	e := *entry
	e.Status = StatusWaiting
	e.EnteredAt = q.now()
	e.MatchID = nil
	q.waiting[entry.UserID] = &e

	entry.Status = e.Status
	entry.EnteredAt = e.EnteredAt
	return nil
}

func (q *memoryQueueStore) Leave(userID int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.waiting[userID]
	if !ok {
		return ErrNotInQueue
	}

	entry.Status = StatusLeft
	delete(q.waiting, userID)
	return nil
}

// Snapshot returns an independent copy of every WAITING entry. Mutations
// after the snapshot never corrupt an in-progress scheduler pass.
func (q *memoryQueueStore) Snapshot() []*QueueEntry {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entries := make([]*QueueEntry, 0, len(q.waiting))
	for _, entry := range q.waiting {
		e := *entry
		e.Interests = append([]string(nil), entry.Interests...)
		e.Languages = append([]string(nil), entry.Languages...)
		entries = append(entries, &e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EnteredAt.Before(entries[j].EnteredAt)
	})

	return entries
}

// CommitMatch transitions both entries from WAITING to MATCHED only if both
// are still waiting. A leave that won the race leaves the other entry
// untouched and the whole commit fails with ErrStaleEntry.
func (q *memoryQueueStore) CommitMatch(userID1, userID2 int64, matchID string) error {
	if userID1 == userID2 {
		return ErrStaleEntry
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	e1, ok1 := q.waiting[userID1]
	e2, ok2 := q.waiting[userID2]
	if !ok1 || !ok2 {
		return ErrStaleEntry
	}

	e1.Status = StatusMatched
	e1.MatchID = &matchID
	e2.Status = StatusMatched
	e2.MatchID = &matchID
	delete(q.waiting, userID1)
	delete(q.waiting, userID2)
	return nil
}

// Status reports whether the user is waiting and their first-in position.
func (q *memoryQueueStore) Status(userID int64) *QueueStatusInfo {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry, ok := q.waiting[userID]
	if !ok {
		return &QueueStatusInfo{InQueue: false}
	}

	position := 1
	for _, other := range q.waiting {
		if other.UserID != userID && other.EnteredAt.Before(entry.EnteredAt) {
			position++
		}
	}

	return &QueueStatusInfo{
		InQueue:   true,
		Position:  position,
		EnteredAt: entry.EnteredAt,
	}
}

func (q *memoryQueueStore) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.waiting)
}
