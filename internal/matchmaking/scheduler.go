package matchmaking

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const schedulerLockKey = "matchmaking:scheduler:lock"

// SchedulerConfig controls the periodic matching pass.
type SchedulerConfig struct {
	TickInterval        time.Duration
	AcceptanceThreshold int
	LockTTL             time.Duration
}

// DefaultSchedulerConfig returns the reference settings: a 5 second tick
// and a threshold of 70.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TickInterval:        5 * time.Second,
		AcceptanceThreshold: 70,
		LockTTL:             30 * time.Second,
	}
}

// Pairer selects a disjoint subset of scored pairs to commit. Pairs arrive
// sorted best-first; each user must appear in at most one returned pair.
type Pairer func(pairs []*ScoredPair) []*ScoredPair

// GreedyPairer walks the sorted list and takes every pair whose users have
// not been consumed earlier in the same pass. Maximal, not globally
// optimal, and O(n) over the candidate list.
func GreedyPairer(pairs []*ScoredPair) []*ScoredPair {
	taken := make(map[int64]bool, len(pairs))
	var selected []*ScoredPair
	for _, pair := range pairs {
		if taken[pair.A.UserID] || taken[pair.B.UserID] {
			continue
		}
		taken[pair.A.UserID] = true
		taken[pair.B.UserID] = true
		selected = append(selected, pair)
	}
	return selected
}

// Scheduler drives the periodic matching pass: snapshot the queue, filter
// and score candidate pairs, and greedily commit the best disjoint
// pairings. Exactly one scheduler must be active per deployment; the
// optional Redis lease enforces that when horizontally scaled.
type Scheduler struct {
	queue  QueueStore
	prefs  *PreferenceStore
	scorer *Scorer
	repo   Repository
	redis  *redis.Client
	pairer Pairer
	config SchedulerConfig

	instanceID string
	inFlight   int32
}

// NewScheduler wires the matching pass. redisClient may be nil for
// single-instance deployments.
func NewScheduler(queue QueueStore, prefs *PreferenceStore, scorer *Scorer, repo Repository, redisClient *redis.Client, config SchedulerConfig) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultSchedulerConfig().TickInterval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultSchedulerConfig().LockTTL
	}
	return &Scheduler{
		queue:      queue,
		prefs:      prefs,
		scorer:     scorer,
		repo:       repo,
		redis:      redisClient,
		pairer:     GreedyPairer,
		config:     config,
		instanceID: uuid.New().String(),
	}
}

// SetPairer swaps the pair-selection strategy. Must be called before Start.
func (s *Scheduler) SetPairer(pairer Pairer) {
	if pairer != nil {
		s.pairer = pairer
	}
}

// Start runs ticks on a fixed interval until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick executes one matching pass. A tick that is still running when the
// next is due is skipped, and a tick that cannot take the cluster lease is
// skipped too.
func (s *Scheduler) Tick(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.inFlight, 0, 1) {
		RecordTickSkipped("in_flight")
		return
	}
	defer atomic.StoreInt32(&s.inFlight, 0)

	if !s.acquireLease(ctx) {
		RecordTickSkipped("lease")
		return
	}
	defer s.releaseLease(ctx)

	started := time.Now()
	committed := s.runPass(ctx)
	ObserveTickDuration(time.Since(started))

	if committed > 0 {
		log.Printf("matchmaking tick committed %d matches in %s", committed, time.Since(started))
	}
}

// runPass is the SCANNING → SCORING → COMMITTING pipeline for one tick.
func (s *Scheduler) runPass(ctx context.Context) int {
	// SCANNING: copy-on-read snapshot decouples the pass from concurrent
	// joins and leaves.
	snapshot := s.queue.Snapshot()
	SetQueueDepth(s.queue.Len())
	if len(snapshot) < 2 {
		return 0
	}

	prefs := s.loadPreferences(ctx, snapshot)

	// SCORING: mutual hard filter, then weighted scoring, then threshold.
	candidates := s.scorePairs(snapshot, prefs)
	if len(candidates) == 0 {
		return 0
	}

	sortPairs(candidates)

	// COMMITTING: greedy disjoint selection, conditional commit per pair.
	committed := 0
	for _, pair := range s.pairer(candidates) {
		if err := s.commitPair(ctx, pair); err != nil {
			if err == ErrStaleEntry {
				// Raced with a leave or prior match; the survivor is
				// reconsidered next tick.
				RecordStaleCommit()
				continue
			}
			log.Printf("matchmaking: commit failed for pair (%d,%d): %v", pair.A.UserID, pair.B.UserID, err)
			continue
		}
		committed++
	}

	return committed
}

func (s *Scheduler) loadPreferences(ctx context.Context, snapshot []*QueueEntry) map[int64]*MatchingPreferences {
	prefs := make(map[int64]*MatchingPreferences, len(snapshot))
	for _, entry := range snapshot {
		p, err := s.prefs.Get(ctx, entry.UserID)
		if err != nil {
			log.Printf("matchmaking: preferences lookup failed for user %d, using defaults: %v", entry.UserID, err)
			p = DefaultPreferences(entry.UserID)
		}
		prefs[entry.UserID] = p
	}
	return prefs
}

func (s *Scheduler) scorePairs(snapshot []*QueueEntry, prefs map[int64]*MatchingPreferences) []*ScoredPair {
	var candidates []*ScoredPair
	for i := 0; i < len(snapshot); i++ {
		for j := i + 1; j < len(snapshot); j++ {
			a, b := snapshot[i], snapshot[j]
			prefsA, prefsB := prefs[a.UserID], prefs[b.UserID]

			if !MutualMatch(a, prefsA, b, prefsB) {
				continue
			}

			total, breakdown, ok := s.safeScore(a, prefsA, b, prefsB)
			if !ok {
				continue
			}
			RecordCompatibilityScore(total)
			if total < s.config.AcceptanceThreshold {
				continue
			}

			candidates = append(candidates, &ScoredPair{A: a, B: b, Total: total, Breakdown: breakdown})
		}
	}
	return candidates
}

// safeScore isolates a single pair's scoring failure so one bad pair never
// aborts the tick.
func (s *Scheduler) safeScore(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) (total int, breakdown *CompatibilityBreakdown, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("matchmaking: scoring pair (%d,%d) panicked, skipping: %v", a.UserID, b.UserID, r)
			ok = false
		}
	}()

	total, breakdown = s.scorer.Score(a, prefsA, b, prefsB)
	return total, breakdown, true
}

// sortPairs orders candidates by score descending, premium membership
// descending, then earliest combined enteredAt so older waiters match
// first.
func sortPairs(pairs []*ScoredPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Total != pairs[j].Total {
			return pairs[i].Total > pairs[j].Total
		}
		pi, pj := premiumCount(pairs[i]), premiumCount(pairs[j])
		if pi != pj {
			return pi > pj
		}
		return combinedEnteredAt(pairs[i]).Before(combinedEnteredAt(pairs[j]))
	})
}

func premiumCount(pair *ScoredPair) int {
	count := 0
	if pair.A.Premium {
		count++
	}
	if pair.B.Premium {
		count++
	}
	return count
}

func combinedEnteredAt(pair *ScoredPair) time.Time {
	if pair.A.EnteredAt.Before(pair.B.EnteredAt) {
		return pair.A.EnteredAt
	}
	return pair.B.EnteredAt
}

func (s *Scheduler) commitPair(ctx context.Context, pair *ScoredPair) error {
	matchID := uuid.New().String()

	if err := s.queue.CommitMatch(pair.A.UserID, pair.B.UserID, matchID); err != nil {
		return err
	}

	breakdownJSON, _ := json.Marshal(pair.Breakdown)
	attempt := &MatchAttempt{
		ID:         matchID,
		User1ID:    pair.A.UserID,
		User2ID:    pair.B.UserID,
		TotalScore: pair.Total,
		Breakdown:  breakdownJSON,
	}

	if err := s.repo.CreateMatchAttempt(ctx, attempt); err != nil {
		// The match already left the queue; losing the audit row is logged,
		// not fatal to the tick.
		log.Printf("matchmaking: recording match %s failed: %v", matchID, err)
	}

	RecordMatchCommitted()
	return nil
}

// acquireLease takes the cluster-wide tick lease. Without Redis the single
// local instance is implicitly the leader.
func (s *Scheduler) acquireLease(ctx context.Context) bool {
	if s.redis == nil {
		return true
	}

	ok, err := s.redis.SetNX(ctx, schedulerLockKey, s.instanceID, s.config.LockTTL).Result()
	if err != nil {
		log.Printf("matchmaking: scheduler lease check failed, skipping tick: %v", err)
		return false
	}
	return ok
}

// releaseLeaseScript deletes the lease only while this instance still holds
// it, so a lease that expired and was re-acquired elsewhere is never removed.
var releaseLeaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (s *Scheduler) releaseLease(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := releaseLeaseScript.Run(ctx, s.redis, []string{schedulerLockKey}, s.instanceID).Err(); err != nil {
		log.Printf("matchmaking: scheduler lease release failed: %v", err)
	}
}
