// internal/matchmaking/service.go

package matchmaking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/AnnedithB/BellaDating-sub003/internal/common/utils"
)

const (
	statsCacheKey = "matchmaking:stats"
	statsCacheTTL = 10 * time.Second
)

// Service is the external surface of the matchmaking engine.
type Service interface {
	Join(ctx context.Context, userID int64, dto *JoinQueueDTO) (*JoinQueueResponse, error)
	Leave(ctx context.Context, userID int64) error
	Status(ctx context.Context, userID int64) (*QueueStatusResponse, error)
	FindMatches(ctx context.Context, userID int64, maxMatches int) ([]*ScoredCandidate, error)
	GetPreferences(ctx context.Context, userID int64) (*MatchingPreferences, error)
	UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*MatchingPreferences, error)
	History(ctx context.Context, userID int64, limit, offset int) (*MatchHistoryResponse, error)
	Stats(ctx context.Context) (*QueueStats, error)
}

type service struct {
	queue     QueueStore
	prefs     *PreferenceStore
	scorer    *Scorer
	repo      Repository
	resolver  ProfileResolver
	redis     *redis.Client
	threshold int
	tick      time.Duration
}

// NewService wires the queue API. redisClient may be nil; stats are then
// computed on every call.
func NewService(queue QueueStore, prefs *PreferenceStore, scorer *Scorer, repo Repository, resolver ProfileResolver, redisClient *redis.Client, config SchedulerConfig) Service {
	return &service{
		queue:     queue,
		prefs:     prefs,
		scorer:    scorer,
		repo:      repo,
		resolver:  resolver,
		redis:     redisClient,
		threshold: config.AcceptanceThreshold,
		tick:      config.TickInterval,
	}
}

func (s *service) Join(ctx context.Context, userID int64, dto *JoinQueueDTO) (*JoinQueueResponse, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	profile, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if !profile.Active {
		return nil, fmt.Errorf("%w: account is not eligible for matchmaking", ErrValidation)
	}

	entry := &QueueEntry{
		UserID:    userID,
		Intent:    Intent(dto.Intent),
		Gender:    Gender(dto.Gender),
		Age:       dto.Age,
		Location:  Location{Latitude: dto.Latitude, Longitude: dto.Longitude},
		Interests: dto.Interests,
		Languages: dto.Languages,
		Premium:   profile.Premium,
	}

	if err := s.queue.Join(entry); err != nil {
		return nil, err
	}
	RecordJoin()
	SetQueueDepth(s.queue.Len())

	info := s.queue.Status(userID)
	return &JoinQueueResponse{
		QueuePosition:     info.Position,
		EstimatedWaitTime: s.waitEstimate(info.Position),
	}, nil
}

func (s *service) Leave(ctx context.Context, userID int64) error {
	if err := s.queue.Leave(userID); err != nil {
		return err
	}
	RecordLeave()
	SetQueueDepth(s.queue.Len())
	return nil
}

func (s *service) Status(ctx context.Context, userID int64) (*QueueStatusResponse, error) {
	info := s.queue.Status(userID)

	_, matchesFound, err := s.repo.GetUserMatchHistory(ctx, userID, 1, 0)
	if err != nil {
		return nil, err
	}

	resp := &QueueStatusResponse{
		InQueue:      info.InQueue,
		MatchesFound: matchesFound,
	}
	if info.InQueue {
		resp.Position = info.Position
		resp.WaitTime = time.Since(info.EnteredAt).Round(time.Second).String()
	}
	return resp, nil
}

// FindMatches scores the requester against the current snapshot without
// committing anything. It is an explicit propose query, request-scoped and
// cancellable through ctx.
func (s *service) FindMatches(ctx context.Context, userID int64, maxMatches int) ([]*ScoredCandidate, error) {
	if maxMatches <= 0 {
		maxMatches = 10
	}

	snapshot := s.queue.Snapshot()

	var me *QueueEntry
	for _, entry := range snapshot {
		if entry.UserID == userID {
			me = entry
			break
		}
	}
	if me == nil {
		return nil, ErrNotInQueue
	}

	myPrefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []*ScoredCandidate
	for _, other := range snapshot {
		if other.UserID == userID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		otherPrefs, err := s.prefs.Get(ctx, other.UserID)
		if err != nil {
			continue
		}
		if !MutualMatch(me, myPrefs, other, otherPrefs) {
			continue
		}

		total, breakdown := s.scorer.Score(me, myPrefs, other, otherPrefs)
		if total < s.threshold {
			continue
		}
		candidates = append(candidates, &ScoredCandidate{
			UserID:    other.UserID,
			Total:     total,
			Breakdown: breakdown,
		})
	}

	sortCandidates(candidates)
	if len(candidates) > maxMatches {
		candidates = candidates[:maxMatches]
	}
	return candidates, nil
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*MatchingPreferences, error) {
	return s.prefs.Get(ctx, userID)
}

func (s *service) UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*MatchingPreferences, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.prefs.Upsert(ctx, userID, dto)
}

func (s *service) History(ctx context.Context, userID int64, limit, offset int) (*MatchHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	attempts, total, err := s.repo.GetUserMatchHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &MatchHistoryResponse{Total: total, Matches: make([]*MatchHistoryItem, 0, len(attempts))}
	for _, attempt := range attempts {
		otherID := attempt.User1ID
		if otherID == userID {
			otherID = attempt.User2ID
		}
		resp.Matches = append(resp.Matches, &MatchHistoryItem{
			MatchID:   attempt.ID,
			UserID:    otherID,
			Score:     attempt.TotalScore,
			CreatedAt: attempt.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) Stats(ctx context.Context) (*QueueStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	snapshot := s.queue.Snapshot()

	var totalWait time.Duration
	for _, entry := range snapshot {
		totalWait += time.Since(entry.EnteredAt)
	}
	var avgWait time.Duration
	if len(snapshot) > 0 {
		avgWait = totalWait / time.Duration(len(snapshot))
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	matchesToday, err := s.repo.CountMatchesSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	stats := &QueueStats{
		TotalInQueue:        len(snapshot),
		AverageWaitTime:     avgWait,
		AverageWaitSeconds:  avgWait.Seconds(),
		MatchesCreatedToday: matchesToday,
	}
	s.cacheStats(ctx, stats)
	return stats, nil
}

func (s *service) cachedStats(ctx context.Context) *QueueStats {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats QueueStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	stats.AverageWaitTime = time.Duration(stats.AverageWaitSeconds * float64(time.Second))
	return &stats
}

func (s *service) cacheStats(ctx context.Context, stats *QueueStats) {
	if s.redis == nil {
		return
	}
	if raw, err := json.Marshal(stats); err == nil {
		s.redis.Set(ctx, statsCacheKey, raw, statsCacheTTL)
	}
}

// waitEstimate is a coarse heuristic: roughly one pass per pair of
// positions ahead of the new entry.
func (s *service) waitEstimate(position int) string {
	ticks := position/2 + 1
	estimate := time.Duration(ticks) * s.tick
	if estimate < s.tick {
		estimate = s.tick
	}
	return estimate.Round(time.Second).String()
}

func sortCandidates(candidates []*ScoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Total > candidates[j].Total
	})
}
