package matchmaking

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists match history and matching preferences. Queue state
// itself is kept in the QueueStore; everything here survives restarts.
type Repository interface {
	// Match history
	CreateMatchAttempt(ctx context.Context, attempt *MatchAttempt) error
	GetUserMatchHistory(ctx context.Context, userID int64, limit, offset int) ([]*MatchAttempt, int64, error)
	CountMatchesSince(ctx context.Context, since time.Time) (int64, error)

	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*MatchingPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *MatchingPreferences) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the production repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateMatchAttempt(ctx context.Context, attempt *MatchAttempt) error {
	// Ensure user1_id < user2_id for consistency
	if attempt.User1ID > attempt.User2ID {
		attempt.User1ID, attempt.User2ID = attempt.User2ID, attempt.User1ID
	}

	query := `
        INSERT INTO match_attempts (
            id, user1_id, user2_id, total_score, breakdown
        ) VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		attempt.ID, attempt.User1ID, attempt.User2ID,
		attempt.TotalScore, attempt.Breakdown,
	).Scan(&attempt.CreatedAt)
}

func (r *postgresRepository) GetUserMatchHistory(ctx context.Context, userID int64, limit, offset int) ([]*MatchAttempt, int64, error) {
	var total int64
	countQuery := `
        SELECT COUNT(*) FROM match_attempts
        WHERE user1_id = $1 OR user2_id = $1
    `
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, user1_id, user2_id, total_score, breakdown, created_at
        FROM match_attempts
        WHERE user1_id = $1 OR user2_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var attempts []*MatchAttempt
	for rows.Next() {
		var attempt MatchAttempt
		if err := rows.StructScan(&attempt); err != nil {
			continue
		}
		attempts = append(attempts, &attempt)
	}

	return attempts, total, nil
}

func (r *postgresRepository) CountMatchesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM match_attempts WHERE created_at >= $1`
	err := r.db.GetContext(ctx, &count, query, since)
	return count, err
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*MatchingPreferences, error) {
	query := `
        SELECT user_id, min_age, max_age, max_radius_km,
               preferred_genders, preferred_intents, interests, languages
        FROM matching_preferences
        WHERE user_id = $1
    `

	var row struct {
		UserID      int64          `db:"user_id"`
		MinAge      int            `db:"min_age"`
		MaxAge      int            `db:"max_age"`
		MaxRadiusKm float64        `db:"max_radius_km"`
		Genders     pq.StringArray `db:"preferred_genders"`
		Intents     pq.StringArray `db:"preferred_intents"`
		Interests   pq.StringArray `db:"interests"`
		Languages   pq.StringArray `db:"languages"`
	}

	err := r.db.GetContext(ctx, &row, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefs := &MatchingPreferences{
		UserID:      row.UserID,
		MinAge:      row.MinAge,
		MaxAge:      row.MaxAge,
		MaxRadiusKm: row.MaxRadiusKm,
		Interests:   row.Interests,
		Languages:   row.Languages,
	}
	for _, g := range row.Genders {
		prefs.PreferredGenders = append(prefs.PreferredGenders, Gender(g))
	}
	for _, i := range row.Intents {
		prefs.PreferredRelationshipIntents = append(prefs.PreferredRelationshipIntents, Intent(i))
	}

	return prefs, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, prefs *MatchingPreferences) error {
	query := `
        INSERT INTO matching_preferences (
            user_id, min_age, max_age, max_radius_km,
            preferred_genders, preferred_intents, interests, languages
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id)
        DO UPDATE SET
            min_age = $2, max_age = $3, max_radius_km = $4,
            preferred_genders = $5, preferred_intents = $6,
            interests = $7, languages = $8,
            updated_at = CURRENT_TIMESTAMP
    `

	genders := make(pq.StringArray, 0, len(prefs.PreferredGenders))
	for _, g := range prefs.PreferredGenders {
		genders = append(genders, string(g))
	}
	intents := make(pq.StringArray, 0, len(prefs.PreferredRelationshipIntents))
	for _, i := range prefs.PreferredRelationshipIntents {
		intents = append(intents, string(i))
	}

	_, err := r.db.ExecContext(
		ctx, query,
		prefs.UserID, prefs.MinAge, prefs.MaxAge, prefs.MaxRadiusKm,
		genders, intents,
		pq.StringArray(prefs.Interests), pq.StringArray(prefs.Languages),
	)
	return err
}

// memoryRepository keeps everything in process. Used for development mode
// when no database is configured, and by the test suite.
type memoryRepository struct {
	mu       sync.RWMutex
	attempts []*MatchAttempt
	prefs    map[int64]*MatchingPreferences
}

// NewMemoryRepository creates an in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		prefs: make(map[int64]*MatchingPreferences),
	}
}

func (r *memoryRepository) CreateMatchAttempt(ctx context.Context, attempt *MatchAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attempt.User1ID > attempt.User2ID {
		attempt.User1ID, attempt.User2ID = attempt.User2ID, attempt.User1ID
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	stored := *attempt
	stored.Breakdown = append(json.RawMessage(nil), attempt.Breakdown...)
	r.attempts = append(r.attempts, &stored)
	return nil
}

func (r *memoryRepository) GetUserMatchHistory(ctx context.Context, userID int64, limit, offset int) ([]*MatchAttempt, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var involving []*MatchAttempt
	for _, attempt := range r.attempts {
		if attempt.User1ID == userID || attempt.User2ID == userID {
			involving = append(involving, attempt)
		}
	}

	sort.Slice(involving, func(i, j int) bool {
		return involving[i].CreatedAt.After(involving[j].CreatedAt)
	})

	total := int64(len(involving))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(involving) {
		return nil, total, nil
	}
	involving = involving[offset:]
	if limit > 0 && limit < len(involving) {
		involving = involving[:limit]
	}

	out := make([]*MatchAttempt, len(involving))
	for i, attempt := range involving {
		a := *attempt
		out[i] = &a
	}
	return out, total, nil
}

func (r *memoryRepository) CountMatchesSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, attempt := range r.attempts {
		if !attempt.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepository) GetPreferences(ctx context.Context, userID int64) (*MatchingPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	p := *prefs
	return &p, nil
}

func (r *memoryRepository) UpsertPreferences(ctx context.Context, prefs *MatchingPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *prefs
	r.prefs[prefs.UserID] = &p
	return nil
}
