package matchmaking

import (
	"encoding/json"
	"time"
)

// Gender is a user's own gender, not a preference.
type Gender string

const (
	GenderMan       Gender = "MAN"
	GenderWoman     Gender = "WOMAN"
	GenderNonbinary Gender = "NONBINARY"
)

// AllGenders lists every recognized gender value.
var AllGenders = []Gender{GenderMan, GenderWoman, GenderNonbinary}

// Intent is a user's declared relationship goal.
type Intent string

const (
	IntentCasual     Intent = "CASUAL"
	IntentFriends    Intent = "FRIENDS"
	IntentSerious    Intent = "SERIOUS"
	IntentNetworking Intent = "NETWORKING"
)

// AllIntents lists every recognized intent value.
var AllIntents = []Intent{IntentCasual, IntentFriends, IntentSerious, IntentNetworking}

// QueueStatus is the lifecycle state of a queue entry. MATCHED and LEFT
// are terminal; a new join always creates a fresh entry.
type QueueStatus string

const (
	StatusWaiting QueueStatus = "WAITING"
	StatusMatched QueueStatus = "MATCHED"
	StatusLeft    QueueStatus = "LEFT"
)

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// QueueEntry is one waiting user. At most one active entry exists per user.
type QueueEntry struct {
	UserID    int64       `json:"user_id"`
	Intent    Intent      `json:"intent"`
	Gender    Gender      `json:"gender"`
	Age       int         `json:"age"`
	Location  Location    `json:"location"`
	Interests []string    `json:"interests"`
	Languages []string    `json:"languages"`
	Premium   bool        `json:"premium"`
	Status    QueueStatus `json:"status"`
	EnteredAt time.Time   `json:"entered_at"`
	MatchID   *string     `json:"match_id,omitempty"`
}

// MatchingPreferences survive across queue sessions and are mutated only by
// explicit preference updates. Interests and languages are soft-scoring
// inputs, never hard filters.
type MatchingPreferences struct {
	UserID                       int64    `json:"user_id" db:"user_id"`
	MinAge                       int      `json:"min_age" db:"min_age"`
	MaxAge                       int      `json:"max_age" db:"max_age"`
	MaxRadiusKm                  float64  `json:"max_radius_km" db:"max_radius_km"`
	PreferredGenders             []Gender `json:"preferred_genders"`
	PreferredRelationshipIntents []Intent `json:"preferred_relationship_intents"`
	Interests                    []string `json:"interests"`
	Languages                    []string `json:"languages"`
}

// AcceptsGender reports whether g is in the preferred set.
func (p *MatchingPreferences) AcceptsGender(g Gender) bool {
	for _, pg := range p.PreferredGenders {
		if pg == g {
			return true
		}
	}
	return false
}

// AcceptsIntent reports whether i is acceptable. An empty set accepts any.
func (p *MatchingPreferences) AcceptsIntent(i Intent) bool {
	if len(p.PreferredRelationshipIntents) == 0 {
		return true
	}
	for _, pi := range p.PreferredRelationshipIntents {
		if pi == i {
			return true
		}
	}
	return false
}

// CompatibilityBreakdown holds the per-factor sub-scores, each in [0,100]
// before weighting.
type CompatibilityBreakdown struct {
	AgeCompatibility       float64 `json:"age_compatibility"`
	LocationCompatibility  float64 `json:"location_compatibility"`
	InterestCompatibility  float64 `json:"interest_compatibility"`
	LanguageCompatibility  float64 `json:"language_compatibility"`
	GenderCompatibility    float64 `json:"gender_compatibility"`
	IntentCompatibility    float64 `json:"intent_compatibility"`
	LifestyleCompatibility float64 `json:"lifestyle_compatibility"`
}

// MatchAttempt is the immutable audit record of one committed pairing.
type MatchAttempt struct {
	ID         string          `json:"id" db:"id"`
	User1ID    int64           `json:"user1_id" db:"user1_id"`
	User2ID    int64           `json:"user2_id" db:"user2_id"`
	TotalScore int             `json:"total_score" db:"total_score"`
	Breakdown  json.RawMessage `json:"breakdown,omitempty" db:"breakdown"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// QueueStatusInfo is the answer to a status query.
type QueueStatusInfo struct {
	InQueue   bool      `json:"in_queue"`
	Position  int       `json:"position"`
	EnteredAt time.Time `json:"entered_at,omitempty"`
}

// ScoredPair is a mutually eligible candidate pair with its score.
type ScoredPair struct {
	A         *QueueEntry             `json:"-"`
	B         *QueueEntry             `json:"-"`
	Total     int                     `json:"total_score"`
	Breakdown *CompatibilityBreakdown `json:"breakdown"`
}

// ScoredCandidate is one ranked result of an on-demand find-matches query.
type ScoredCandidate struct {
	UserID    int64                   `json:"user_id"`
	Total     int                     `json:"total_score"`
	Breakdown *CompatibilityBreakdown `json:"breakdown"`
}

// QueueStats is the admin-facing snapshot of queue health.
type QueueStats struct {
	TotalInQueue        int           `json:"total_in_queue"`
	AverageWaitTime     time.Duration `json:"-"`
	AverageWaitSeconds  float64       `json:"average_wait_seconds"`
	MatchesCreatedToday int64         `json:"matches_created_today"`
}

func validGender(g Gender) bool {
	for _, v := range AllGenders {
		if v == g {
			return true
		}
	}
	return false
}

func validIntent(i Intent) bool {
	for _, v := range AllIntents {
		if v == i {
			return true
		}
	}
	return false
}
