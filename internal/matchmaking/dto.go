// internal/matchmaking/dto.go
package matchmaking

import "time"

// DTOs for API requests/responses

type JoinQueueDTO struct {
	Intent    string   `json:"intent" validate:"required,oneof=CASUAL FRIENDS SERIOUS NETWORKING"`
	Gender    string   `json:"gender" validate:"required,oneof=MAN WOMAN NONBINARY"`
	Age       int      `json:"age" validate:"required,min=18,max=120"`
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Interests []string `json:"interests,omitempty" validate:"omitempty,max=30,dive,min=1,max=60"`
	Languages []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,min=2,max=8"`
}

type JoinQueueResponse struct {
	QueuePosition     int    `json:"queue_position"`
	EstimatedWaitTime string `json:"estimated_wait_time"`
}

type QueueStatusResponse struct {
	InQueue      bool   `json:"in_queue"`
	Position     int    `json:"position,omitempty"`
	WaitTime     string `json:"wait_time,omitempty"`
	MatchesFound int64  `json:"matches_found"`
}

type UpdatePreferencesDTO struct {
	MinAge                       *int     `json:"min_age,omitempty" validate:"omitempty,min=18,max=120"`
	MaxAge                       *int     `json:"max_age,omitempty" validate:"omitempty,min=18,max=120"`
	MaxRadiusKm                  *float64 `json:"max_radius_km,omitempty" validate:"omitempty,min=0"`
	PreferredGenders             []Gender `json:"preferred_genders,omitempty"`
	PreferredRelationshipIntents []Intent `json:"preferred_relationship_intents,omitempty"`
	Interests                    []string `json:"interests,omitempty" validate:"omitempty,max=30"`
	Languages                    []string `json:"languages,omitempty" validate:"omitempty,max=20"`
}

type FindMatchesResponse struct {
	Matches []*ScoredCandidate `json:"matches"`
}

type MatchHistoryItem struct {
	MatchID   string    `json:"match_id"`
	UserID    int64     `json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type MatchHistoryResponse struct {
	Matches []*MatchHistoryItem `json:"matches"`
	Total   int64               `json:"total"`
}
