package matchmaking

import (
	"context"
	"fmt"
)

// Default preference bounds applied when a user has never saved preferences.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 99
)

// PreferenceStore reads and writes per-user matching preferences, falling
// back to system defaults when none exist.
type PreferenceStore struct {
	repo Repository
}

// NewPreferenceStore creates a preference store on top of the repository.
func NewPreferenceStore(repo Repository) *PreferenceStore {
	return &PreferenceStore{repo: repo}
}

// DefaultPreferences returns the open defaults: full age range, unbounded
// radius, every gender and every intent acceptable.
func DefaultPreferences(userID int64) *MatchingPreferences {
	return &MatchingPreferences{
		UserID:                       userID,
		MinAge:                       DefaultMinAge,
		MaxAge:                       DefaultMaxAge,
		MaxRadiusKm:                  0,
		PreferredGenders:             append([]Gender(nil), AllGenders...),
		PreferredRelationshipIntents: append([]Intent(nil), AllIntents...),
	}
}

// Get returns the user's preferences, or the system defaults if none exist.
func (s *PreferenceStore) Get(ctx context.Context, userID int64) (*MatchingPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return DefaultPreferences(userID), nil
	}
	return prefs, nil
}

// Upsert merges the partial update into the stored preferences. Unspecified
// fields are never deleted.
func (s *PreferenceStore) Upsert(ctx context.Context, userID int64, partial *UpdatePreferencesDTO) (*MatchingPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if partial.MinAge != nil {
		prefs.MinAge = *partial.MinAge
	}
	if partial.MaxAge != nil {
		prefs.MaxAge = *partial.MaxAge
	}
	if partial.MaxRadiusKm != nil {
		prefs.MaxRadiusKm = *partial.MaxRadiusKm
	}
	if partial.PreferredGenders != nil {
		prefs.PreferredGenders = partial.PreferredGenders
	}
	if partial.PreferredRelationshipIntents != nil {
		prefs.PreferredRelationshipIntents = partial.PreferredRelationshipIntents
	}
	if partial.Interests != nil {
		prefs.Interests = partial.Interests
	}
	if partial.Languages != nil {
		prefs.Languages = partial.Languages
	}

	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func validatePreferences(prefs *MatchingPreferences) error {
	if prefs.MinAge < DefaultMinAge {
		return fmt.Errorf("%w: min_age must be at least %d", ErrValidation, DefaultMinAge)
	}
	if prefs.MinAge > prefs.MaxAge {
		return fmt.Errorf("%w: min_age cannot exceed max_age", ErrValidation)
	}
	if prefs.MaxRadiusKm < 0 {
		return fmt.Errorf("%w: max_radius_km cannot be negative", ErrValidation)
	}
	if len(prefs.PreferredGenders) == 0 {
		return fmt.Errorf("%w: preferred_genders cannot be empty", ErrValidation)
	}
	for _, g := range prefs.PreferredGenders {
		if !validGender(g) {
			return fmt.Errorf("%w: unknown gender %q", ErrValidation, g)
		}
	}
	for _, i := range prefs.PreferredRelationshipIntents {
		if !validIntent(i) {
			return fmt.Errorf("%w: unknown intent %q", ErrValidation, i)
		}
	}
	return nil
}
