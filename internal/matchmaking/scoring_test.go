package matchmaking_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnedithB/BellaDating-sub003/internal/matchmaking"
)

func newTestScorer() *matchmaking.Scorer {
	return matchmaking.NewScorer(matchmaking.DefaultScoreWeights(), matchmaking.DefaultReferenceDistanceKm)
}

func entry(userID int64, gender matchmaking.Gender, age int, intent matchmaking.Intent, lat, lng float64) *matchmaking.QueueEntry {
	return &matchmaking.QueueEntry{
		UserID:   userID,
		Gender:   gender,
		Age:      age,
		Intent:   intent,
		Location: matchmaking.Location{Latitude: lat, Longitude: lng},
	}
}

func prefsFor(userID int64, genders ...matchmaking.Gender) *matchmaking.MatchingPreferences {
	p := matchmaking.DefaultPreferences(userID)
	if len(genders) > 0 {
		p.PreferredGenders = genders
	}
	return p
}

func TestScoreIsBounded(t *testing.T) {
	scorer := newTestScorer()

	cases := []struct {
		name string
		a, b *matchmaking.QueueEntry
	}{
		{"identical users", entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0), entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)},
		{"max age gap", entry(1, matchmaking.GenderMan, 18, matchmaking.IntentSerious, 51.5, -0.1), entry(2, matchmaking.GenderNonbinary, 99, matchmaking.IntentNetworking, -33.8, 151.2)},
		{"antipodal locations", entry(1, matchmaking.GenderWoman, 40, matchmaking.IntentFriends, 90, 0), entry(2, matchmaking.GenderMan, 40, matchmaking.IntentFriends, -90, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, breakdown := scorer.Score(tc.a, prefsFor(tc.a.UserID), tc.b, prefsFor(tc.b.UserID))
			assert.GreaterOrEqual(t, total, 0)
			assert.LessOrEqual(t, total, 100)
			require.NotNil(t, breakdown)
		})
	}
}

func TestScoreWeightedSumInvariant(t *testing.T) {
	scorer := newTestScorer()
	weights := matchmaking.DefaultScoreWeights()

	a := entry(1, matchmaking.GenderMan, 28, matchmaking.IntentCasual, 51.5, -0.12)
	a.Interests = []string{"music", "hiking"}
	a.Languages = []string{"en"}
	b := entry(2, matchmaking.GenderWoman, 26, matchmaking.IntentCasual, 51.5, -0.13)
	b.Interests = []string{"music", "cooking"}
	b.Languages = []string{"en", "fr"}

	total, breakdown := scorer.Score(a, prefsFor(1, matchmaking.GenderWoman), b, prefsFor(2, matchmaking.GenderMan))

	weighted := (breakdown.GenderCompatibility*weights.Gender +
		breakdown.LocationCompatibility*weights.Location +
		breakdown.AgeCompatibility*weights.Age +
		breakdown.IntentCompatibility*weights.Intent +
		breakdown.InterestCompatibility*weights.Interests +
		breakdown.LifestyleCompatibility*weights.Lifestyle +
		breakdown.LanguageCompatibility*weights.Languages) / 100

	assert.InDelta(t, weighted, float64(total), 1.0)
}

func TestGenderScoreRewardsExactPreference(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)

	// Single-entry preference sets on both sides
	_, exact := scorer.Score(a, prefsFor(1, matchmaking.GenderWoman), b, prefsFor(2, matchmaking.GenderMan))
	assert.Equal(t, 100.0, exact.GenderCompatibility)

	// Broad preference sets score lower
	_, broad := scorer.Score(
		a, prefsFor(1, matchmaking.GenderWoman, matchmaking.GenderNonbinary),
		b, prefsFor(2, matchmaking.GenderMan, matchmaking.GenderNonbinary),
	)
	assert.Less(t, broad.GenderCompatibility, exact.GenderCompatibility)
	assert.Greater(t, broad.GenderCompatibility, 0.0)
}

func TestAgeScoreLinearDecay(t *testing.T) {
	scorer := newTestScorer()

	prefsA := prefsFor(1)
	prefsA.MinAge, prefsA.MaxAge = 25, 35
	prefsB := prefsFor(2)

	same := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)
	_, bd := scorer.Score(entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0), prefsA, same, prefsB)
	assert.Equal(t, 100.0, bd.AgeCompatibility)

	// 5 year gap over a 10 year tightest range decays to 50
	older := entry(2, matchmaking.GenderWoman, 35, matchmaking.IntentCasual, 0, 0)
	_, bd = scorer.Score(entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0), prefsA, older, prefsB)
	assert.InDelta(t, 50.0, bd.AgeCompatibility, 0.01)
}

func TestLocationScoreDecaysWithDistance(t *testing.T) {
	scorer := newTestScorer()

	prefsA := prefsFor(1)
	prefsA.MaxRadiusKm = 50
	prefsB := prefsFor(2)

	colocated := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 51.5074, -0.1278)
	_, bd := scorer.Score(entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 51.5074, -0.1278), prefsA, colocated, prefsB)
	assert.Equal(t, 100.0, bd.LocationCompatibility)

	// London to Brighton is roughly 76 km, past the 50 km bound
	brighton := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 50.8225, -0.1372)
	_, bd = scorer.Score(entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 51.5074, -0.1278), prefsA, brighton, prefsB)
	assert.Equal(t, 0.0, bd.LocationCompatibility)
}

func TestLocationScoreUnboundedUsesReferenceDistance(t *testing.T) {
	scorer := newTestScorer()

	// Roughly 111 km apart, past the 100 km reference distance
	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 1, 0)

	_, bd := scorer.Score(a, prefsFor(1), b, prefsFor(2))
	assert.Equal(t, 0.0, bd.LocationCompatibility)
}

func TestInterestScoreJaccard(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)

	cases := []struct {
		interestsA, interestsB []string
		expected               float64
	}{
		{[]string{"music", "hiking"}, []string{"music", "hiking"}, 100},
		{[]string{"music", "hiking"}, []string{"music", "cooking"}, 100.0 / 3},
		{[]string{"music"}, []string{"cooking"}, 0},
		{nil, nil, 0},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			a.Interests = tc.interestsA
			b.Interests = tc.interestsB
			_, bd := scorer.Score(a, prefsFor(1), b, prefsFor(2))
			assert.InDelta(t, tc.expected, bd.InterestCompatibility, 0.01)
		})
	}
}

func TestLanguageScoreSharedOrNothing(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)

	a.Languages = []string{"en", "de"}
	b.Languages = []string{"fr", "de"}
	_, bd := scorer.Score(a, prefsFor(1), b, prefsFor(2))
	assert.Equal(t, 100.0, bd.LanguageCompatibility)

	b.Languages = []string{"fr", "es"}
	_, bd = scorer.Score(a, prefsFor(1), b, prefsFor(2))
	assert.Equal(t, 0.0, bd.LanguageCompatibility)
}

func TestIntentScoreTiers(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)

	// Identical intents
	_, bd := scorer.Score(a, prefsFor(1), b, prefsFor(2))
	assert.Equal(t, 100.0, bd.IntentCompatibility)

	// Different but mutually acceptable intents
	b.Intent = matchmaking.IntentFriends
	prefsA := prefsFor(1)
	prefsA.PreferredRelationshipIntents = []matchmaking.Intent{matchmaking.IntentCasual, matchmaking.IntentFriends}
	prefsB := prefsFor(2)
	prefsB.PreferredRelationshipIntents = []matchmaking.Intent{matchmaking.IntentCasual}
	_, bd = scorer.Score(a, prefsA, b, prefsB)
	assert.Equal(t, 60.0, bd.IntentCompatibility)

	// Different and not mutually acceptable
	prefsB.PreferredRelationshipIntents = []matchmaking.Intent{matchmaking.IntentSerious}
	_, bd = scorer.Score(a, prefsA, b, prefsB)
	assert.Equal(t, 0.0, bd.IntentCompatibility)
}

func TestLifestyleScoreNeutralDefault(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 30, matchmaking.IntentCasual, 0, 0)
	b := entry(2, matchmaking.GenderWoman, 30, matchmaking.IntentCasual, 0, 0)

	_, bd := scorer.Score(a, prefsFor(1), b, prefsFor(2))
	assert.Equal(t, 100.0, bd.LifestyleCompatibility)
}

func TestScoreIsSymmetricForSymmetricPreferences(t *testing.T) {
	scorer := newTestScorer()

	a := entry(1, matchmaking.GenderMan, 28, matchmaking.IntentCasual, 51.5, -0.12)
	b := entry(2, matchmaking.GenderWoman, 26, matchmaking.IntentCasual, 51.6, -0.1)
	prefsA := prefsFor(1, matchmaking.GenderWoman)
	prefsB := prefsFor(2, matchmaking.GenderMan)

	forward, _ := scorer.Score(a, prefsA, b, prefsB)
	backward, _ := scorer.Score(b, prefsB, a, prefsA)
	assert.Equal(t, forward, backward)
}

func TestWeightsSumTo100(t *testing.T) {
	assert.True(t, math.Abs(matchmaking.DefaultScoreWeights().Sum()-100) < 1e-9)
}
