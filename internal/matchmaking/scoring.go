package matchmaking

import "math"

// ScoreWeights are the per-factor percentages. They must sum to 100.
type ScoreWeights struct {
	Gender    float64
	Location  float64
	Age       float64
	Intent    float64
	Interests float64
	Lifestyle float64
	Languages float64
}

// DefaultScoreWeights returns the reference weight table.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Gender:    25,
		Location:  20,
		Age:       15,
		Intent:    15,
		Interests: 10,
		Lifestyle: 10,
		Languages: 5,
	}
}

// Sum returns the total of all weights.
func (w ScoreWeights) Sum() float64 {
	return w.Gender + w.Location + w.Age + w.Intent + w.Interests + w.Lifestyle + w.Languages
}

// DefaultReferenceDistanceKm is the soft decay cap used for location scoring
// when neither user bounds their radius.
const DefaultReferenceDistanceKm = 100.0

// Scorer computes weighted compatibility between two queue entries. It is a
// pure calculator: no state beyond configuration, no I/O.
type Scorer struct {
	weights       ScoreWeights
	referenceDist float64
}

// NewScorer creates a scorer with the given weights and reference distance.
// Zero referenceDistanceKm falls back to the default.
func NewScorer(weights ScoreWeights, referenceDistanceKm float64) *Scorer {
	if referenceDistanceKm <= 0 {
		referenceDistanceKm = DefaultReferenceDistanceKm
	}
	return &Scorer{weights: weights, referenceDist: referenceDistanceKm}
}

// Score returns the weighted total in [0,100] plus the per-factor breakdown.
// Callers are expected to have run the hard filter first; scoring a pair
// that fails it simply yields a low gender/age contribution.
func (s *Scorer) Score(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) (int, *CompatibilityBreakdown) {
	breakdown := &CompatibilityBreakdown{
		GenderCompatibility:    s.genderScore(a, prefsA, b, prefsB),
		LocationCompatibility:  s.locationScore(a, prefsA, b, prefsB),
		AgeCompatibility:       s.ageScore(a, prefsA, b, prefsB),
		IntentCompatibility:    s.intentScore(a, prefsA, b, prefsB),
		InterestCompatibility:  jaccardScore(a.Interests, b.Interests),
		LifestyleCompatibility: s.lifestyleScore(a, b),
		LanguageCompatibility:  sharedLanguageScore(a.Languages, b.Languages),
	}

	total := breakdown.GenderCompatibility*s.weights.Gender +
		breakdown.LocationCompatibility*s.weights.Location +
		breakdown.AgeCompatibility*s.weights.Age +
		breakdown.IntentCompatibility*s.weights.Intent +
		breakdown.InterestCompatibility*s.weights.Interests +
		breakdown.LifestyleCompatibility*s.weights.Lifestyle +
		breakdown.LanguageCompatibility*s.weights.Languages

	rounded := int(math.Round(total / 100))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	return rounded, breakdown
}

// genderScore rewards exactness of the mutual gender match: a partner whose
// gender is the only entry in the preference set scores higher than one of
// several acceptable genders.
func (s *Scorer) genderScore(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) float64 {
	return (directionalGenderScore(prefsA, b.Gender) + directionalGenderScore(prefsB, a.Gender)) / 2
}

func directionalGenderScore(prefs *MatchingPreferences, g Gender) float64 {
	if !prefs.AcceptsGender(g) {
		return 0
	}
	if len(prefs.PreferredGenders) == 1 {
		return 100
	}
	return 70
}

// ageScore decays linearly from 100 (ages equal) to 0 at the edge of the
// tightest of the two users' age-range preferences.
func (s *Scorer) ageScore(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) float64 {
	diff := math.Abs(float64(a.Age - b.Age))
	if diff == 0 {
		return 100
	}

	width := math.Min(
		float64(prefsA.MaxAge-prefsA.MinAge),
		float64(prefsB.MaxAge-prefsB.MinAge),
	)
	if width <= 0 {
		return 0
	}

	score := 100 * (1 - diff/width)
	return math.Max(0, score)
}

// locationScore decays linearly from 100 (co-located) to 0 at the tightest
// configured radius. When neither user bounds their radius it falls back to
// a soft exponential decay capped at the reference distance.
func (s *Scorer) locationScore(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) float64 {
	distance := haversineKm(a.Location, b.Location)

	limit := tightestRadius(prefsA.MaxRadiusKm, prefsB.MaxRadiusKm)
	if limit > 0 {
		score := 100 * (1 - distance/limit)
		return math.Max(0, score)
	}

	if distance >= s.referenceDist {
		return 0
	}
	return 100 * math.Exp(-3*distance/s.referenceDist)
}

func tightestRadius(r1, r2 float64) float64 {
	switch {
	case r1 > 0 && r2 > 0:
		return math.Min(r1, r2)
	case r1 > 0:
		return r1
	case r2 > 0:
		return r2
	default:
		return 0
	}
}

// intentScore: identical intents score 100, mutually acceptable intents 60,
// anything else 0.
func (s *Scorer) intentScore(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) float64 {
	if a.Intent == b.Intent {
		return 100
	}
	if prefsA.AcceptsIntent(b.Intent) && prefsB.AcceptsIntent(a.Intent) {
		return 60
	}
	return 0
}

// lifestyleScore is the reserved extension point. With no lifestyle
// attributes supplied by either side the factor is a neutral 100, so habit
// similarity inputs can be wired in later without changing the contract.
func (s *Scorer) lifestyleScore(a, b *QueueEntry) float64 {
	return 100
}

// jaccardScore is the Jaccard similarity of the two interest sets in
// [0,100]; 0 when both sets are empty.
func jaccardScore(interests1, interests2 []string) float64 {
	if len(interests1) == 0 && len(interests2) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(interests1))
	for _, interest := range interests1 {
		seen[interest] = true
	}

	matches := 0
	other := make(map[string]bool, len(interests2))
	for _, interest := range interests2 {
		if other[interest] {
			continue
		}
		other[interest] = true
		if seen[interest] {
			matches++
		}
	}

	union := len(seen) + len(other) - matches
	if union == 0 {
		return 0
	}

	return 100 * float64(matches) / float64(union)
}

// sharedLanguageScore: 100 with at least one shared language, else 0.
func sharedLanguageScore(langs1, langs2 []string) float64 {
	seen := make(map[string]bool, len(langs1))
	for _, lang := range langs1 {
		seen[lang] = true
	}
	for _, lang := range langs2 {
		if seen[lang] {
			return 100
		}
	}
	return 0
}
