package matchmaking

import "math"

// Passes is the cheap boolean pre-check applied before scoring: gender
// preference, age bounds, intent acceptability and radius. One direction
// only; use MutualMatch before treating a pair as eligible.
func Passes(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry) bool {
	if !prefsA.AcceptsGender(b.Gender) {
		return false
	}
	if b.Age < prefsA.MinAge || b.Age > prefsA.MaxAge {
		return false
	}
	if !prefsA.AcceptsIntent(b.Intent) {
		return false
	}
	if prefsA.MaxRadiusKm > 0 {
		if haversineKm(a.Location, b.Location) > prefsA.MaxRadiusKm {
			return false
		}
	}
	return true
}

// MutualMatch requires the filter to pass in both directions. A one-sided
// match is not a match.
func MutualMatch(a *QueueEntry, prefsA *MatchingPreferences, b *QueueEntry, prefsB *MatchingPreferences) bool {
	return Passes(a, prefsA, b) && Passes(b, prefsB, a)
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(from, to Location) float64 {
	const earthRadius = 6371 // km

	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(from.Latitude*math.Pi/180)*math.Cos(to.Latitude*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
