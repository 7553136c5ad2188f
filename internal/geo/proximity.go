package geo

import "sort"

// Event is any record that may carry coordinates. Records report ok=false
// when ungeocoded and are silently skipped by the aggregation functions.
type Event interface {
	Coordinates() (lat, lon float64, ok bool)
}

// Match pairs an event with its computed distance to a reference point.
type Match[E Event] struct {
	Event      E
	DistanceKM float64
}

// Nearby returns the subset of events within radiusKM of the reference
// point, each annotated with its distance, sorted ascending by distance.
// Equal distances keep the input order. Complexity is O(len(events)); at
// the data volumes involved (thousands of rows) a linear scan beats any
// index structure worth maintaining.
func Nearby[E Event](refLat, refLon float64, events []E, radiusKM float64) []Match[E] {
	matches := make([]Match[E], 0)
	for _, e := range events {
		lat, lon, ok := e.Coordinates()
		if !ok {
			continue
		}
		d := Distance(refLat, refLon, lat, lon)
		if d <= radiusKM {
			matches = append(matches, Match[E]{Event: e, DistanceKM: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKM < matches[j].DistanceKM
	})
	return matches
}
