package geo

import (
	"math"
	"sort"
)

// Counted is an event that also exposes named numeric counters, summed
// per grid cell by the heat map binner.
type Counted interface {
	Event
	Counts() map[string]float64
}

// Cell is one occupied heat-map bucket: the snapped cell center, the
// number of events binned into it, and the per-counter sums.
type Cell struct {
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Count     int                `json:"count"`
	Sums      map[string]float64 `json:"sums"`
}

// DefaultGridSize is the heat-map cell size in degrees.
const DefaultGridSize = 1.0

// HeatMap bins events onto a fixed lat/lon grid of cellSize degrees and
// aggregates counts and counter sums per occupied cell. Coordinates snap
// to the nearest multiple of cellSize. Output is sorted descending by
// event count; equally dense cells keep no particular order beyond a
// stable sort over the cell map iteration.
func HeatMap[E Counted](events []E, cellSize float64) []Cell {
	if cellSize <= 0 {
		cellSize = DefaultGridSize
	}

	type key struct{ lat, lon float64 }
	cells := make(map[key]*Cell)

	for _, e := range events {
		lat, lon, ok := e.Coordinates()
		if !ok {
			continue
		}
		k := key{snap(lat, cellSize), snap(lon, cellSize)}
		c := cells[k]
		if c == nil {
			c = &Cell{Latitude: k.lat, Longitude: k.lon, Sums: make(map[string]float64)}
			cells[k] = c
		}
		c.Count++
		for name, v := range e.Counts() {
			c.Sums[name] += v
		}
	}

	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// snap rounds a coordinate to the nearest multiple of size.
func snap(coord, size float64) float64 {
	return math.Round(coord/size) * size
}
