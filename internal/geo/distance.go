// Package geo implements the geospatial aggregation primitives shared by
// the API and the batch analysis jobs: great-circle distance, radius
// proximity matching, grid binning for heat maps, and composite risk
// scoring. Everything here is pure and does no I/O; callers load records
// from the repository and pass them in.
package geo

import "math"

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, using the haversine formula.
// NaN inputs yield NaN; callers are expected to filter records without
// coordinates before computing distances.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusKM
}
