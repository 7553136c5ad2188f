package geo

import (
	"math"
	"testing"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{35.6762, 139.6503},
		{-33.8688, 151.2093},
		{90, 0},
	}

	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Distance(%v, %v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	d1 := Distance(35.6762, 139.6503, 40.7128, -74.0060)
	d2 := Distance(40.7128, -74.0060, 35.6762, 139.6503)

	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// 10 degrees of longitude along the equator: 6371 * 10 * pi/180.
	want := earthRadiusKM * 10 * math.Pi / 180

	got := Distance(0, 0, 0, 10)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("Distance(0,0,0,10) = %v, want %v", got, want)
	}
}

func TestDistance_ColinearAdditivity(t *testing.T) {
	// Three points on the equator: A-B plus B-C equals A-C.
	ab := Distance(0, 0, 0, 10)
	bc := Distance(0, 10, 0, 25)
	ac := Distance(0, 0, 0, 25)

	if math.Abs(ab+bc-ac) > 1e-6 {
		t.Errorf("colinear distances: %v + %v != %v", ab, bc, ac)
	}
}

func TestDistance_NaNPropagates(t *testing.T) {
	if d := Distance(math.NaN(), 0, 0, 0); !math.IsNaN(d) {
		t.Errorf("expected NaN for NaN input, got %v", d)
	}
}
