package geo

// DefaultWeights is the canonical offense severity table. Several copies
// of this table drifted apart in earlier tooling; this one, matching the
// NIBRS loader that computes stored risk scores, is the single source of
// truth.
var DefaultWeights = map[string]float64{
	"homicide":           10,
	"human_trafficking":  10,
	"kidnapping":         8,
	"aggravated_assault": 5,
	"rape":               5,
	"robbery":            3,
	"drug_narcotic":      2,
	"burglary":           0.5,
}

// Risk categories, fixed thresholds: HIGH >= 70, MEDIUM-HIGH >= 50,
// MEDIUM >= 30, LOW below.
const (
	RiskHigh       = "HIGH"
	RiskMediumHigh = "MEDIUM-HIGH"
	RiskMedium     = "MEDIUM"
	RiskLow        = "LOW"
)

// Score combines weighted offense counters into a composite value in
// [0, 100]. The weighted sum is normalized against the theoretical
// maximum — every offense falling in the highest-weighted category — and
// clamped at 100. A zero offense total scores zero. Counters missing from
// counts contribute nothing, which also covers malformed source fields
// coerced to zero upstream.
func Score(counts map[string]float64, totalOffenses float64, weights map[string]float64) float64 {
	if totalOffenses <= 0 {
		return 0
	}
	if weights == nil {
		weights = DefaultWeights
	}

	var sum, maxWeight float64
	for name, w := range weights {
		sum += counts[name] * w
		if w > maxWeight {
			maxWeight = w
		}
	}
	if maxWeight <= 0 {
		return 0
	}

	score := sum / (totalOffenses * maxWeight) * 100
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// Category maps a composite score to its risk band.
func Category(score float64) string {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 50:
		return RiskMediumHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}
