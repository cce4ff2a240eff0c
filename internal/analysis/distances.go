// Package analysis implements the pace model: fitness-index derivation
// from race performances, training pace zones, best-effort extraction
// from GPS series, and workout classification.
package analysis

// DistanceLabel names a standard distance on the best-effort ladder.
type DistanceLabel string

const (
	Distance500m     DistanceLabel = "500m"
	Distance1K       DistanceLabel = "1k"
	Distance2K       DistanceLabel = "2k"
	Distance5K       DistanceLabel = "5k"
	Distance10K      DistanceLabel = "10k"
	Distance15K      DistanceLabel = "15k"
	DistanceHalf     DistanceLabel = "half"
	DistanceMarathon DistanceLabel = "marathon"
)

// DistanceMeters maps each ladder label to its distance.
var DistanceMeters = map[DistanceLabel]float64{
	Distance500m:     500,
	Distance1K:       1000,
	Distance2K:       2000,
	Distance5K:       5000,
	Distance10K:      10000,
	Distance15K:      15000,
	DistanceHalf:     21100,
	DistanceMarathon: 42200,
}

// Ladder lists the standard distances shortest first.
var Ladder = []DistanceLabel{
	Distance500m,
	Distance1K,
	Distance2K,
	Distance5K,
	Distance10K,
	Distance15K,
	DistanceHalf,
	DistanceMarathon,
}

// ParseDistanceLabel maps a stored label string back onto the ladder.
func ParseDistanceLabel(s string) (DistanceLabel, bool) {
	label := DistanceLabel(s)
	_, ok := DistanceMeters[label]
	return label, ok
}

// reliabilityWeights grade how well a distance predicts overall fitness.
// Short sprints and the marathon say less about the aerobic profile than
// the middle of the ladder.
var reliabilityWeights = map[DistanceLabel]float64{
	Distance500m:     0.3,
	Distance1K:       0.5,
	Distance2K:       0.7,
	Distance5K:       1.0,
	Distance10K:      1.0,
	Distance15K:      1.0,
	DistanceHalf:     0.8,
	DistanceMarathon: 0.6,
}
