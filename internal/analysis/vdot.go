package analysis

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInput is returned when a performance has a non-positive
// distance or time.
var ErrInvalidInput = errors.New("distance and time must be positive")

// ErrNoRecords is returned when no usable performance records exist.
var ErrNoRecords = errors.New("no performance records")

// Performance is a single race-equivalent result used to derive fitness.
type Performance struct {
	Label      DistanceLabel
	Meters     float64
	Seconds    float64
	AchievedAt time.Time
}

// CalculateFitnessIndex derives a VDOT-style fitness index from a race
// performance using the Daniels/Gilbert formulation: oxygen cost of the
// race velocity divided by the fraction of VO2max sustainable for the
// race duration.
func CalculateFitnessIndex(distanceMeters, timeSeconds float64) (float64, error) {
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return 0, ErrInvalidInput
	}

	minutes := timeSeconds / 60
	velocity := distanceMeters / minutes // meters per minute

	percentMax := 0.8 +
		0.1894393*math.Exp(-0.012778*minutes) +
		0.2989558*math.Exp(-0.1932605*minutes)

	vo2 := -4.60 + 0.182258*velocity + 0.000104*velocity*velocity

	return vo2 / percentMax, nil
}

// BestFitnessIndex computes the fitness index for each record and returns
// the maximum, along with the distance that produced it. The runner's best
// event is the most informative seed for zone-setting.
func BestFitnessIndex(records []Performance) (float64, DistanceLabel, error) {
	var (
		best      float64
		bestLabel DistanceLabel
		found     bool
	)

	for _, r := range records {
		index, err := CalculateFitnessIndex(r.Meters, r.Seconds)
		if err != nil {
			continue
		}
		if !found || index > best {
			best = index
			bestLabel = r.Label
			found = true
		}
	}

	if !found {
		return 0, "", ErrNoRecords
	}
	return best, bestLabel, nil
}

// WeightedIndex is the result of blending every record into one index.
type WeightedIndex struct {
	Index      float64
	Confidence float64 // 0..1, degraded by spread and sparse data
	Records    int
}

// WeightedFitnessIndex blends all records into a single index. Each record
// is weighted by a fixed per-distance reliability factor and an exponential
// recency decay with the given half-life. Confidence degrades when the
// weighted spread across records is large or when fewer than 3 records
// contribute.
func WeightedFitnessIndex(records []Performance, recencyHalfLifeDays float64, now time.Time) (WeightedIndex, error) {
	if recencyHalfLifeDays <= 0 {
		recencyHalfLifeDays = 90
	}

	type weighted struct {
		index  float64
		weight float64
	}
	var contributions []weighted
	var weightSum, indexSum float64

	for _, r := range records {
		index, err := CalculateFitnessIndex(r.Meters, r.Seconds)
		if err != nil {
			continue
		}

		reliability, ok := reliabilityWeights[r.Label]
		if !ok {
			reliability = 0.5
		}

		ageDays := now.Sub(r.AchievedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		recency := math.Pow(0.5, ageDays/recencyHalfLifeDays)

		w := reliability * recency
		contributions = append(contributions, weighted{index, w})
		weightSum += w
		indexSum += index * w
	}

	if weightSum == 0 {
		return WeightedIndex{}, ErrNoRecords
	}

	mean := indexSum / weightSum

	// Weighted standard deviation of the contributing indices.
	var varSum float64
	for _, c := range contributions {
		d := c.index - mean
		varSum += c.weight * d * d
	}
	spread := math.Sqrt(varSum / weightSum)

	confidence := 1.0
	if spread > 2 {
		confidence -= (spread - 2) / 10
	}
	if len(contributions) < 3 {
		confidence *= 0.7
	}
	if confidence < 0.3 {
		confidence = 0.3
	}

	return WeightedIndex{
		Index:      mean,
		Confidence: confidence,
		Records:    len(contributions),
	}, nil
}

// Prediction search window and precision.
const (
	predictMinSeconds = 60
	predictMaxSeconds = 18000
)

// PredictTime predicts the race time in seconds for a target distance at
// the given fitness index. The forward formula has no closed-form inverse,
// so this binary-searches the [60s, 18000s] window to 1 second precision.
// The index is monotonically decreasing in time for a fixed distance.
func PredictTime(index float64, distanceMeters float64) int {
	if index <= 0 || distanceMeters <= 0 {
		return 0
	}

	low, high := float64(predictMinSeconds), float64(predictMaxSeconds)
	for high-low > 1 {
		mid := (low + high) / 2
		candidate, err := CalculateFitnessIndex(distanceMeters, mid)
		if err != nil {
			return 0
		}
		if candidate > index {
			// Too fast for this index, the real time is longer.
			low = mid
		} else {
			high = mid
		}
	}

	return int(math.Round(high))
}

// EffectiveIndex blends a record-derived index with one inferred from
// recent threshold-effort workouts. The blend is 70% records, 30%
// workouts, and the result never moves more than 3 index points from the
// record-derived value.
func EffectiveIndex(recordIndex float64, thresholdEfforts []Performance) float64 {
	if len(thresholdEfforts) == 0 {
		return recordIndex
	}

	var sum float64
	var count int
	for _, e := range thresholdEfforts {
		if e.Meters <= 0 || e.Seconds <= 0 {
			continue
		}
		sum += indexFromThresholdPace(recordIndex, e)
		count++
	}
	if count == 0 {
		return recordIndex
	}

	workoutIndex := sum / float64(count)
	blended := 0.7*recordIndex + 0.3*workoutIndex

	if blended > recordIndex+3 {
		return recordIndex + 3
	}
	if blended < recordIndex-3 {
		return recordIndex - 3
	}
	return blended
}

// indexFromThresholdPace finds the table index whose threshold pace best
// matches the observed effort pace. One linear scan over the supported
// table range replaces the per-workout binary search the calibration used
// to carry.
func indexFromThresholdPace(fallback float64, e Performance) float64 {
	pace := e.Seconds / (e.Meters / 1000)

	best := fallback
	bestDiff := math.MaxFloat64
	for i := minTableIndex; i <= maxTableIndex; i++ {
		row := zoneTable[i-minTableIndex]
		diff := math.Abs(row.Threshold - pace)
		if diff < bestDiff {
			bestDiff = diff
			best = float64(i)
		}
	}
	return best
}
