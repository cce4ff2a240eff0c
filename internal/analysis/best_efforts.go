package analysis

import "math"

// Sample is one point of a cumulative distance/time series recorded
// during an activity. Distance and Time never decrease across a series.
type Sample struct {
	DistanceM float64 // cumulative meters
	TimeS     float64 // cumulative elapsed seconds
}

// BestEffort is the fastest continuous segment matching a target distance
// within a single activity.
type BestEffort struct {
	Label          DistanceLabel
	DistanceMeters float64
	TimeSeconds    float64
	PaceSecPerKm   float64
	StartOffsetS   float64
	EndOffsetS     float64
}

// DefaultEffortTargets is the standard ladder of distances scanned for
// best efforts.
var DefaultEffortTargets = []DistanceLabel{
	Distance500m,
	Distance1K,
	Distance2K,
	Distance5K,
	Distance10K,
	Distance15K,
	DistanceHalf,
	DistanceMarathon,
}

// ExtractBestEfforts finds the fastest effort for each target distance in
// a cumulative series. Targets longer than the recorded distance are
// silently omitted. A series with fewer than 2 samples yields an empty
// map. Never fails.
//
// Each target runs an amortized O(n) two-pointer sweep: the end pointer
// advances until the window spans the target, the window time is recorded
// with linear interpolation at the far boundary, then the start pointer
// advances. Neither pointer regresses.
func ExtractBestEfforts(samples []Sample, targets []DistanceLabel) map[DistanceLabel]BestEffort {
	result := make(map[DistanceLabel]BestEffort)
	if len(samples) < 2 {
		return result
	}
	if len(targets) == 0 {
		targets = DefaultEffortTargets
	}

	totalDistance := samples[len(samples)-1].DistanceM - samples[0].DistanceM

	for _, label := range targets {
		target, ok := DistanceMeters[label]
		if !ok || totalDistance < target {
			continue
		}
		if effort, found := bestEffortForTarget(samples, target); found {
			effort.Label = label
			result[label] = effort
		}
	}

	return result
}

// bestEffortForTarget sweeps the series once for a single target distance.
func bestEffortForTarget(samples []Sample, target float64) (BestEffort, bool) {
	best := BestEffort{TimeSeconds: math.MaxFloat64}
	found := false

	end := 1
	for start := 0; start < len(samples)-1; start++ {
		if end <= start {
			end = start + 1
		}

		// Advance the window until it spans at least the target.
		for end < len(samples) && samples[end].DistanceM-samples[start].DistanceM < target {
			end++
		}
		if end == len(samples) {
			end--
			if samples[end].DistanceM-samples[start].DistanceM < target {
				// No later start can span the target either.
				break
			}
		}

		spanned := samples[end].DistanceM - samples[start].DistanceM
		elapsed := samples[end].TimeS - samples[start].TimeS

		// Interpolate between the bracketing samples so the reported time
		// corresponds to exactly the target distance.
		if spanned > target {
			prevSpanned := samples[end-1].DistanceM - samples[start].DistanceM
			segment := samples[end].DistanceM - samples[end-1].DistanceM
			if segment <= 0 {
				// Zero spanned distance between consecutive samples;
				// interpolation would divide by zero.
				continue
			}
			fraction := (target - prevSpanned) / segment
			elapsed = (samples[end-1].TimeS - samples[start].TimeS) +
				fraction*(samples[end].TimeS-samples[end-1].TimeS)
		}

		if elapsed <= 0 {
			continue
		}

		if elapsed < best.TimeSeconds {
			best = BestEffort{
				DistanceMeters: target,
				TimeSeconds:    elapsed,
				PaceSecPerKm:   elapsed / (target / 1000),
				StartOffsetS:   samples[start].TimeS,
				EndOffsetS:     samples[start].TimeS + elapsed,
			}
			found = true
		}
	}

	if !found {
		return BestEffort{}, false
	}
	return best, true
}

// EffortPaceStats summarizes the pace distribution across a set of best
// efforts. Used by the workout classifier.
type EffortPaceStats struct {
	MeanPace       float64
	SpreadPct      float64 // (max - min) / mean
	CoefficientVar float64 // stddev / mean
	Count          int
}

// PaceStats computes summary statistics over the paces of a best-effort
// set. Returns a zero-count result for fewer than 2 efforts.
func PaceStats(efforts map[DistanceLabel]BestEffort) EffortPaceStats {
	if len(efforts) < 2 {
		return EffortPaceStats{Count: len(efforts)}
	}

	minPace := math.MaxFloat64
	maxPace := 0.0
	var sum float64
	for _, e := range efforts {
		sum += e.PaceSecPerKm
		if e.PaceSecPerKm < minPace {
			minPace = e.PaceSecPerKm
		}
		if e.PaceSecPerKm > maxPace {
			maxPace = e.PaceSecPerKm
		}
	}
	mean := sum / float64(len(efforts))

	var varSum float64
	for _, e := range efforts {
		d := e.PaceSecPerKm - mean
		varSum += d * d
	}
	stddev := math.Sqrt(varSum / float64(len(efforts)))

	return EffortPaceStats{
		MeanPace:       mean,
		SpreadPct:      (maxPace - minPace) / mean,
		CoefficientVar: stddev / mean,
		Count:          len(efforts),
	}
}
