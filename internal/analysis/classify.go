package analysis

import (
	"fmt"
	"math"

	"runcoach/internal/store"
)

// ClassifierConfig holds the heuristic thresholds used by workout
// classification. The race-detection constants in particular have no
// documented derivation and are deliberately configuration, not code.
type ClassifierConfig struct {
	RaceMaxDistanceKm    float64 // race rule: activity no longer than this
	RaceMaxEffortSpread  float64 // race rule: effort-pace spread below this
	RaceMaxAvgDeviation  float64 // race rule: 5k effort within this of avg
	IntervalMinCV        float64 // interval rule: effort-pace CV at least this
	IntervalMinKmGainPct float64 // interval rule: 1k effort faster than avg by this
	ThresholdMaxCV       float64 // threshold rule: variability below this
	LongMinDistanceKm    float64
	EasyMaxDistanceKm    float64
	EasyMaxCV            float64
	RecoverySlackSecKm   float64 // recovery rule: slower than easy max by this
	MarathonSlackSecKm   float64 // long rule: within this of marathon pace
}

// DefaultClassifierConfig returns the standard thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		RaceMaxDistanceKm:    15,
		RaceMaxEffortSpread:  0.05,
		RaceMaxAvgDeviation:  0.03,
		IntervalMinCV:        0.20,
		IntervalMinKmGainPct: 0.15,
		ThresholdMaxCV:       0.10,
		LongMinDistanceKm:    12,
		EasyMaxDistanceKm:    12,
		EasyMaxCV:            0.15,
		RecoverySlackSecKm:   30,
		MarathonSlackSecKm:   30,
	}
}

// Classification is the outcome of classifying a completed activity.
// Reasoning is a short human-readable justification recorded for audit.
type Classification struct {
	Type          store.WorkoutType
	Reasoning     string
	LowConfidence bool
}

// ClassifyWorkout assigns a workout type to a completed activity by
// comparing its average pace and best efforts against the athlete's pace
// zones. Rules are evaluated in priority order and the first match wins.
// Always returns a type: with no matching rule or no zones it defaults to
// easy with a low-confidence flag.
func ClassifyWorkout(cfg ClassifierConfig, avgPaceSecKm, distanceKm float64, efforts map[DistanceLabel]BestEffort, zones *ZoneSet) Classification {
	if zones == nil {
		return Classification{
			Type:          store.WorkoutEasy,
			Reasoning:     "no pace zones available, defaulting to easy",
			LowConfidence: true,
		}
	}

	stats := PaceStats(efforts)

	// 1. Race: short distance, near-uniform pacing, and the 5k effort both
	// tracks the activity average and beats the interval zone.
	if distanceKm <= cfg.RaceMaxDistanceKm && stats.Count >= 2 && stats.SpreadPct < cfg.RaceMaxEffortSpread {
		if e, ok := efforts[Distance5K]; ok {
			deviation := math.Abs(e.PaceSecPerKm-avgPaceSecKm) / avgPaceSecKm
			if deviation < cfg.RaceMaxAvgDeviation && e.PaceSecPerKm < zones.Interval.Max {
				return Classification{
					Type: store.WorkoutRace,
					Reasoning: fmt.Sprintf("uniform pacing (%.1f%% spread) with 5k effort %.0fs/km faster than interval zone",
						stats.SpreadPct*100, zones.Interval.Max-e.PaceSecPerKm),
				}
			}
		}
	}

	// 2. Interval: strongly varying effort paces, or a 1k best effort far
	// faster than the overall average.
	if stats.Count >= 2 && stats.CoefficientVar >= cfg.IntervalMinCV {
		return Classification{
			Type:      store.WorkoutInterval,
			Reasoning: fmt.Sprintf("effort pace variability %.0f%% indicates repeated surges", stats.CoefficientVar*100),
		}
	}
	if e, ok := efforts[Distance1K]; ok && avgPaceSecKm > 0 {
		if e.PaceSecPerKm <= avgPaceSecKm*(1-cfg.IntervalMinKmGainPct) {
			return Classification{
				Type:      store.WorkoutInterval,
				Reasoning: fmt.Sprintf("1k best effort %.0f%% faster than average pace", (1-e.PaceSecPerKm/avgPaceSecKm)*100),
			}
		}
	}

	// 3. Threshold: sustained pace in the threshold zone, or a 5k/10k
	// effort in the zone close to the overall average.
	if zones.Threshold.Contains(avgPaceSecKm) && distanceKm >= 5 &&
		(stats.Count < 2 || stats.CoefficientVar < cfg.ThresholdMaxCV) {
		return Classification{
			Type:      store.WorkoutThreshold,
			Reasoning: fmt.Sprintf("steady %.0fs/km average inside threshold zone", avgPaceSecKm),
		}
	}
	for _, label := range []DistanceLabel{Distance5K, Distance10K} {
		e, ok := efforts[label]
		if !ok || avgPaceSecKm <= 0 {
			continue
		}
		deviation := math.Abs(e.PaceSecPerKm-avgPaceSecKm) / avgPaceSecKm
		if zones.Threshold.Contains(e.PaceSecPerKm) && deviation < 0.10 {
			return Classification{
				Type:      store.WorkoutThreshold,
				Reasoning: fmt.Sprintf("%s effort in threshold zone within 10%% of average pace", label),
			}
		}
	}

	// 4. Long: distance-dominant run at easy or marathon-adjacent pace.
	if distanceKm >= cfg.LongMinDistanceKm {
		if avgPaceSecKm >= zones.Easy.Min || math.Abs(avgPaceSecKm-zones.Marathon) <= cfg.MarathonSlackSecKm {
			return Classification{
				Type:      store.WorkoutLong,
				Reasoning: fmt.Sprintf("%.1fkm at aerobic pace", distanceKm),
			}
		}
	}

	// 5. Recovery: slower than the easy zone by a clear margin.
	if avgPaceSecKm > zones.Easy.Max+cfg.RecoverySlackSecKm {
		return Classification{
			Type:      store.WorkoutRecovery,
			Reasoning: fmt.Sprintf("average pace %.0fs/km slower than easy zone", avgPaceSecKm-zones.Easy.Max),
		}
	}

	// 6. Easy: inside the easy zone, or a short steady run.
	if zones.Easy.Contains(avgPaceSecKm) {
		return Classification{
			Type:      store.WorkoutEasy,
			Reasoning: "average pace inside easy zone",
		}
	}
	if distanceKm < cfg.EasyMaxDistanceKm && (stats.Count < 2 || stats.CoefficientVar < cfg.EasyMaxCV) {
		return Classification{
			Type:      store.WorkoutEasy,
			Reasoning: "short run with steady pacing",
		}
	}

	return Classification{
		Type:          store.WorkoutEasy,
		Reasoning:     "no classification rule matched, defaulting to easy",
		LowConfidence: true,
	}
}
