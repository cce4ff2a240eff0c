package feedback

import (
	"strings"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// Volume clamps: a recommendation never pushes target volume below the
// floor, and an increase never exceeds the ceiling multiple of the prior
// block's target.
const (
	MinWeeklyVolumeKm   = 15.0
	MaxVolumeMultiplier = 1.3
)

// Adjustment converts analysis findings into concrete changes for the
// next generation cycle. Pace deltas are additive seconds per kilometer
// and are never applied to the repetition zone, which stays
// athlete-controlled.
type Adjustment struct {
	EasyDeltaSecKm      float64
	ThresholdDeltaSecKm float64
	IntervalDeltaSecKm  float64
	VolumeChangePct     float64
	Rationale           string
}

// Neutral is the zero adjustment used when no signal exists or when
// adjustment derivation fails. Adaptation is a bonus, not a correctness
// requirement of block generation.
func Neutral() Adjustment {
	return Adjustment{Rationale: "no adjustment signal, carrying zones and volume forward"}
}

// FromReport derives an adjustment from a completed-block report.
func FromReport(r Report) Adjustment {
	adj := Adjustment{VolumeChangePct: r.VolumeAdjustmentPct}

	switch {
	case r.HasCriticalIssues:
		adj.EasyDeltaSecKm = 10
		adj.ThresholdDeltaSecKm = 8
		adj.IntervalDeltaSecKm = 5
		adj.Rationale = "critical feedback, easing all quality zones and cutting volume"
	case r.TooHardPct > tooHardMediumPct:
		adj.EasyDeltaSecKm = 5
		adj.ThresholdDeltaSecKm = 5
		adj.IntervalDeltaSecKm = 3
		adj.Rationale = "repeated too-hard reports, easing zones slightly"
	case hasCategory(r.Warnings, "zone_calibration"):
		shift := 8.0
		if r.AvgPaceVariancePct < 0 {
			shift = -8
		}
		adj.EasyDeltaSecKm = shift
		adj.ThresholdDeltaSecKm = shift
		adj.IntervalDeltaSecKm = shift
		adj.Rationale = "pace variance shows zones off target, shifting toward observed paces"
	case r.VolumeAdjustmentPct > 0:
		adj.ThresholdDeltaSecKm = -2
		adj.IntervalDeltaSecKm = -2
		adj.Rationale = "block absorbed well, nudging quality paces forward"
	default:
		adj.Rationale = "feedback within normal bounds"
	}

	return adj
}

// painKeywords flag an activity comment as injury-relevant.
var painKeywords = []string{"pain", "sore", "ache", "hurt", "tight", "strain", "niggle"}

// FromHistory derives a conservative adjustment directly from recent
// activity comments and injury records, for athletes with no completed
// block. Pain evidence triggers a fixed volume cut and pace penalty
// without full block analysis.
func FromHistory(comments []string, injuries []store.Injury) Adjustment {
	painful := false
	for _, in := range injuries {
		if in.Active {
			painful = true
			break
		}
	}
	if !painful {
	scan:
		for _, c := range comments {
			lower := strings.ToLower(c)
			for _, kw := range painKeywords {
				if strings.Contains(lower, kw) {
					painful = true
					break scan
				}
			}
		}
	}

	if !painful {
		return Neutral()
	}

	return Adjustment{
		EasyDeltaSecKm:      15,
		ThresholdDeltaSecKm: 12,
		IntervalDeltaSecKm:  10,
		VolumeChangePct:     -15,
		Rationale:           "pain signals in recent history, starting conservatively",
	}
}

// ApplyToZones returns the zone set with the pace deltas applied. The
// repetition zone is intentionally untouched.
func (a Adjustment) ApplyToZones(z analysis.ZoneSet) analysis.ZoneSet {
	z.Easy = z.Easy.Shift(a.EasyDeltaSecKm)
	z.Threshold = z.Threshold.Shift(a.ThresholdDeltaSecKm)
	z.Interval = z.Interval.Shift(a.IntervalDeltaSecKm)
	return z
}

// ApplyToVolume applies the volume change to a base weekly volume with
// both clamps enforced: never below MinWeeklyVolumeKm, and never more
// than MaxVolumeMultiplier times the prior block's target. A priorTarget
// of 0 means no prior block exists and the ceiling does not apply.
func (a Adjustment) ApplyToVolume(baseKm, priorTargetKm float64) float64 {
	adjusted := baseKm * (1 + a.VolumeChangePct/100)

	if priorTargetKm > 0 && adjusted > priorTargetKm*MaxVolumeMultiplier {
		adjusted = priorTargetKm * MaxVolumeMultiplier
	}
	if adjusted < MinWeeklyVolumeKm {
		adjusted = MinWeeklyVolumeKm
	}
	return adjusted
}

func hasCategory(warnings []Warning, category string) bool {
	for _, w := range warnings {
		if w.Category == category {
			return true
		}
	}
	return false
}
