// Package feedback turns completed-block workout feedback into warnings
// and adjustment signals for the next generation cycle.
package feedback

import (
	"fmt"
	"math"
	"sort"

	"runcoach/internal/store"
)

// Severity grades a warning.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// Warning is an independent finding about a completed block.
type Warning struct {
	Category string
	Severity Severity
	Message  string
}

// Recommendation is an actionable suggestion derived from the findings.
type Recommendation struct {
	Priority Severity
	Message  string
}

// Report summarizes all feedback for a completed block.
type Report struct {
	WorkoutCount       int
	AvgRPE             float64
	TooHardPct         float64 // 0..100
	PainPct            float64 // 0..100
	PainLocations      map[string]int
	AvgPaceVariancePct float64 // signed

	Warnings            []Warning
	Recommendations     []Recommendation
	VolumeAdjustmentPct float64 // signed, exactly one figure emitted
	SuggestedPhase      store.Phase
	HasCriticalIssues   bool
}

// Aggregation thresholds.
const (
	rpeWarnThreshold      = 7.5
	rpeCriticalThreshold  = 8.5
	tooHardCriticalPct    = 50
	tooHardMediumPct      = 25
	painWarnPct           = 30
	recurringPainMinCount = 3
	varianceWarnPct       = 15
)

// Analyze aggregates a completed block's workout feedback into summary
// statistics, warnings and adjustment recommendations. Empty input yields
// a neutral report; Analyze never fails.
func Analyze(records []store.WorkoutFeedback) Report {
	report := Report{PainLocations: make(map[string]int)}
	if len(records) == 0 {
		return report
	}
	report.WorkoutCount = len(records)

	var (
		rpeSum, rpeCount           float64
		tooHard, withPain          int
		varianceSum, varianceCount float64
	)
	for _, fb := range records {
		if fb.RPE != nil {
			rpeSum += float64(*fb.RPE)
			rpeCount++
		}
		if fb.Difficulty != nil && *fb.Difficulty == store.DifficultyTooHard {
			tooHard++
		}
		if len(fb.PainLocations) > 0 {
			withPain++
			for _, loc := range fb.PainLocations {
				report.PainLocations[loc]++
			}
		}
		if fb.PaceVariancePct != nil {
			varianceSum += *fb.PaceVariancePct
			varianceCount++
		}
	}

	n := float64(len(records))
	if rpeCount > 0 {
		report.AvgRPE = rpeSum / rpeCount
	}
	report.TooHardPct = float64(tooHard) / n * 100
	report.PainPct = float64(withPain) / n * 100
	if varianceCount > 0 {
		report.AvgPaceVariancePct = varianceSum / varianceCount
	}

	report.Warnings = deriveWarnings(&report)
	deriveRecommendations(&report)
	return report
}

// deriveWarnings evaluates each warning rule independently; multiple may
// fire.
func deriveWarnings(r *Report) []Warning {
	var warnings []Warning

	if r.AvgRPE > rpeWarnThreshold {
		severity := SeverityMedium
		if r.AvgRPE > rpeCriticalThreshold {
			severity = SeverityCritical
		}
		warnings = append(warnings, Warning{
			Category: "overtraining",
			Severity: severity,
			Message:  fmt.Sprintf("average RPE %.1f indicates sustained overreaching", r.AvgRPE),
		})
	}

	if r.TooHardPct > tooHardCriticalPct {
		warnings = append(warnings, Warning{
			Category: "difficulty",
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("%.0f%% of workouts were rated too hard", r.TooHardPct),
		})
	} else if r.TooHardPct > tooHardMediumPct {
		warnings = append(warnings, Warning{
			Category: "difficulty",
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%.0f%% of workouts were rated too hard", r.TooHardPct),
		})
	}

	if r.PainPct > painWarnPct {
		warnings = append(warnings, Warning{
			Category: "injury_risk",
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("pain reported in %.0f%% of workouts", r.PainPct),
		})
	}
	for _, loc := range sortedLocations(r.PainLocations) {
		if r.PainLocations[loc] >= recurringPainMinCount {
			warnings = append(warnings, Warning{
				Category: "injury_risk",
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("%s pain recurred %d times, needs attention before the next block", loc, r.PainLocations[loc]),
			})
		}
	}

	if math.Abs(r.AvgPaceVariancePct) > varianceWarnPct {
		warnings = append(warnings, Warning{
			Category: "zone_calibration",
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("average pace missed plan by %.0f%%, zones look miscalibrated", r.AvgPaceVariancePct),
		})
	}

	return warnings
}

// deriveRecommendations applies the rule chain for the single volume
// figure and the phase override. Rule order matters: the volume branches
// are mutually exclusive, and a critical state overrides any other phase
// signal.
func deriveRecommendations(r *Report) {
	switch {
	case r.TooHardPct > tooHardCriticalPct || r.AvgRPE > rpeWarnThreshold:
		r.VolumeAdjustmentPct = -20
		r.Recommendations = append(r.Recommendations, Recommendation{
			Priority: SeverityCritical,
			Message:  "reduce weekly volume by 20% next block",
		})
	case r.TooHardPct > tooHardMediumPct:
		r.VolumeAdjustmentPct = -10
		r.Recommendations = append(r.Recommendations, Recommendation{
			Priority: SeverityMedium,
			Message:  "reduce weekly volume by 10% next block",
		})
	case math.Abs(r.AvgPaceVariancePct) > varianceWarnPct:
		r.VolumeAdjustmentPct = -15
		r.Recommendations = append(r.Recommendations, Recommendation{
			Priority: SeverityMedium,
			Message:  "recalibrate zones and reduce volume by 15% while they settle",
		})
	}

	r.HasCriticalIssues = len(r.Warnings) > 0 &&
		(r.TooHardPct > tooHardCriticalPct || r.PainPct > painWarnPct || r.AvgRPE > rpeWarnThreshold)
	if r.HasCriticalIssues {
		r.SuggestedPhase = store.PhaseRecovery
	}

	// Positive case: everything comfortably absorbed.
	if r.AvgRPE <= 6.5 && r.TooHardPct < 10 && r.PainPct == 0 {
		r.VolumeAdjustmentPct = 7.5
		r.Recommendations = append(r.Recommendations, Recommendation{
			Priority: SeverityLow,
			Message:  "block absorbed well, safe to progress volume by 5-10%",
		})
	}
}

func sortedLocations(counts map[string]int) []string {
	locations := make([]string, 0, len(counts))
	for loc := range counts {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}
