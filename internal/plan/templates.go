package plan

import (
	"fmt"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// slotKind is the role a scheduled day plays within a week.
type slotKind string

const (
	slotQuality  slotKind = "quality" // alternates threshold/interval week to week
	slotEasy     slotKind = "easy"
	slotLong     slotKind = "long"
	slotRecovery slotKind = "recovery"
)

// slot fixes a weekday, its role, and its share of weekly volume.
type slot struct {
	Weekday time.Weekday
	Kind    slotKind
	Share   float64
}

// weeklyTemplates keys a fixed day/type/volume-share layout by days per
// week. Shares sum to 1.0 within each template.
var weeklyTemplates = map[int][]slot{
	3: {
		{time.Tuesday, slotQuality, 0.30},
		{time.Thursday, slotEasy, 0.30},
		{time.Saturday, slotLong, 0.40},
	},
	4: {
		{time.Tuesday, slotQuality, 0.25},
		{time.Wednesday, slotEasy, 0.20},
		{time.Friday, slotEasy, 0.20},
		{time.Saturday, slotLong, 0.35},
	},
	5: {
		{time.Monday, slotEasy, 0.15},
		{time.Tuesday, slotQuality, 0.25},
		{time.Thursday, slotEasy, 0.15},
		{time.Friday, slotEasy, 0.15},
		{time.Sunday, slotLong, 0.30},
	},
	6: {
		{time.Monday, slotEasy, 0.15},
		{time.Tuesday, slotQuality, 0.20},
		{time.Wednesday, slotEasy, 0.15},
		{time.Thursday, slotEasy, 0.10},
		{time.Friday, slotRecovery, 0.10},
		{time.Sunday, slotLong, 0.30},
	},
}

// progressionCurves scale each week's volume. The 4-week default builds
// for three weeks then drops to a recovery week; shorter blocks use
// compressed variants.
var progressionCurves = map[int][]float64{
	1: {1.00},
	2: {1.00, 0.85},
	3: {1.00, 1.08, 0.75},
	4: {1.00, 1.05, 1.10, 0.70},
}

// phaseRatios fixes the easy/threshold/interval volume-share split per
// periodization phase. Each row sums to 100.
var phaseRatios = map[store.Phase][3]int{
	store.PhaseBase:        {85, 10, 5},
	store.PhaseDevelopment: {75, 15, 10},
	store.PhasePeak:        {70, 15, 15},
	store.PhaseTaper:       {80, 12, 8},
}

// The two fixed strengthening session types alternated on off days when
// no injury biases the selection.
var strengthRotation = []string{"core and hip stability", "calf and foot strength"}

const strengthSessionMinutes = 20

// paceRangeFor maps a workout type onto the pace band it is run in.
func paceRangeFor(t store.WorkoutType, zones analysis.ZoneSet) analysis.PaceRange {
	switch t {
	case store.WorkoutThreshold:
		return zones.Threshold
	case store.WorkoutInterval:
		return zones.Interval
	case store.WorkoutRecovery:
		return analysis.PaceRange{Min: zones.Easy.Max, Max: zones.Easy.Max + 30}
	default:
		// Easy and long runs share the easy band.
		return zones.Easy
	}
}

// describeWorkout renders the deterministic workout description used
// whenever enrichment is unavailable.
func describeWorkout(w store.PlannedWorkout) string {
	paces := fmt.Sprintf("%s-%s/km", formatPace(w.PaceMinSecKm), formatPace(w.PaceMaxSecKm))
	switch w.Type {
	case store.WorkoutThreshold:
		return fmt.Sprintf("Threshold %.1fkm: 2-3 x 10min at %s with 2min jog recoveries.", w.DistanceKm, paces)
	case store.WorkoutInterval:
		return fmt.Sprintf("Intervals %.1fkm: 5-6 x 3min at %s with equal jog recoveries.", w.DistanceKm, paces)
	case store.WorkoutLong:
		return fmt.Sprintf("Long run %.1fkm at %s, steady from start to finish.", w.DistanceKm, paces)
	case store.WorkoutRecovery:
		return fmt.Sprintf("Recovery jog %.1fkm at %s or slower, fully relaxed.", w.DistanceKm, paces)
	default:
		return fmt.Sprintf("Easy run %.1fkm at %s, conversational effort.", w.DistanceKm, paces)
	}
}

func formatPace(secPerKm float64) string {
	total := int(secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// roundHalfKm rounds a distance to the nearest half kilometer, with a
// 1km minimum for any scheduled run.
func roundHalfKm(km float64) float64 {
	rounded := float64(int(km*2+0.5)) / 2
	if rounded < 1 {
		return 1
	}
	return rounded
}
