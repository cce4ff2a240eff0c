package plan

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// Processor handles newly completed activities: it extracts best efforts
// from the raw GPS series, updates personal records, classifies the
// workout against the athlete's current zones, and links the activity to
// that day's scheduled workout when one exists. It runs independently of
// block generation.
type Processor struct {
	db         *store.DB
	logger     zerolog.Logger
	classifier analysis.ClassifierConfig
}

// NewProcessor creates a Processor with default classifier thresholds.
func NewProcessor(db *store.DB, logger zerolog.Logger) *Processor {
	return &Processor{
		db:         db,
		logger:     logger,
		classifier: analysis.DefaultClassifierConfig(),
	}
}

// ProcessResult reports what an activity produced.
type ProcessResult struct {
	BestEfforts    map[analysis.DistanceLabel]analysis.BestEffort
	NewRecords     []analysis.DistanceLabel
	Classification analysis.Classification
	MatchedWorkout *store.PlannedWorkout
}

// ProcessActivity analyzes one completed activity. Missing samples or
// zones degrade the result rather than failing; only storage errors
// surface.
func (p *Processor) ProcessActivity(activityID int64) (*ProcessResult, error) {
	activity, err := p.db.GetActivity(activityID)
	if err != nil {
		return nil, err
	}

	rawSamples, err := p.db.SamplesForActivity(activityID)
	if err != nil {
		return nil, err
	}
	samples := make([]analysis.Sample, len(rawSamples))
	for i, s := range rawSamples {
		samples[i] = analysis.Sample{DistanceM: s.DistanceM, TimeS: s.TimeS}
	}

	result := &ProcessResult{
		BestEfforts: analysis.ExtractBestEfforts(samples, nil),
	}

	newRecords, err := p.updateRecords(activity, result.BestEfforts)
	if err != nil {
		return nil, err
	}
	result.NewRecords = newRecords

	result.Classification = p.classify(activity, result.BestEfforts)
	if err := p.db.SetInferredType(activityID, result.Classification.Type); err != nil {
		return nil, err
	}

	// Complete the matching scheduled workout, if one exists today.
	workout, err := p.db.WorkoutOnDate(activity.AthleteID, activity.StartDate)
	switch {
	case errors.Is(err, store.ErrWorkoutNotFound):
		// Unscheduled run, nothing to link.
	case err != nil:
		return nil, err
	default:
		if err := p.db.CompleteWorkout(workout.ID, activityID); err != nil {
			return nil, fmt.Errorf("completing workout %s: %w", workout.ID, err)
		}
		result.MatchedWorkout = workout
	}

	p.logger.Info().
		Int64("activity_id", activityID).
		Str("type", string(result.Classification.Type)).
		Int("best_efforts", len(result.BestEfforts)).
		Int("new_records", len(result.NewRecords)).
		Msg("activity processed")

	return result, nil
}

// updateRecords supersedes personal records for every best effort that
// beats the athlete's current time.
func (p *Processor) updateRecords(activity *store.Activity, efforts map[analysis.DistanceLabel]analysis.BestEffort) ([]analysis.DistanceLabel, error) {
	var updated []analysis.DistanceLabel
	for _, label := range analysis.Ladder {
		effort, ok := efforts[label]
		if !ok {
			continue
		}

		improved, err := p.db.SupersedePerformanceRecord(&store.PerformanceRecord{
			AthleteID:      activity.AthleteID,
			DistanceLabel:  string(label),
			DistanceMeters: effort.DistanceMeters,
			TimeSeconds:    effort.TimeSeconds,
			AchievedAt:     activity.StartDate,
			ActivityID:     &activity.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("superseding %s record: %w", label, err)
		}
		if improved {
			updated = append(updated, label)
		}
	}
	return updated, nil
}

func (p *Processor) classify(activity *store.Activity, efforts map[analysis.DistanceLabel]analysis.BestEffort) analysis.Classification {
	var zones *analysis.ZoneSet
	snapshot, err := p.db.CurrentZoneSnapshot(activity.AthleteID)
	if err == nil {
		zones = &analysis.ZoneSet{
			FitnessIndex: snapshot.FitnessIndex,
			Easy:         analysis.PaceRange{Min: snapshot.EasyMin, Max: snapshot.EasyMax},
			Marathon:     snapshot.MarathonPace,
			Threshold:    analysis.PaceRange{Min: snapshot.ThresholdMin, Max: snapshot.ThresholdMax},
			Interval:     analysis.PaceRange{Min: snapshot.IntervalMin, Max: snapshot.IntervalMax},
			Repetition:   analysis.PaceRange{Min: snapshot.RepetitionMin, Max: snapshot.RepetitionMax},
		}
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		p.logger.Warn().Err(err).Msg("loading zone snapshot failed, classifying without zones")
	}

	var avgPace float64
	if activity.DistanceMeters > 0 {
		avgPace = float64(activity.MovingTimeS) / (activity.DistanceMeters / 1000)
	}
	distanceKm := activity.DistanceMeters / 1000

	return analysis.ClassifyWorkout(p.classifier, avgPace, distanceKm, efforts, zones)
}
