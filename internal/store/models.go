package store

import "time"

// Phase is a periodization stage. It fixes the easy/threshold/interval
// volume-share ratio for a block.
type Phase string

const (
	PhaseBase        Phase = "base"
	PhaseDevelopment Phase = "development"
	PhasePeak        Phase = "peak"
	PhaseTaper       Phase = "taper"
	// PhaseRecovery is only ever suggested by feedback analysis, never
	// requested directly.
	PhaseRecovery Phase = "recovery"
)

// ValidPhase reports whether p is a phase a caller may request.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseBase, PhaseDevelopment, PhasePeak, PhaseTaper:
		return true
	}
	return false
}

// WorkoutType categorizes a run.
type WorkoutType string

const (
	WorkoutEasy      WorkoutType = "easy"
	WorkoutRecovery  WorkoutType = "recovery"
	WorkoutLong      WorkoutType = "long"
	WorkoutThreshold WorkoutType = "threshold"
	WorkoutInterval  WorkoutType = "interval"
	// WorkoutRace is produced by classification only; races are never
	// planned by the generator.
	WorkoutRace WorkoutType = "race"
)

// BlockStatus is the lifecycle state of a training block.
type BlockStatus string

const (
	BlockActive    BlockStatus = "active"
	BlockCompleted BlockStatus = "completed"
	BlockAbandoned BlockStatus = "abandoned"
)

// WorkoutStatus is the lifecycle state of a planned workout.
// Transitions are forward-only: scheduled may become completed, skipped
// or rescheduled; nothing moves back to scheduled.
type WorkoutStatus string

const (
	WorkoutScheduled   WorkoutStatus = "scheduled"
	WorkoutCompleted   WorkoutStatus = "completed"
	WorkoutSkipped     WorkoutStatus = "skipped"
	WorkoutRescheduled WorkoutStatus = "rescheduled"
)

// Difficulty is the subjective difficulty reported in workout feedback.
type Difficulty string

const (
	DifficultyTooEasy   Difficulty = "too_easy"
	DifficultyJustRight Difficulty = "just_right"
	DifficultyTooHard   Difficulty = "too_hard"
)

// PerformanceRecord is a personal best over a ladder distance. At most
// one current record exists per (athlete, distance label); a superseded
// record is kept with IsCurrent false for the audit trail.
type PerformanceRecord struct {
	ID             int64
	AthleteID      int64
	DistanceLabel  string
	DistanceMeters float64
	TimeSeconds    float64
	AchievedAt     time.Time
	IsCurrent      bool
	SupersededAt   *time.Time
	ActivityID     *int64
}

// ZoneSnapshot is a persisted pace-zone set, kept for audit whenever the
// athlete's records change materially. Paces are seconds per kilometer.
type ZoneSnapshot struct {
	ID            int64
	AthleteID     int64
	FitnessIndex  float64
	EasyMin       float64
	EasyMax       float64
	MarathonPace  float64
	ThresholdMin  float64
	ThresholdMax  float64
	IntervalMin   float64
	IntervalMax   float64
	RepetitionMin float64
	RepetitionMax float64
	CreatedAt     time.Time
	SupersededAt  *time.Time
}

// TrainingBlock is a fixed-length structured plan. At most one active
// block exists per athlete at any time.
type TrainingBlock struct {
	ID                   string
	AthleteID            int64
	Phase                Phase
	StartDate            time.Time
	EndDate              time.Time // always the last day of a 7-day cycle
	DaysPerWeek          int
	Weeks                int
	TargetWeeklyVolumeKm float64
	EasyPct              int
	ThresholdPct         int
	IntervalPct          int
	Status               BlockStatus
	CreatedAt            time.Time
}

// PlannedWorkout is one dated, typed, paced workout within a block.
type PlannedWorkout struct {
	ID                  string
	BlockID             string
	WeekNumber          int
	ScheduledDate       time.Time
	Type                WorkoutType
	DistanceKm          float64
	PaceMinSecKm        float64
	PaceMaxSecKm        float64
	Description         string
	Status              WorkoutStatus
	CompletedActivityID *int64
}

// StrengthSession is a supplementary strengthening reminder placed on a
// rest day.
type StrengthSession struct {
	ID            int64
	BlockID       string
	ScheduledDate time.Time
	Focus         string
	DurationMin   int
}

// WorkoutFeedback is the athlete's report on a completed workout.
// Immutable once created.
type WorkoutFeedback struct {
	ID              int64
	WorkoutID       string
	RPE             *int // 1-10
	Difficulty      *Difficulty
	PainLocations   []string
	PaceVariancePct *float64 // signed % deviation from planned pace
	CreatedAt       time.Time
}

// Activity is a completed run.
type Activity struct {
	ID             int64
	AthleteID      int64
	Name           string
	StartDate      time.Time
	DistanceMeters float64
	MovingTimeS    int
	InferredType   *WorkoutType
	Comment        *string
}

// ActivitySample is one point of an activity's cumulative GPS series.
type ActivitySample struct {
	ActivityID int64
	DistanceM  float64
	TimeS      float64
}

// Injury is a reported injury used to bias strengthening slots and to
// derive conservative adjustments when no prior block exists.
type Injury struct {
	ID          int64
	AthleteID   int64
	Location    string
	Active      bool
	Occurrences int
	NotedAt     time.Time
}
