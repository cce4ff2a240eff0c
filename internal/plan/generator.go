// Package plan generates multi-week training blocks and adapts them to
// feedback from the previous cycle.
package plan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"runcoach/internal/analysis"
	"runcoach/internal/feedback"
	"runcoach/internal/store"
)

// Precondition errors. These are the only failures Generate surfaces;
// everything else degrades to a usable block.
var (
	// ErrActiveBlockExists mirrors the store sentinel so callers can match
	// either.
	ErrActiveBlockExists  = store.ErrActiveBlockExists
	ErrNoPersonalRecords  = errors.New("athlete has no personal records")
	ErrInvalidPhase       = errors.New("invalid training phase")
	ErrInvalidDaysPerWeek = errors.New("days per week must be between 3 and 6")
	ErrInvalidWeeks       = errors.New("block length must be between 1 and 4 weeks")
)

// Defaults used when the athlete has no usable history.
const (
	defaultWeeklyVolumeKm = 20.0
	defaultEnrichTimeout  = 10 * time.Second
	trailingWindowDays    = 28
)

// Recovery-run gate thresholds (all conditions must hold).
const (
	recoveryRunMinVolumeKm   = 25.0
	recoveryRunMaxDays       = 4
	recoveryRunMinTrailingKm = 15.0
)

// Request describes one block-generation invocation.
type Request struct {
	AthleteID      int64
	Phase          store.Phase
	DaysPerWeek    int
	StartDate      time.Time // zero value: the upcoming Monday
	Weeks          int       // 0 defaults to 4
	TargetVolumeKm float64   // 0: derive from trailing history
	PreferredDays  []time.Weekday
	PreferredTime  string // e.g. "morning"; advisory only
}

// Result is a generated block with its nested schedule.
type Result struct {
	Block      store.TrainingBlock
	Workouts   []store.PlannedWorkout
	Strength   []store.StrengthSession
	Adjustment feedback.Adjustment
	Zones      analysis.ZoneSet // zones after adjustment, used for this block only
}

// Generator orchestrates pace-model, adjustment and layout into persisted
// training blocks.
type Generator struct {
	db       *store.DB
	enricher DescriptionEnricher
	logger   zerolog.Logger

	// DefaultWeeklyKm seeds volume for athletes with no history.
	DefaultWeeklyKm float64
	// EnrichTimeout bounds each external description call.
	EnrichTimeout time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

// NewGenerator creates a Generator with the deterministic template
// enricher.
func NewGenerator(db *store.DB, logger zerolog.Logger) *Generator {
	return &Generator{
		db:              db,
		enricher:        TemplateEnricher{},
		logger:          logger,
		DefaultWeeklyKm: defaultWeeklyVolumeKm,
		EnrichTimeout:   defaultEnrichTimeout,
		Now:             time.Now,
	}
}

// SetEnricher swaps in an external description enricher.
func (g *Generator) SetEnricher(e DescriptionEnricher) {
	if e != nil {
		g.enricher = e
	}
}

// Generate creates and persists a new training block for the athlete.
// It fails only on precondition violations; missing history and
// enrichment failures degrade silently.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if !store.ValidPhase(req.Phase) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhase, req.Phase)
	}
	if req.DaysPerWeek < 3 || req.DaysPerWeek > 6 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDaysPerWeek, req.DaysPerWeek)
	}
	if req.Weeks == 0 {
		req.Weeks = 4
	}
	if req.Weeks < 1 || req.Weeks > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWeeks, req.Weeks)
	}

	if _, err := g.db.ActiveBlock(req.AthleteID); err == nil {
		return nil, ErrActiveBlockExists
	} else if !errors.Is(err, store.ErrBlockNotFound) {
		return nil, err
	}

	// Step 1: derive zones from current records.
	zones, err := g.refreshZones(req.AthleteID)
	if err != nil {
		return nil, err
	}

	// Step 2: adjustment signals from the previous cycle, applied to this
	// generation only. The stored snapshot stays un-adjusted.
	adj, priorTarget := g.deriveAdjustment(req.AthleteID)
	blockZones := adj.ApplyToZones(zones)

	// Step 3: base weekly volume.
	trailing := g.trailingVolume(req.AthleteID)
	base := req.TargetVolumeKm
	if base <= 0 {
		base = trailing
	}
	if base <= 0 {
		base = g.DefaultWeeklyKm
	}
	weeklyKm := adj.ApplyToVolume(base, priorTarget)

	// Steps 4-8: lay the block out and persist it atomically.
	result := g.layout(req, weeklyKm, trailing, blockZones)
	result.Adjustment = adj
	result.Zones = blockZones

	g.enrichDescriptions(ctx, result)

	if err := g.db.CreateBlock(&result.Block, result.Workouts, result.Strength); err != nil {
		return nil, err
	}

	g.logger.Info().
		Str("block_id", result.Block.ID).
		Int64("athlete_id", req.AthleteID).
		Str("phase", string(req.Phase)).
		Float64("weekly_km", weeklyKm).
		Int("workouts", len(result.Workouts)).
		Msg("training block generated")

	return result, nil
}

// refreshZones computes the athlete's pace zones from current records and
// persists the snapshot.
func (g *Generator) refreshZones(athleteID int64) (analysis.ZoneSet, error) {
	records, err := g.db.CurrentPerformanceRecords(athleteID)
	if err != nil {
		return analysis.ZoneSet{}, err
	}

	performances := make([]analysis.Performance, 0, len(records))
	for _, r := range records {
		label, ok := analysis.ParseDistanceLabel(r.DistanceLabel)
		if !ok {
			continue
		}
		performances = append(performances, analysis.Performance{
			Label:      label,
			Meters:     r.DistanceMeters,
			Seconds:    r.TimeSeconds,
			AchievedAt: r.AchievedAt,
		})
	}

	index, source, err := analysis.BestFitnessIndex(performances)
	if err != nil {
		return analysis.ZoneSet{}, ErrNoPersonalRecords
	}
	zones := analysis.ZonesFromIndex(index)

	snapshot := &store.ZoneSnapshot{
		AthleteID:     athleteID,
		FitnessIndex:  zones.FitnessIndex,
		EasyMin:       zones.Easy.Min,
		EasyMax:       zones.Easy.Max,
		MarathonPace:  zones.Marathon,
		ThresholdMin:  zones.Threshold.Min,
		ThresholdMax:  zones.Threshold.Max,
		IntervalMin:   zones.Interval.Min,
		IntervalMax:   zones.Interval.Max,
		RepetitionMin: zones.Repetition.Min,
		RepetitionMax: zones.Repetition.Max,
	}
	if err := g.db.SaveZoneSnapshot(snapshot); err != nil {
		// Snapshot persistence is audit, not correctness.
		g.logger.Warn().Err(err).Msg("saving zone snapshot failed")
	}

	g.logger.Debug().
		Float64("fitness_index", index).
		Str("source_distance", string(source)).
		Msg("zones refreshed")

	return zones, nil
}

// deriveAdjustment produces the adjustment for this cycle: full feedback
// analysis when a completed block exists, the rule-based history path
// otherwise. Any failure degrades to the neutral adjustment.
func (g *Generator) deriveAdjustment(athleteID int64) (feedback.Adjustment, float64) {
	prior, err := g.db.LatestCompletedBlock(athleteID)
	if err == nil {
		records, err := g.db.FeedbackForBlock(prior.ID)
		if err != nil {
			g.logger.Warn().Err(err).Msg("loading block feedback failed, using neutral adjustment")
			return feedback.Neutral(), prior.TargetWeeklyVolumeKm
		}
		report := feedback.Analyze(records)
		return feedback.FromReport(report), prior.TargetWeeklyVolumeKm
	}
	if !errors.Is(err, store.ErrBlockNotFound) {
		g.logger.Warn().Err(err).Msg("loading prior block failed, using neutral adjustment")
		return feedback.Neutral(), 0
	}

	since := g.Now().AddDate(0, 0, -trailingWindowDays)
	comments, err := g.db.RecentComments(athleteID, since)
	if err != nil {
		g.logger.Warn().Err(err).Msg("loading recent comments failed, using neutral adjustment")
		return feedback.Neutral(), 0
	}
	injuries, err := g.db.Injuries(athleteID)
	if err != nil {
		g.logger.Warn().Err(err).Msg("loading injuries failed, using neutral adjustment")
		return feedback.Neutral(), 0
	}
	return feedback.FromHistory(comments, injuries), 0
}

func (g *Generator) trailingVolume(athleteID int64) float64 {
	trailing, err := g.db.TrailingWeeklyVolume(athleteID, trailingWindowDays, g.Now())
	if err != nil {
		g.logger.Warn().Err(err).Msg("computing trailing volume failed")
		return 0
	}
	return trailing
}

// layout materializes the block's schedule: one workout per (week, slot),
// the optional Sunday recovery run, and strengthening reminders on off
// days.
func (g *Generator) layout(req Request, weeklyKm, trailingKm float64, zones analysis.ZoneSet) *Result {
	start := req.StartDate
	if start.IsZero() {
		start = nextMonday(g.Now())
	}
	start = start.Truncate(24 * time.Hour)

	slots := templateFor(req.DaysPerWeek, req.PreferredDays)
	ratios := phaseRatios[req.Phase]

	block := store.TrainingBlock{
		ID:                   uuid.NewString(),
		AthleteID:            req.AthleteID,
		Phase:                req.Phase,
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, req.Weeks*7-1),
		DaysPerWeek:          req.DaysPerWeek,
		Weeks:                req.Weeks,
		TargetWeeklyVolumeKm: weeklyKm,
		EasyPct:              ratios[0],
		ThresholdPct:         ratios[1],
		IntervalPct:          ratios[2],
		Status:               store.BlockActive,
	}

	addRecovery := weeklyKm >= recoveryRunMinVolumeKm &&
		(req.Phase == store.PhaseDevelopment || req.Phase == store.PhasePeak) &&
		req.DaysPerWeek <= recoveryRunMaxDays &&
		trailingKm >= recoveryRunMinTrailingKm

	curve := progressionCurves[req.Weeks]

	result := &Result{Block: block}
	for week := 1; week <= req.Weeks; week++ {
		weekKm := weeklyKm * curve[week-1]
		weekStart := start.AddDate(0, 0, (week-1)*7)

		// The quality slot alternates between threshold and interval.
		quality := store.WorkoutThreshold
		if week%2 == 0 {
			quality = store.WorkoutInterval
		}

		for _, s := range slots {
			workoutType := typeForSlot(s.Kind, quality)
			paces := paceRangeFor(workoutType, zones)

			w := store.PlannedWorkout{
				ID:            uuid.NewString(),
				BlockID:       block.ID,
				WeekNumber:    week,
				ScheduledDate: weekStart.AddDate(0, 0, dayOffset(start, s.Weekday)),
				Type:          workoutType,
				DistanceKm:    roundHalfKm(weekKm * s.Share),
				PaceMinSecKm:  paces.Min,
				PaceMaxSecKm:  paces.Max,
				Status:        store.WorkoutScheduled,
			}
			w.Description = describeWorkout(w)
			result.Workouts = append(result.Workouts, w)
		}

		if addRecovery {
			paces := paceRangeFor(store.WorkoutRecovery, zones)
			w := store.PlannedWorkout{
				ID:            uuid.NewString(),
				BlockID:       block.ID,
				WeekNumber:    week,
				ScheduledDate: weekStart.AddDate(0, 0, dayOffset(start, time.Sunday)),
				Type:          store.WorkoutRecovery,
				DistanceKm:    roundHalfKm(weekKm * 0.12),
				PaceMinSecKm:  paces.Min,
				PaceMaxSecKm:  paces.Max,
				Status:        store.WorkoutScheduled,
			}
			w.Description = describeWorkout(w)
			result.Workouts = append(result.Workouts, w)
		}

		result.Strength = append(result.Strength,
			g.strengthSessions(req.AthleteID, block.ID, start, weekStart, slots, addRecovery)...)
	}

	return result
}

// strengthSessions places 1-3 strengthening reminders on a week's off
// days, prioritized toward injured locations, alternating between the two
// fixed session types otherwise.
func (g *Generator) strengthSessions(athleteID int64, blockID string, blockStart, weekStart time.Time, slots []slot, sundayUsed bool) []store.StrengthSession {
	used := make(map[time.Weekday]bool, len(slots))
	for _, s := range slots {
		used[s.Weekday] = true
	}
	if sundayUsed {
		used[time.Sunday] = true
	}

	var offDays []time.Weekday
	for _, wd := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	} {
		if !used[wd] {
			offDays = append(offDays, wd)
		}
	}
	if len(offDays) > 3 {
		offDays = offDays[:3]
	}

	focuses := g.strengthFocuses(athleteID, len(offDays))

	sessions := make([]store.StrengthSession, 0, len(offDays))
	for i, wd := range offDays {
		sessions = append(sessions, store.StrengthSession{
			BlockID:       blockID,
			ScheduledDate: weekStart.AddDate(0, 0, dayOffset(blockStart, wd)),
			Focus:         focuses[i],
			DurationMin:   strengthSessionMinutes,
		})
	}
	return sessions
}

// strengthFocuses picks session focuses: implicated injury locations
// first, then the fixed rotation.
func (g *Generator) strengthFocuses(athleteID int64, count int) []string {
	var focuses []string

	injuries, err := g.db.Injuries(athleteID)
	if err != nil {
		g.logger.Warn().Err(err).Msg("loading injuries for strength bias failed")
	} else {
		for _, in := range injuries {
			if len(focuses) == count {
				break
			}
			if in.Active || in.Occurrences >= 3 {
				focuses = append(focuses, in.Location+" strengthening and mobility")
			}
		}
	}

	for i := 0; len(focuses) < count; i++ {
		focuses = append(focuses, strengthRotation[i%len(strengthRotation)])
	}
	return focuses
}

// enrichDescriptions attempts external description enrichment for every
// workout. Failures are logged and the templated description kept.
func (g *Generator) enrichDescriptions(ctx context.Context, result *Result) {
	if _, ok := g.enricher.(TemplateEnricher); ok {
		return // descriptions are already templated
	}

	for i := range result.Workouts {
		callCtx, cancel := context.WithTimeout(ctx, g.EnrichTimeout)
		description, err := g.enricher.Describe(callCtx, result.Workouts[i], result.Block.Phase)
		cancel()
		if err != nil {
			g.logger.Warn().Err(err).
				Str("workout_id", result.Workouts[i].ID).
				Msg("description enrichment failed, keeping template")
			continue
		}
		if description != "" {
			result.Workouts[i].Description = description
		}
	}
}

// templateFor returns the weekly template, with preferred days mapped
// onto the slots when the athlete supplied exactly one per running day.
func templateFor(daysPerWeek int, preferred []time.Weekday) []slot {
	base := weeklyTemplates[daysPerWeek]
	slots := make([]slot, len(base))
	copy(slots, base)

	if len(preferred) == len(slots) {
		days := make([]time.Weekday, len(preferred))
		copy(days, preferred)
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		for i := range slots {
			slots[i].Weekday = days[i]
		}
	}
	return slots
}

func typeForSlot(kind slotKind, quality store.WorkoutType) store.WorkoutType {
	switch kind {
	case slotQuality:
		return quality
	case slotLong:
		return store.WorkoutLong
	case slotRecovery:
		return store.WorkoutRecovery
	default:
		return store.WorkoutEasy
	}
}

// dayOffset is the day-of-cycle offset of a weekday relative to the
// block's start weekday.
func dayOffset(start time.Time, wd time.Weekday) int {
	return (int(wd) - int(start.Weekday()) + 7) % 7
}

func nextMonday(now time.Time) time.Time {
	t := now.Truncate(24 * time.Hour)
	for t.Weekday() != time.Monday || !t.After(now.Truncate(24*time.Hour)) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
