package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"runcoach/internal/analysis"
	"runcoach/internal/config"
	"runcoach/internal/enrich"
	"runcoach/internal/plan"
	"runcoach/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	athleteID := flag.Int64("athlete", 1, "athlete ID")
	phase := flag.String("phase", "base", "training phase (base, development, peak, taper)")
	days := flag.Int("days", 4, "running days per week (3-6)")
	weeks := flag.Int("weeks", 4, "block length in weeks (1-4)")
	volume := flag.Float64("volume", 0, "target weekly volume in km (0 = derive from history)")
	record := flag.String("record", "", "seed a personal record, e.g. 5k=24:30")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if *record != "" {
		if err := seedRecord(db, *athleteID, *record); err != nil {
			return err
		}
	}

	generator := plan.NewGenerator(db, logger)
	generator.DefaultWeeklyKm = cfg.DefaultWeeklyKm
	generator.EnrichTimeout = cfg.EnrichTimeout
	if cfg.OpenAIAPIKey != "" {
		generator.SetEnricher(enrich.NewOpenAIEnricher(cfg.OpenAIAPIKey))
	}

	result, err := generator.Generate(context.Background(), plan.Request{
		AthleteID:      *athleteID,
		Phase:          store.Phase(*phase),
		DaysPerWeek:    *days,
		Weeks:          *weeks,
		TargetVolumeKm: *volume,
	})
	if err != nil {
		return err
	}

	render(result)
	return nil
}

// seedRecord parses "label=mm:ss" or "label=h:mm:ss" and stores it as a
// personal record.
func seedRecord(db *store.DB, athleteID int64, arg string) error {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid record %q, expected label=time", arg)
	}

	label, ok := analysis.ParseDistanceLabel(parts[0])
	if !ok {
		return fmt.Errorf("unknown distance %q", parts[0])
	}

	seconds, err := parseDuration(parts[1])
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", parts[1], err)
	}

	_, err = db.SupersedePerformanceRecord(&store.PerformanceRecord{
		AthleteID:      athleteID,
		DistanceLabel:  string(label),
		DistanceMeters: analysis.DistanceMeters[label],
		TimeSeconds:    seconds,
		AchievedAt:     time.Now(),
	})
	return err
}

func parseDuration(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("expected mm:ss or h:mm:ss")
	}

	var total float64
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		total = total*60 + float64(n)
	}
	return total, nil
}

func render(result *plan.Result) {
	b := result.Block
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s block: %s to %s",
		b.Phase, b.StartDate.Format("Jan 2"), b.EndDate.Format("Jan 2"))))
	fmt.Println(dimStyle.Render(fmt.Sprintf(
		"%d weeks, %d days/week, target %.0f km/week (easy %d%% / threshold %d%% / interval %d%%)",
		b.Weeks, b.DaysPerWeek, b.TargetWeeklyVolumeKm, b.EasyPct, b.ThresholdPct, b.IntervalPct)))
	fmt.Println()

	weekTotals := make([]float64, b.Weeks)
	currentWeek := 0
	for _, w := range result.Workouts {
		if w.WeekNumber != currentWeek {
			currentWeek = w.WeekNumber
			fmt.Println(headerStyle.Render(fmt.Sprintf("Week %d", currentWeek)))
		}
		weekTotals[w.WeekNumber-1] += w.DistanceKm
		fmt.Printf("  %s  %-9s %5.1f km  %s\n",
			w.ScheduledDate.Format("Mon Jan 2"), w.Type, w.DistanceKm, dimStyle.Render(w.Description))
	}

	if len(result.Strength) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Strength reminders"))
		for _, s := range result.Strength {
			fmt.Printf("  %s  %s (%d min)\n", s.ScheduledDate.Format("Mon Jan 2"), s.Focus, s.DurationMin)
		}
	}

	if b.Weeks > 1 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Weekly volume (km)"))
		fmt.Println(asciigraph.Plot(weekTotals, asciigraph.Height(5), asciigraph.Width(40)))
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("adjustment: " + result.Adjustment.Rationale))
}
