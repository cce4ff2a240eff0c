package analysis

import (
	"math"
	"testing"
)

// constantPaceSeries builds a cumulative series at a fixed speed, one
// sample per second.
func constantPaceSeries(seconds int, metersPerSecond float64) []Sample {
	samples := make([]Sample, seconds+1)
	for i := 0; i <= seconds; i++ {
		samples[i] = Sample{
			DistanceM: float64(i) * metersPerSecond,
			TimeS:     float64(i),
		}
	}
	return samples
}

func TestExtractBestEfforts_ConstantPace(t *testing.T) {
	// 50 minutes at 4 m/s covers 12 km: everything through 10K should
	// be present, everything longer absent.
	samples := constantPaceSeries(3000, 4)

	efforts := ExtractBestEfforts(samples, nil)

	present := []DistanceLabel{Distance500m, Distance1K, Distance2K, Distance5K, Distance10K}
	for _, label := range present {
		effort, ok := efforts[label]
		if !ok {
			t.Fatalf("missing effort for %s", label)
		}
		// 4 m/s is exactly 250 s/km at every distance.
		if math.Abs(effort.PaceSecPerKm-250) > 1 {
			t.Errorf("%s pace = %v, want ~250", label, effort.PaceSecPerKm)
		}
		wantTime := DistanceMeters[label] / 4
		if math.Abs(effort.TimeSeconds-wantTime) > 1 {
			t.Errorf("%s time = %v, want ~%v", label, effort.TimeSeconds, wantTime)
		}
	}

	for _, label := range []DistanceLabel{Distance15K, DistanceHalf, DistanceMarathon} {
		if _, ok := efforts[label]; ok {
			t.Errorf("effort for %s should be absent, series is only 12 km", label)
		}
	}
}

func TestExtractBestEfforts_InterpolatesAtBoundary(t *testing.T) {
	// Two samples 1000m apart. The 500m effort falls mid-segment and
	// must be linearly interpolated to exactly half the time.
	samples := []Sample{
		{DistanceM: 0, TimeS: 0},
		{DistanceM: 1000, TimeS: 300},
	}

	efforts := ExtractBestEfforts(samples, []DistanceLabel{Distance500m})

	effort, ok := efforts[Distance500m]
	if !ok {
		t.Fatal("missing 500m effort")
	}
	if effort.TimeSeconds != 150 {
		t.Errorf("500m time = %v, want exactly 150", effort.TimeSeconds)
	}
	if effort.PaceSecPerKm != 300 {
		t.Errorf("500m pace = %v, want 300", effort.PaceSecPerKm)
	}
}

func TestExtractBestEfforts_FindsFastestWindow(t *testing.T) {
	// 1km easy (360s), 1km hard (240s), 1km easy (360s). The best 1K
	// must come from the middle segment, not the start.
	var samples []Sample
	cumTime := 0.0
	appendKm := func(secPerKm float64) {
		start := 0.0
		if len(samples) > 0 {
			start = samples[len(samples)-1].DistanceM
		}
		for i := 1; i <= 10; i++ {
			cumTime += secPerKm / 10
			samples = append(samples, Sample{
				DistanceM: start + float64(i)*100,
				TimeS:     cumTime,
			})
		}
	}
	samples = append(samples, Sample{})
	appendKm(360)
	appendKm(240)
	appendKm(360)

	efforts := ExtractBestEfforts(samples, []DistanceLabel{Distance1K})

	effort, ok := efforts[Distance1K]
	if !ok {
		t.Fatal("missing 1K effort")
	}
	if math.Abs(effort.TimeSeconds-240) > 1 {
		t.Errorf("best 1K = %v, want ~240 from the fast middle km", effort.TimeSeconds)
	}
	if math.Abs(effort.StartOffsetS-360) > 1 {
		t.Errorf("best 1K starts at %v, want ~360", effort.StartOffsetS)
	}
}

func TestExtractBestEfforts_DegenerateSeries(t *testing.T) {
	if got := ExtractBestEfforts(nil, nil); len(got) != 0 {
		t.Errorf("nil series should yield no efforts, got %d", len(got))
	}
	if got := ExtractBestEfforts([]Sample{{DistanceM: 0, TimeS: 0}}, nil); len(got) != 0 {
		t.Errorf("single-sample series should yield no efforts, got %d", len(got))
	}
}

func TestExtractBestEfforts_StationarySamples(t *testing.T) {
	// GPS series often repeat a distance while the watch is paused.
	// Duplicate distances must not panic or divide by zero.
	samples := []Sample{
		{DistanceM: 0, TimeS: 0},
		{DistanceM: 300, TimeS: 90},
		{DistanceM: 300, TimeS: 120},
		{DistanceM: 700, TimeS: 240},
		{DistanceM: 700, TimeS: 250},
		{DistanceM: 1200, TimeS: 400},
	}

	efforts := ExtractBestEfforts(samples, []DistanceLabel{Distance500m, Distance1K})

	if _, ok := efforts[Distance1K]; !ok {
		t.Error("missing 1K effort over a 1200m series")
	}
	if _, ok := efforts[Distance500m]; !ok {
		t.Error("missing 500m effort")
	}
}

func TestPaceStats(t *testing.T) {
	efforts := map[DistanceLabel]BestEffort{
		Distance500m: {PaceSecPerKm: 240},
		Distance1K:   {PaceSecPerKm: 260},
	}

	stats := PaceStats(efforts)

	if stats.Count != 2 {
		t.Fatalf("count = %d, want 2", stats.Count)
	}
	if stats.MeanPace != 250 {
		t.Errorf("mean = %v, want 250", stats.MeanPace)
	}
	if math.Abs(stats.SpreadPct-0.08) > 1e-9 {
		t.Errorf("spread = %v, want 0.08", stats.SpreadPct)
	}
	if math.Abs(stats.CoefficientVar-0.04) > 1e-9 {
		t.Errorf("cv = %v, want 0.04", stats.CoefficientVar)
	}
}

func TestPaceStats_TooFewEfforts(t *testing.T) {
	stats := PaceStats(map[DistanceLabel]BestEffort{
		Distance5K: {PaceSecPerKm: 300},
	})
	if stats.Count != 1 || stats.MeanPace != 0 {
		t.Errorf("single-effort stats should be zero-valued, got %+v", stats)
	}
}
