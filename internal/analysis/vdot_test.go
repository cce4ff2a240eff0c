package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCalculateFitnessIndex(t *testing.T) {
	tests := []struct {
		name           string
		distanceMeters float64
		timeSeconds    float64
		wantIndex      float64
		tolerance      float64
	}{
		{
			name:           "5K at 19:00",
			distanceMeters: 5000,
			timeSeconds:    1140,
			wantIndex:      52.9,
			tolerance:      0.2,
		},
		{
			name:           "5K at 24:30",
			distanceMeters: 5000,
			timeSeconds:    1470,
			wantIndex:      39.2,
			tolerance:      0.2,
		},
		{
			name:           "10K at 40:00",
			distanceMeters: 10000,
			timeSeconds:    2400,
			wantIndex:      51.9,
			tolerance:      0.2,
		},
		{
			name:           "marathon at 3:30:00",
			distanceMeters: 42200,
			timeSeconds:    12600,
			wantIndex:      44.6,
			tolerance:      0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateFitnessIndex(tt.distanceMeters, tt.timeSeconds)
			if err != nil {
				t.Fatalf("CalculateFitnessIndex() error = %v", err)
			}
			if math.Abs(got-tt.wantIndex) > tt.tolerance {
				t.Errorf("CalculateFitnessIndex() = %v, want %v (±%v)", got, tt.wantIndex, tt.tolerance)
			}
		})
	}
}

func TestCalculateFitnessIndex_InvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		seconds  float64
	}{
		{"zero distance", 0, 1200},
		{"negative distance", -5000, 1200},
		{"zero time", 5000, 0},
		{"negative time", 5000, -60},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateFitnessIndex(tt.distance, tt.seconds)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBestFitnessIndex(t *testing.T) {
	records := []Performance{
		{Label: Distance5K, Meters: 5000, Seconds: 1470},      // ~39.2
		{Label: Distance10K, Meters: 10000, Seconds: 2400},    // ~51.9
		{Label: DistanceMarathon, Meters: 42200, Seconds: 12600}, // ~44.6
	}

	index, label, err := BestFitnessIndex(records)
	if err != nil {
		t.Fatalf("BestFitnessIndex() error = %v", err)
	}
	if label != Distance10K {
		t.Errorf("best label = %v, want %v", label, Distance10K)
	}
	if math.Abs(index-51.9) > 0.2 {
		t.Errorf("best index = %v, want ~51.9", index)
	}
}

func TestBestFitnessIndex_MonotonicUnderWorseRecords(t *testing.T) {
	base := []Performance{
		{Label: Distance10K, Meters: 10000, Seconds: 2400},
	}
	index1, _, err := BestFitnessIndex(base)
	if err != nil {
		t.Fatal(err)
	}

	// A slower record on any distance must never change the result.
	withWorse := append(base, Performance{Label: Distance5K, Meters: 5000, Seconds: 1800})
	index2, label, err := BestFitnessIndex(withWorse)
	if err != nil {
		t.Fatal(err)
	}
	if index2 != index1 {
		t.Errorf("adding a worse record changed the index: %v -> %v", index1, index2)
	}
	if label != Distance10K {
		t.Errorf("best label moved to %v", label)
	}
}

func TestBestFitnessIndex_Empty(t *testing.T) {
	if _, _, err := BestFitnessIndex(nil); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	uncomputable := []Performance{{Label: Distance5K, Meters: 0, Seconds: 0}}
	if _, _, err := BestFitnessIndex(uncomputable); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords for uncomputable set, got %v", err)
	}
}

func TestWeightedFitnessIndex(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	records := []Performance{
		{Label: Distance5K, Meters: 5000, Seconds: 1470, AchievedAt: now.AddDate(0, 0, -10)},
		{Label: Distance10K, Meters: 10000, Seconds: 3060, AchievedAt: now.AddDate(0, 0, -20)},
		{Label: Distance500m, Meters: 500, Seconds: 100, AchievedAt: now.AddDate(0, 0, -5)},
	}

	result, err := WeightedFitnessIndex(records, 90, now)
	if err != nil {
		t.Fatalf("WeightedFitnessIndex() error = %v", err)
	}
	if result.Records != 3 {
		t.Errorf("records = %d, want 3", result.Records)
	}
	if result.Index <= 0 {
		t.Errorf("index = %v, want positive", result.Index)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("confidence = %v, want (0,1]", result.Confidence)
	}
}

func TestWeightedFitnessIndex_SparseDataLowersConfidence(t *testing.T) {
	now := time.Now()
	single := []Performance{
		{Label: Distance5K, Meters: 5000, Seconds: 1470, AchievedAt: now},
	}

	result, err := WeightedFitnessIndex(single, 90, now)
	if err != nil {
		t.Fatal(err)
	}
	if result.Confidence > 0.7 {
		t.Errorf("confidence = %v, want <= 0.7 with fewer than 3 records", result.Confidence)
	}
}

func TestPredictTime_RoundTrip(t *testing.T) {
	distances := []float64{1000, 5000, 10000, 21100}

	for _, d := range distances {
		index, err := CalculateFitnessIndex(5000, 1200)
		if err != nil {
			t.Fatal(err)
		}
		predicted := PredictTime(index, d)
		if predicted <= 0 {
			t.Fatalf("PredictTime(%v, %v) = %d", index, d, predicted)
		}

		back, err := CalculateFitnessIndex(d, float64(predicted))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(back-index) > 0.2 {
			t.Errorf("round trip at %vm: index %v -> time %d -> index %v", d, index, predicted, back)
		}
	}
}

func TestPredictTime_LongerDistanceTakesLonger(t *testing.T) {
	if PredictTime(50, 10000) <= PredictTime(50, 5000) {
		t.Error("10K prediction should exceed 5K prediction at the same index")
	}
}

func TestEffectiveIndex(t *testing.T) {
	// No efforts: unchanged.
	if got := EffectiveIndex(50, nil); got != 50 {
		t.Errorf("EffectiveIndex with no efforts = %v, want 50", got)
	}

	// A wildly faster set of threshold efforts is clamped to +3.
	fast := []Performance{{Meters: 5000, Seconds: 5 * 200}} // 200s/km threshold effort
	got := EffectiveIndex(35, fast)
	if got > 38 || got < 35 {
		t.Errorf("EffectiveIndex = %v, want within [35, 38]", got)
	}
}
