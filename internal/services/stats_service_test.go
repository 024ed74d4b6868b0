package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

type stubStatsCycles struct {
	records []models.CycleRecord
	err     error
}

func (stub *stubStatsCycles) ListByUser(uint) ([]models.CycleRecord, error) {
	return stub.records, stub.err
}

func TestStatsServiceBuildStats(t *testing.T) {
	t.Parallel()

	first := cycleOn(t, "a", "2024-01-01", "2024-01-05")
	first.Symptoms = []string{"Cramps", "Bloating"}
	first.Mood = models.MoodSad
	second := cycleOn(t, "b", "2024-01-29", "")
	second.Symptoms = []string{"Cramps"}
	second.Mood = models.MoodSad

	service := NewStatsService(&stubStatsCycles{records: []models.CycleRecord{second, first}}, time.UTC, nil)
	report, err := service.BuildStats(1)
	if err != nil {
		t.Fatalf("BuildStats() unexpected error: %v", err)
	}
	if report.Cycles.TotalCycles != 2 || report.Cycles.AvgLengthDays != 28 {
		t.Fatalf("unexpected cycle stats %+v", report.Cycles)
	}
	if len(report.Symptoms) != 2 || report.Symptoms[0] != (FrequencyBucket{Label: "Cramps", Count: 2}) {
		t.Fatalf("unexpected symptoms %+v", report.Symptoms)
	}
	if len(report.Moods) != 1 || report.Moods[0].Count != 2 {
		t.Fatalf("unexpected moods %+v", report.Moods)
	}
}

func TestStatsServiceBuildPrediction(t *testing.T) {
	t.Parallel()

	records := []models.CycleRecord{cycleOn(t, "a", "2024-01-01", ""), cycleOn(t, "b", "2024-01-29", "")}
	service := NewStatsService(&stubStatsCycles{records: records}, time.UTC, nil)

	report, err := service.BuildPrediction(1, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildPrediction() unexpected error: %v", err)
	}
	if !report.Available || report.Prediction.NextStart != "2024-02-26" {
		t.Fatalf("unexpected prediction %+v", report)
	}
	if report.Status.State != PredictionUpcoming || report.Status.DaysUntil != 6 {
		t.Fatalf("unexpected status %+v", report.Status)
	}

	empty := NewStatsService(&stubStatsCycles{}, time.UTC, nil)
	report, err = empty.BuildPrediction(1, time.Now())
	if err != nil {
		t.Fatalf("BuildPrediction() unexpected error: %v", err)
	}
	if report.Available || report.Prediction != nil || report.Status != nil {
		t.Fatalf("expected unavailable prediction, got %+v", report)
	}
}

func TestStatsServiceWrapsLoadFailure(t *testing.T) {
	t.Parallel()

	service := NewStatsService(&stubStatsCycles{err: errors.New("boom")}, time.UTC, nil)
	if _, err := service.BuildStats(1); !errors.Is(err, ErrCycleLoadFailed) {
		t.Fatalf("expected ErrCycleLoadFailed, got %v", err)
	}
	if _, err := service.BuildCalendar(1, 2024, time.March, time.Now()); !errors.Is(err, ErrCycleLoadFailed) {
		t.Fatalf("expected ErrCycleLoadFailed, got %v", err)
	}
}
