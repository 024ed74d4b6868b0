package services

import (
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

type Prediction struct {
	NextStartDate time.Time `json:"-"`
	NextStart     string    `json:"next_start_date"`
	AvgLengthDays int       `json:"avg_length_days"`
	SampleCount   int       `json:"sample_count"`
}

type PredictionState string

const (
	PredictionUpcoming PredictionState = "upcoming"
	PredictionToday    PredictionState = "today"
	PredictionLate     PredictionState = "late"
)

type PredictionStatus struct {
	State     PredictionState `json:"state"`
	DaysUntil int             `json:"days_until"`
}

// PredictNext projects the next period start from the most recent start plus
// the average typical-band gap. It reports false until two usable cycles exist.
func PredictNext(records []models.CycleRecord, location *time.Location, skips SkipReporter) (Prediction, bool) {
	sorted := sortedValidCycles(records, location, skips)
	if len(sorted) < 2 {
		return Prediction{}, false
	}

	lengths := predictionGapLengths(sorted, location)
	avgLength := models.DefaultCycleLength
	if len(lengths) > 0 {
		avgLength = roundedAverage(lengths)
	}

	anchor := sorted[len(sorted)-1].StartDate
	next := addCivilDays(anchor, avgLength, location)
	return Prediction{
		NextStartDate: next,
		NextStart:     DateKey(next, location),
		AvgLengthDays: avgLength,
		SampleCount:   len(lengths),
	}, true
}

// ClassifyPrediction compares the predicted start with today's date.
func ClassifyPrediction(prediction Prediction, now time.Time, location *time.Location) PredictionStatus {
	daysUntil := signedDaysBetween(now, prediction.NextStartDate, location)
	switch {
	case daysUntil > 0:
		return PredictionStatus{State: PredictionUpcoming, DaysUntil: daysUntil}
	case daysUntil == 0:
		return PredictionStatus{State: PredictionToday, DaysUntil: 0}
	default:
		return PredictionStatus{State: PredictionLate, DaysUntil: daysUntil}
	}
}
