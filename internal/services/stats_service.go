package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

type StatsCycleReader interface {
	ListByUser(userID uint) ([]models.CycleRecord, error)
}

type StatsService struct {
	cycles   StatsCycleReader
	location *time.Location
	skips    SkipReporter
}

type StatsReport struct {
	Cycles   CycleStats        `json:"cycles"`
	Symptoms []FrequencyBucket `json:"symptoms"`
	Moods    []FrequencyBucket `json:"moods"`
}

type PredictionReport struct {
	Available  bool              `json:"available"`
	Prediction *Prediction       `json:"prediction,omitempty"`
	Status     *PredictionStatus `json:"status,omitempty"`
}

func NewStatsService(cycles StatsCycleReader, location *time.Location, skips SkipReporter) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{
		cycles:   cycles,
		location: location,
		skips:    skipReporterOrDiscard(skips),
	}
}

func (service *StatsService) Location() *time.Location {
	return service.location
}

func (service *StatsService) BuildStats(userID uint) (StatsReport, error) {
	records, err := service.load(userID)
	if err != nil {
		return StatsReport{}, err
	}
	return BuildStatsReport(records, service.location, service.skips), nil
}

func (service *StatsService) BuildCalendar(userID uint, year int, month time.Month, now time.Time) (CalendarMonth, error) {
	records, err := service.load(userID)
	if err != nil {
		return CalendarMonth{}, err
	}
	return BuildCalendarMonth(year, month, records, now, service.location, service.skips), nil
}

func (service *StatsService) BuildPrediction(userID uint, now time.Time) (PredictionReport, error) {
	records, err := service.load(userID)
	if err != nil {
		return PredictionReport{}, err
	}
	return BuildPredictionReport(records, now, service.location, service.skips), nil
}

func (service *StatsService) load(userID uint) ([]models.CycleRecord, error) {
	records, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleLoadFailed, err)
	}
	return records, nil
}

func BuildStatsReport(records []models.CycleRecord, location *time.Location, skips SkipReporter) StatsReport {
	return StatsReport{
		Cycles:   BuildCycleStats(records, location, skips),
		Symptoms: SymptomFrequencies(records),
		Moods:    MoodFrequencies(records),
	}
}

func BuildPredictionReport(records []models.CycleRecord, now time.Time, location *time.Location, skips SkipReporter) PredictionReport {
	prediction, ok := PredictNext(records, location, skips)
	if !ok {
		return PredictionReport{Available: false}
	}
	status := ClassifyPrediction(prediction, now, location)
	return PredictionReport{
		Available:  true,
		Prediction: &prediction,
		Status:     &status,
	}
}
