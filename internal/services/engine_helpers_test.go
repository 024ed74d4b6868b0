package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()

	day, err := ParseDateKey(raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}

func loadSantiago(t *testing.T) *time.Location {
	t.Helper()

	location, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return location
}

func cycleOn(t *testing.T, id string, start string, end string) models.CycleRecord {
	t.Helper()

	record := models.CycleRecord{
		ID:        id,
		StartDate: mustParseDay(t, start),
		Flow:      models.FlowMedium,
	}
	if end != "" {
		endDay := mustParseDay(t, end)
		record.EndDate = &endDay
	}
	return record
}

type recordingSkipReporter struct {
	skipped []skippedRecord
}

type skippedRecord struct {
	ID     string
	Reason SkipReason
}

func (reporter *recordingSkipReporter) ReportSkipped(record models.CycleRecord, reason SkipReason) {
	reporter.skipped = append(reporter.skipped, skippedRecord{ID: record.ID, Reason: reason})
}
