package services

import (
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

// MaxCycleSpanDays bounds per-cycle day enumeration. A logged period longer
// than a year is a data-entry error, not something to expand day by day.
const MaxCycleSpanDays = 366

type DateCycleInfo struct {
	CycleID    string      `json:"cycle_id"`
	IsStart    bool        `json:"is_start"`
	IsEnd      bool        `json:"is_end"`
	DayOfCycle int         `json:"day_of_cycle"`
	Flow       models.Flow `json:"flow"`
}

// CalendarIndex maps a date key (YYYY-MM-DD) to the cycles covering that day,
// in the order the cycles were supplied. Overlaps are kept; callers that need
// a single cycle per day use the first entry.
type CalendarIndex map[string][]DateCycleInfo

func BuildCalendarIndex(records []models.CycleRecord, location *time.Location, skips SkipReporter) CalendarIndex {
	skips = skipReporterOrDiscard(skips)
	index := make(CalendarIndex)

	for _, record := range records {
		normalized, reason, ok := normalizeCycleDates(record, location)
		if !ok {
			skips.ReportSkipped(record, reason)
			continue
		}
		if normalized.EndDate == nil {
			continue
		}

		start := civilDay(normalized.StartDate, location)
		end := civilDay(*normalized.EndDate, location)
		if DaysBetween(start, end, time.UTC)+1 > MaxCycleSpanDays {
			skips.ReportSkipped(record, SkipSpanTooLong)
			continue
		}

		dayOfCycle := 1
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := day.Format(dateKeyLayout)
			index[key] = append(index[key], DateCycleInfo{
				CycleID:    normalized.ID,
				IsStart:    dayOfCycle == 1,
				IsEnd:      day.Equal(end),
				DayOfCycle: dayOfCycle,
				Flow:       normalized.Flow,
			})
			dayOfCycle++
		}
	}

	return index
}

func (index CalendarIndex) Entries(day time.Time, location *time.Location) []DateCycleInfo {
	return index[DateKey(day, location)]
}

// Primary returns the first cycle recorded for the day.
func (index CalendarIndex) Primary(day time.Time, location *time.Location) (DateCycleInfo, bool) {
	entries := index.Entries(day, location)
	if len(entries) == 0 {
		return DateCycleInfo{}, false
	}
	return entries[0], true
}
