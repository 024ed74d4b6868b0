package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

const calendarMonthLayout = "2006-01"

var ErrInvalidCalendarMonth = errors.New("invalid calendar month")

type CalendarDay struct {
	MonthGridCell
	Cycles           []DateCycleInfo `json:"cycles"`
	Primary          *DateCycleInfo  `json:"primary,omitempty"`
	IsPredictedStart bool            `json:"is_predicted_start"`
}

type CalendarMonth struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// ParseCalendarMonth reads a YYYY-MM value. An empty value selects the month
// containing now.
func ParseCalendarMonth(raw string, now time.Time, location *time.Location) (int, time.Month, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		local := DateAtLocation(now, location)
		return local.Year(), local.Month(), nil
	}
	parsed, err := time.Parse(calendarMonthLayout, raw)
	if err != nil {
		return 0, 0, ErrInvalidCalendarMonth
	}
	return parsed.Year(), parsed.Month(), nil
}

// BuildCalendarMonth joins the month grid with the calendar index and marks
// the predicted next start when it falls inside the grid.
func BuildCalendarMonth(year int, month time.Month, records []models.CycleRecord, now time.Time, location *time.Location, skips SkipReporter) CalendarMonth {
	cells := BuildMonthGrid(year, month, now, location)
	index := BuildCalendarIndex(records, location, skips)

	predictedKey := ""
	if prediction, ok := PredictNext(records, location, discardSkipReporter{}); ok {
		predictedKey = prediction.NextStart
	}

	days := make([]CalendarDay, 0, len(cells))
	for _, cell := range cells {
		day := CalendarDay{
			MonthGridCell:    cell,
			Cycles:           []DateCycleInfo{},
			IsPredictedStart: cell.DateString == predictedKey,
		}
		if primary, ok := index.Primary(cell.Date, location); ok {
			day.Cycles = index.Entries(cell.Date, location)
			day.Primary = &primary
		}
		days = append(days, day)
	}

	return CalendarMonth{
		Month: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(calendarMonthLayout),
		Days:  days,
	}
}
