package services

import (
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateAtLocation returns the first instant of value's calendar day in
// location. That is local midnight, or the end of the DST gap in zones where
// midnight is skipped.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return startOfDay(year, month, day, location)
}

// DateKey is the calendar-day key used by every date-indexed view.
func DateKey(value time.Time, location *time.Location) string {
	return civilDay(value, location).Format(dateKeyLayout)
}

// ParseDateKey reads a YYYY-MM-DD key as that calendar day in location.
func ParseDateKey(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.Parse(dateKeyLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := parsed.Date()
	return startOfDay(year, month, day, location), nil
}

// DaysBetween counts whole calendar days between a and b in location. The
// result is symmetric and ignores time of day.
func DaysBetween(a time.Time, b time.Time, location *time.Location) int {
	days := signedDaysBetween(a, b, location)
	if days < 0 {
		return -days
	}
	return days
}

// signedDaysBetween is positive when to falls after from.
func signedDaysBetween(from time.Time, to time.Time, location *time.Location) int {
	return int(civilDay(to, location).Sub(civilDay(from, location)).Hours() / 24)
}

// addCivilDays moves value by whole calendar days in location.
func addCivilDays(value time.Time, days int, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := civilDay(value, location).AddDate(0, 0, days).Date()
	return startOfDay(year, month, day, location)
}

// civilDay carries value's calendar date in location as UTC midnight, where
// every day is exactly 24h long.
func civilDay(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func startOfDay(year int, month time.Month, day int, location *time.Location) time.Time {
	midnight := time.Date(year, month, day, 0, 0, 0, 0, location)
	if sameDate(midnight, year, month, day) {
		return midnight
	}
	// Midnight falls in a DST gap; the day begins when the gap ends.
	for hour := 1; hour < 24; hour++ {
		candidate := time.Date(year, month, day, hour, 0, 0, 0, location)
		if sameDate(candidate, year, month, day) {
			return candidate
		}
	}
	return midnight
}

func sameDate(value time.Time, year int, month time.Month, day int) bool {
	y, m, d := value.Date()
	return y == year && m == month && d == day
}

type MonthGridCell struct {
	Date           time.Time `json:"-"`
	DateString     string    `json:"date"`
	Day            int       `json:"day"`
	IsCurrentMonth bool      `json:"is_current_month"`
	IsToday        bool      `json:"is_today"`
}

// BuildMonthGrid lays out the month as whole Sunday-first weeks, padding with
// days from the neighbouring months.
func BuildMonthGrid(year int, month time.Month, today time.Time, location *time.Location) []MonthGridCell {
	if location == nil {
		location = time.UTC
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	todayKey := DateKey(today, location)

	cells := make([]MonthGridCell, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateKeyLayout)
		cellYear, cellMonth, cellDay := day.Date()
		cells = append(cells, MonthGridCell{
			Date:           startOfDay(cellYear, cellMonth, cellDay, location),
			DateString:     key,
			Day:            cellDay,
			IsCurrentMonth: cellMonth == monthStart.Month() && cellYear == monthStart.Year(),
			IsToday:        key == todayKey,
		})
	}
	return cells
}
