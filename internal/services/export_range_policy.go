package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange bounds an export by cycle start date. Nil ends are open.
type ExportRange struct {
	From *time.Time
	To   *time.Time
}

func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (ExportRange, error) {
	from, err := parseOptionalExportDay(rawFrom, location)
	if err != nil {
		return ExportRange{}, ErrExportFromDateInvalid
	}
	to, err := parseOptionalExportDay(rawTo, location)
	if err != nil {
		return ExportRange{}, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return ExportRange{From: from, To: to}, nil
}

func (bounds ExportRange) Contains(day time.Time, location *time.Location) bool {
	if bounds.From != nil && signedDaysBetween(*bounds.From, day, location) < 0 {
		return false
	}
	if bounds.To != nil && signedDaysBetween(day, *bounds.To, location) < 0 {
		return false
	}
	return true
}

func parseOptionalExportDay(raw string, location *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := ParseDateKey(trimmed, location)
	if err != nil {
		return nil, err
	}
	day := DateAtLocation(parsed, location)
	return &day, nil
}
