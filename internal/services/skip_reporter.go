package services

import (
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/models"
)

type SkipReason string

const (
	SkipMissingStart   SkipReason = "missing_start"
	SkipEndBeforeStart SkipReason = "end_before_start"
	SkipSpanTooLong    SkipReason = "span_too_long"
)

// SkipReporter receives records that analytics had to leave out. A bad record
// never aborts a computation; it is reported here and skipped.
type SkipReporter interface {
	ReportSkipped(record models.CycleRecord, reason SkipReason)
}

type SkipCounter interface {
	SkippedRecord(reason string)
}

type LoggingSkipReporter struct {
	log     *logrus.Entry
	counter SkipCounter
}

func NewLoggingSkipReporter(log *logrus.Entry, counter SkipCounter) *LoggingSkipReporter {
	return &LoggingSkipReporter{log: log, counter: counter}
}

func (reporter *LoggingSkipReporter) ReportSkipped(record models.CycleRecord, reason SkipReason) {
	if reporter == nil {
		return
	}
	if reporter.log != nil {
		reporter.log.WithFields(logrus.Fields{
			"cycle_id": record.ID,
			"user_id":  record.UserID,
			"reason":   string(reason),
		}).Warn("cycle record skipped")
	}
	if reporter.counter != nil {
		reporter.counter.SkippedRecord(string(reason))
	}
}

type discardSkipReporter struct{}

func (discardSkipReporter) ReportSkipped(models.CycleRecord, SkipReason) {}

func skipReporterOrDiscard(reporter SkipReporter) SkipReporter {
	if reporter == nil {
		return discardSkipReporter{}
	}
	return reporter
}
