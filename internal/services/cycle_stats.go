package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

// Two distinct gap bands, both exclusive. Analytics tolerates anything short
// of a missed quarter; forecasting only trusts typical cycle lengths.
const (
	statsGapMinExclusive      = 0
	statsGapMaxExclusive      = 100
	predictionGapMinExclusive = 20
	predictionGapMaxExclusive = 40
)

// CycleStats summarizes accepted gaps. TotalCycles counts usable records;
// RecordCount counts everything supplied, malformed records included.
type CycleStats struct {
	TotalCycles   int                `json:"total_cycles"`
	RecordCount   int                `json:"record_count"`
	AvgLengthDays int                `json:"avg_length_days"`
	ShortestDays  int                `json:"shortest_days"`
	LongestDays   int                `json:"longest_days"`
	GapCount      int                `json:"gap_count"`
	History       []CycleLengthPoint `json:"history"`
}

// CycleLengthPoint is one accepted gap, dated at the start that closed it.
type CycleLengthPoint struct {
	Date       time.Time `json:"-"`
	DateString string    `json:"date"`
	LengthDays int       `json:"length_days"`
}

type cycleGap struct {
	ClosedAt time.Time
	Days     int
}

func BuildCycleStats(records []models.CycleRecord, location *time.Location, skips SkipReporter) CycleStats {
	sorted := sortedValidCycles(records, location, skips)
	stats := CycleStats{
		TotalCycles: len(sorted),
		RecordCount: len(records),
		History:     []CycleLengthPoint{},
	}

	gaps := filterGaps(startGaps(sorted, location), statsGapMinExclusive, statsGapMaxExclusive)
	if len(gaps) == 0 {
		return stats
	}

	lengths := make([]int, 0, len(gaps))
	for _, gap := range gaps {
		lengths = append(lengths, gap.Days)
		stats.History = append(stats.History, CycleLengthPoint{
			Date:       gap.ClosedAt,
			DateString: gap.ClosedAt.Format(dateKeyLayout),
			LengthDays: gap.Days,
		})
	}

	stats.GapCount = len(lengths)
	stats.AvgLengthDays = roundedAverage(lengths)
	stats.ShortestDays, stats.LongestDays = minMaxInts(lengths)
	return stats
}

// PredictionGapLengths returns the gaps that pass the forecasting band.
func PredictionGapLengths(records []models.CycleRecord, location *time.Location, skips SkipReporter) []int {
	return predictionGapLengths(sortedValidCycles(records, location, skips), location)
}

func predictionGapLengths(sorted []models.CycleRecord, location *time.Location) []int {
	gaps := filterGaps(startGaps(sorted, location), predictionGapMinExclusive, predictionGapMaxExclusive)
	lengths := make([]int, 0, len(gaps))
	for _, gap := range gaps {
		lengths = append(lengths, gap.Days)
	}
	return lengths
}

// sortedValidCycles drops malformed records and returns copies ordered by start
// date ascending, with dates normalized to location midnight. The input slice
// is never modified.
func sortedValidCycles(records []models.CycleRecord, location *time.Location, skips SkipReporter) []models.CycleRecord {
	skips = skipReporterOrDiscard(skips)

	valid := make([]models.CycleRecord, 0, len(records))
	for _, record := range records {
		normalized, reason, ok := normalizeCycleDates(record, location)
		if !ok {
			skips.ReportSkipped(record, reason)
			continue
		}
		valid = append(valid, normalized)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartDate.Before(valid[j].StartDate)
	})
	return valid
}

func normalizeCycleDates(record models.CycleRecord, location *time.Location) (models.CycleRecord, SkipReason, bool) {
	if record.StartDate.IsZero() {
		return models.CycleRecord{}, SkipMissingStart, false
	}

	record.StartDate = DateAtLocation(record.StartDate, location)
	if record.EndDate != nil {
		end := DateAtLocation(*record.EndDate, location)
		if end.Before(record.StartDate) {
			return models.CycleRecord{}, SkipEndBeforeStart, false
		}
		record.EndDate = &end
	}
	return record, "", true
}

func startGaps(sorted []models.CycleRecord, location *time.Location) []cycleGap {
	if len(sorted) < 2 {
		return nil
	}

	gaps := make([]cycleGap, 0, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		gaps = append(gaps, cycleGap{
			ClosedAt: sorted[i+1].StartDate,
			Days:     DaysBetween(sorted[i].StartDate, sorted[i+1].StartDate, location),
		})
	}
	return gaps
}

func filterGaps(gaps []cycleGap, minExclusive int, maxExclusive int) []cycleGap {
	filtered := make([]cycleGap, 0, len(gaps))
	for _, gap := range gaps {
		if gap.Days > minExclusive && gap.Days < maxExclusive {
			filtered = append(filtered, gap)
		}
	}
	return filtered
}

func roundedAverage(values []int) int {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, value := range values {
		total += value
	}
	return int(math.Round(float64(total) / float64(len(values))))
}

func minMaxInts(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}
	minimum, maximum := values[0], values[0]
	for _, value := range values[1:] {
		if value < minimum {
			minimum = value
		}
		if value > maximum {
			maximum = value
		}
	}
	return minimum, maximum
}
