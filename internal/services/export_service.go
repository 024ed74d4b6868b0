package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

var ExportCSVHeaders = []string{
	"Start date",
	"End date",
	"Length",
	"Flow",
	"Mood",
	"Symptoms",
	"Notes",
}

type ExportCycleReader interface {
	ListByUser(userID uint) ([]models.CycleRecord, error)
}

type ExportService struct {
	cycles   ExportCycleReader
	location *time.Location
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

// ExportEntry is one cycle in export form. Length is zero while the period
// is ongoing.
type ExportEntry struct {
	ID        string   `json:"id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Length    int      `json:"length,omitempty"`
	Flow      string   `json:"flow"`
	Mood      string   `json:"mood,omitempty"`
	Symptoms  []string `json:"symptoms"`
	Notes     string   `json:"notes,omitempty"`
}

func NewExportService(cycles ExportCycleReader, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{cycles: cycles, location: location}
}

// BuildEntries returns the user's cycles whose start falls inside bounds,
// oldest first.
func (service *ExportService) BuildEntries(userID uint, bounds ExportRange) ([]ExportEntry, error) {
	records, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleLoadFailed, err)
	}

	selected := make([]models.CycleRecord, 0, len(records))
	for _, record := range records {
		if bounds.Contains(record.StartDate, service.location) {
			selected = append(selected, record)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].StartDate.Before(selected[j].StartDate)
	})

	entries := make([]ExportEntry, 0, len(selected))
	for _, record := range selected {
		entries = append(entries, service.exportEntry(record))
	}
	return entries, nil
}

func (service *ExportService) BuildSummary(userID uint, bounds ExportRange) (ExportSummary, error) {
	entries, err := service.BuildEntries(userID, bounds)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}
	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     entries[0].StartDate,
		DateTo:       entries[len(entries)-1].StartDate,
	}, nil
}

func (service *ExportService) exportEntry(record models.CycleRecord) ExportEntry {
	entry := ExportEntry{
		ID:        record.ID,
		StartDate: DateKey(record.StartDate, service.location),
		Flow:      string(record.Flow),
		Mood:      string(record.Mood),
		Symptoms:  append([]string{}, record.Symptoms...),
		Notes:     record.Notes,
	}
	if record.EndDate != nil {
		entry.EndDate = DateKey(*record.EndDate, service.location)
		if days := signedDaysBetween(record.StartDate, *record.EndDate, service.location); days >= 0 {
			entry.Length = days + 1
		}
	}
	return entry
}

func (entry ExportEntry) CSVColumns() []string {
	length := ""
	if entry.Length > 0 {
		length = strconv.Itoa(entry.Length)
	}
	return []string{
		entry.StartDate,
		entry.EndDate,
		length,
		csvLabel(entry.Flow),
		csvLabel(entry.Mood),
		strings.Join(entry.Symptoms, "; "),
		entry.Notes,
	}
}

func csvLabel(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
