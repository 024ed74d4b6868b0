package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/cyclelog/internal/models"
)

const MaxCycleNotesLength = 2000

var (
	ErrCycleStartRequired  = errors.New("cycle start date is required")
	ErrCycleEndBeforeStart = errors.New("cycle end date is before start date")
	ErrInvalidFlow         = errors.New("invalid cycle flow")
	ErrInvalidMood         = errors.New("invalid cycle mood")
	ErrCycleNotesTooLong   = errors.New("cycle notes too long")
)

// CycleInput is the editable part of a cycle record as submitted by a client.
type CycleInput struct {
	StartDate time.Time
	EndDate   *time.Time
	Flow      string
	Mood      string
	Symptoms  []string
	Notes     string
}

// CycleFields is a validated CycleInput ready to be written to a record.
type CycleFields struct {
	StartDate time.Time
	EndDate   *time.Time
	Flow      models.Flow
	Mood      models.Mood
	Symptoms  []string
	Notes     string
}

func NormalizeCycleInput(input CycleInput, location *time.Location) (CycleFields, error) {
	if input.StartDate.IsZero() {
		return CycleFields{}, ErrCycleStartRequired
	}

	result := CycleFields{
		StartDate: DateAtLocation(input.StartDate, location),
	}
	if input.EndDate != nil && !input.EndDate.IsZero() {
		end := DateAtLocation(*input.EndDate, location)
		if end.Before(result.StartDate) {
			return CycleFields{}, ErrCycleEndBeforeStart
		}
		result.EndDate = &end
	}

	if strings.TrimSpace(input.Flow) == "" {
		result.Flow = models.DefaultFlow
	} else {
		flow, err := models.ParseFlow(input.Flow)
		if err != nil {
			return CycleFields{}, ErrInvalidFlow
		}
		result.Flow = flow
	}

	mood, err := models.ParseMood(input.Mood)
	if err != nil {
		return CycleFields{}, ErrInvalidMood
	}
	result.Mood = mood

	result.Notes = strings.TrimSpace(input.Notes)
	if len([]rune(result.Notes)) > MaxCycleNotesLength {
		return CycleFields{}, ErrCycleNotesTooLong
	}

	result.Symptoms = normalizeSymptomLabels(input.Symptoms)
	return result, nil
}

// normalizeSymptomLabels trims labels and drops case-insensitive duplicates,
// keeping the first spelling.
func normalizeSymptomLabels(raw []string) []string {
	labels := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		label := strings.TrimSpace(value)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

func (input CycleFields) applyTo(record *models.CycleRecord) {
	record.StartDate = input.StartDate
	record.EndDate = input.EndDate
	record.Flow = input.Flow
	record.Mood = input.Mood
	record.Symptoms = input.Symptoms
	record.Notes = input.Notes
}
