package models

import (
	"errors"
	"strings"
	"time"
)

type Flow string

const (
	FlowLight    Flow = "light"
	FlowMedium   Flow = "medium"
	FlowHeavy    Flow = "heavy"
	FlowSpotting Flow = "spotting"
)

type Mood string

const (
	MoodNone      Mood = ""
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodIrritable Mood = "irritable"
	MoodAnxious   Mood = "anxious"
	MoodNeutral   Mood = "neutral"
	MoodEnergetic Mood = "energetic"
)

const (
	DefaultCycleLength = 28
	DefaultFlow        = FlowMedium
)

var (
	ErrUnknownFlow = errors.New("unknown flow")
	ErrUnknownMood = errors.New("unknown mood")
)

// CycleRecord is one logged period. EndDate is nil while the period is ongoing.
type CycleRecord struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"-"`
	StartDate time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Flow      Flow       `gorm:"not null;default:medium" json:"flow"`
	Mood      Mood       `gorm:"not null;default:''" json:"mood,omitempty"`
	Symptoms  []string   `gorm:"serializer:json" json:"symptoms"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (CycleRecord) TableName() string {
	return "cycles"
}

func Flows() []Flow {
	return []Flow{FlowLight, FlowMedium, FlowHeavy, FlowSpotting}
}

func Moods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodIrritable, MoodAnxious, MoodNeutral, MoodEnergetic}
}

func ParseFlow(raw string) (Flow, error) {
	normalized := Flow(strings.ToLower(strings.TrimSpace(raw)))
	for _, flow := range Flows() {
		if normalized == flow {
			return flow, nil
		}
	}
	return "", ErrUnknownFlow
}

// ParseMood accepts an empty value as "no mood logged".
func ParseMood(raw string) (Mood, error) {
	normalized := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == MoodNone {
		return MoodNone, nil
	}
	for _, mood := range Moods() {
		if normalized == mood {
			return mood, nil
		}
	}
	return "", ErrUnknownMood
}
