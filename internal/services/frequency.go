package services

import (
	"sort"
	"strings"

	"github.com/terraincognita07/cyclelog/internal/models"
)

const topSymptomBuckets = 5

type FrequencyBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SymptomFrequencies counts every symptom occurrence across all records and
// keeps the five most frequent. Dates are not consulted, so records that
// analytics skip still count here.
func SymptomFrequencies(records []models.CycleRecord) []FrequencyBucket {
	counter := newFrequencyCounter()
	for _, record := range records {
		for _, symptom := range record.Symptoms {
			counter.add(symptom)
		}
	}
	return counter.buckets(topSymptomBuckets)
}

func MoodFrequencies(records []models.CycleRecord) []FrequencyBucket {
	counter := newFrequencyCounter()
	for _, record := range records {
		counter.add(string(record.Mood))
	}
	return counter.buckets(0)
}

type frequencyCounter struct {
	order  []string
	counts map[string]int
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{counts: make(map[string]int)}
}

func (counter *frequencyCounter) add(raw string) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return
	}
	if _, seen := counter.counts[label]; !seen {
		counter.order = append(counter.order, label)
	}
	counter.counts[label]++
}

// buckets sorts by count descending with ties kept in first-seen order. A
// limit of zero keeps every bucket.
func (counter *frequencyCounter) buckets(limit int) []FrequencyBucket {
	result := make([]FrequencyBucket, 0, len(counter.order))
	for _, label := range counter.order {
		result = append(result, FrequencyBucket{Label: label, Count: counter.counts[label]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
