package api

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestExportCSVRespectsRequestedDateRange(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, WithClock(fixedClock(time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC))))
	token := ta.register(t, "ada@example.com")
	ta.addCycle(t, token, map[string]any{"start_date": "2024-01-01", "end_date": "2024-01-05", "flow": "heavy", "notes": "before-range"})
	ta.addCycle(t, token, map[string]any{"start_date": "2024-01-29", "end_date": "2024-02-02", "symptoms": []string{"cramps", "fatigue"}, "notes": "in-range"})
	ta.addCycle(t, token, map[string]any{"start_date": "2024-03-01", "notes": "after-range"})

	response := ta.do(t, http.MethodGet, "/api/export/csv?from=2024-01-15&to=2024-02-15", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, readAPIError(t, response))
	}
	if disposition := response.Header.Get("Content-Disposition"); disposition != "attachment; filename=cyclelog-export-2024-04-10.csv" {
		t.Fatalf("unexpected content disposition %q", disposition)
	}

	rows, err := csv.NewReader(response.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "Start date" {
		t.Fatalf("expected header row, got %v", rows[0])
	}
	want := []string{"2024-01-29", "2024-02-02", "5", "Medium", "", "cramps; fatigue", "in-range"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Fatalf("expected row %v, got %v", want, rows[1])
	}
}

func TestExportJSONAndSummary(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	token := ta.register(t, "ada@example.com")
	ta.addCycle(t, token, map[string]any{"start_date": "2024-03-01", "end_date": "2024-03-05"})
	ta.addCycle(t, token, map[string]any{"start_date": "2024-01-01"})

	response := ta.do(t, http.MethodGet, "/api/export/json", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	payload := struct {
		ExportedAt string `json:"exported_at"`
		Entries    []struct {
			StartDate string `json:"start_date"`
			Length    int    `json:"length"`
		} `json:"entries"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.ExportedAt == "" || len(payload.Entries) != 2 {
		t.Fatalf("unexpected export payload %+v", payload)
	}
	if payload.Entries[0].StartDate != "2024-01-01" || payload.Entries[1].Length != 5 {
		t.Fatalf("expected oldest-first entries with lengths, got %+v", payload.Entries)
	}

	summary := map[string]any{}
	decodeJSON(t, ta.do(t, http.MethodGet, "/api/export/summary", token, nil), &summary)
	if summary["total_entries"] != float64(2) || summary["date_from"] != "2024-01-01" || summary["date_to"] != "2024-03-01" {
		t.Fatalf("unexpected summary %v", summary)
	}
}

func TestExportRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	token := ta.register(t, "ada@example.com")

	tests := []struct {
		query   string
		message string
	}{
		{query: "from=yesterday", message: "invalid from date"},
		{query: "to=2024-02-30", message: "invalid to date"},
		{query: "from=2024-02-01&to=2024-01-01", message: "invalid range"},
	}

	for _, tc := range tests {
		response := ta.do(t, http.MethodGet, "/api/export/csv?"+tc.query, token, nil)
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.query, response.StatusCode)
		}
		if message := readAPIError(t, response); message != tc.message {
			t.Fatalf("%s: expected %q, got %q", tc.query, tc.message, message)
		}
	}

	if response := ta.do(t, http.MethodGet, "/api/export/csv", "", nil); response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", response.StatusCode)
	}
}
