package api

import (
	"net/http"
	"testing"
)

func TestCycleCRUDLifecycle(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	token := ta.register(t, "ada@example.com")

	created := ta.addCycle(t, token, map[string]any{
		"start_date": "2024-03-01",
		"flow":       "Heavy",
		"symptoms":   []string{"Cramps", "cramps", "Headache"},
	})
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected generated id, got %+v", created)
	}
	if created["flow"] != "heavy" {
		t.Fatalf("expected normalized flow, got %v", created["flow"])
	}
	if symptoms, _ := created["symptoms"].([]any); len(symptoms) != 2 {
		t.Fatalf("expected deduplicated symptoms, got %v", created["symptoms"])
	}

	response := ta.do(t, http.MethodPut, "/api/cycles/"+id, token, map[string]any{
		"start_date": "2024-03-01",
		"end_date":   "2024-03-05",
		"flow":       "light",
		"mood":       "happy",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected update 200, got %d: %s", response.StatusCode, readAPIError(t, response))
	}
	updated := map[string]any{}
	decodeJSON(t, response, &updated)
	if updated["mood"] != "happy" || updated["end_date"] == nil {
		t.Fatalf("unexpected update result %+v", updated)
	}

	response = ta.do(t, http.MethodGet, "/api/cycles/"+id, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected get 200, got %d", response.StatusCode)
	}

	response = ta.do(t, http.MethodDelete, "/api/cycles/"+id, token, nil)
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected delete 204, got %d", response.StatusCode)
	}

	response = ta.do(t, http.MethodGet, "/api/cycles/"+id, token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "cycle not found" {
		t.Fatalf("unexpected error %q", message)
	}
}

func TestListCyclesNewestFirstAndScopedToUser(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	ada := ta.register(t, "ada@example.com")
	bob := ta.register(t, "bob@example.com")

	ta.addCycle(t, ada, map[string]any{"start_date": "2024-01-01"})
	ta.addCycle(t, ada, map[string]any{"start_date": "2024-02-01"})
	bobCycle := ta.addCycle(t, bob, map[string]any{"start_date": "2024-03-01"})

	response := ta.do(t, http.MethodGet, "/api/cycles", ada, nil)
	cycles := []map[string]any{}
	decodeJSON(t, response, &cycles)
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles for ada, got %d", len(cycles))
	}
	first, _ := cycles[0]["start_date"].(string)
	if len(first) < 10 || first[:10] != "2024-02-01" {
		t.Fatalf("expected newest first, got %v", cycles[0]["start_date"])
	}

	bobID, _ := bobCycle["id"].(string)
	if response := ta.do(t, http.MethodDelete, "/api/cycles/"+bobID, ada, nil); response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting another user's cycle, got %d", response.StatusCode)
	}
}

func TestCreateCycleValidation(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t)
	token := ta.register(t, "ada@example.com")

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{name: "missing start", body: map[string]any{"flow": "light"}, message: "cycle start date is required"},
		{name: "bad start", body: map[string]any{"start_date": "03/01/2024"}, message: "invalid start date"},
		{name: "bad end", body: map[string]any{"start_date": "2024-03-01", "end_date": "soon"}, message: "invalid end date"},
		{name: "end before start", body: map[string]any{"start_date": "2024-03-10", "end_date": "2024-03-01"}, message: "cycle end date is before start date"},
		{name: "unknown flow", body: map[string]any{"start_date": "2024-03-01", "flow": "extreme"}, message: "invalid cycle flow"},
		{name: "unknown mood", body: map[string]any{"start_date": "2024-03-01", "mood": "bored"}, message: "invalid cycle mood"},
	}

	for _, tt := range tests {
		response := ta.do(t, http.MethodPost, "/api/cycles", token, tt.body)
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.name, response.StatusCode)
		}
		if message := readAPIError(t, response); message != tt.message {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.message, message)
		}
	}
}
