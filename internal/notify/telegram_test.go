package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

type capturedRequest struct {
	Path string
	Body string
}

func newFakeBotAPI(t *testing.T, ok bool) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	captured := make([]capturedRequest, 0)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		captured = append(captured, capturedRequest{Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":          false,
				"error_code":  400,
				"description": "Bad Request: chat not found",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": 1,
				"date":       0,
				"chat":       map[string]any{"id": 111, "type": "private"},
				"text":       "ok",
			},
		})
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), captured...)
	}
}

func TestTelegramNotifierSendsMessage(t *testing.T) {
	t.Parallel()

	server, requests := newFakeBotAPI(t, true)
	notifier, err := NewTelegramNotifier("123:abc", WithAPIURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegramNotifier() unexpected error: %v", err)
	}

	if err := notifier.Notify(context.Background(), 111, "period in 2 days"); err != nil {
		t.Fatalf("Notify() unexpected error: %v", err)
	}

	got := requests()
	if len(got) != 1 {
		t.Fatalf("expected one API call, got %d", len(got))
	}
	if got[0].Path != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected API path %q", got[0].Path)
	}
	if !strings.Contains(got[0].Body, "111") || !strings.Contains(got[0].Body, "period in 2 days") {
		t.Fatalf("unexpected request body %s", got[0].Body)
	}
}

func TestTelegramNotifierReportsAPIError(t *testing.T) {
	t.Parallel()

	server, _ := newFakeBotAPI(t, false)
	notifier, err := NewTelegramNotifier("123:abc", WithAPIURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegramNotifier() unexpected error: %v", err)
	}

	if err := notifier.Notify(context.Background(), 111, "hello"); err == nil {
		t.Fatal("expected API error to surface")
	}
}

func TestNotifiersRespectCancelledContext(t *testing.T) {
	t.Parallel()

	server, requests := newFakeBotAPI(t, true)
	telegram, err := NewTelegramNotifier("123:abc", WithAPIURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegramNotifier() unexpected error: %v", err)
	}
	logOnly := NewLogNotifier(logrus.NewEntry(logrus.New()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := telegram.Notify(ctx, 1, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := logOnly.Notify(ctx, 1, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(requests()) != 0 {
		t.Fatal("expected no API calls after cancellation")
	}
}

func TestLogNotifierSucceeds(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if err := NewLogNotifier(logrus.NewEntry(logger)).Notify(context.Background(), 5, "hello"); err != nil {
		t.Fatalf("Notify() unexpected error: %v", err)
	}
}
