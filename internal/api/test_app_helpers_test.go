package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/db"
	"github.com/terraincognita07/cyclelog/internal/metrics"
	"github.com/terraincognita07/cyclelog/internal/services"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-0123456789abcdef"

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	hub      *services.SnapshotHub
	metrics  *metrics.Metrics
	handler  *Handler
}

func newTestApp(t *testing.T, options ...HandlerOption) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "cyclelog-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	hub := services.NewSnapshotHub()
	collector := metrics.New()
	handler, err := NewHandler(testSecretKey, time.UTC, false, Dependencies{
		Repositories: db.NewRepositories(database),
		Hub:          hub,
		Metrics:      collector,
		Log:          logrus.NewEntry(quiet),
	}, options...)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testApp{app: app, database: database, hub: hub, metrics: collector, handler: handler}
}

func fixedClock(value time.Time) func() time.Time {
	return func() time.Time { return value }
}

func (ta *testApp) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (ta *testApp) register(t *testing.T, email string) string {
	t.Helper()

	response := ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        email,
		"password":     "StrongPass1",
		"display_name": "Tester",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}

	session := sessionResponse{}
	decodeJSON(t, response, &session)
	if session.Token == "" {
		t.Fatal("expected session token")
	}
	return session.Token
}

func (ta *testApp) addCycle(t *testing.T, token string, payload map[string]any) map[string]any {
	t.Helper()

	response := ta.do(t, http.MethodPost, "/api/cycles", token, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected create status 201, got %d: %s", response.StatusCode, readAPIError(t, response))
	}
	created := map[string]any{}
	decodeJSON(t, response, &created)
	return created
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]string{}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}
	return payload["error"]
}
