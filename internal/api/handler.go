package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/db"
	"github.com/terraincognita07/cyclelog/internal/metrics"
	"github.com/terraincognita07/cyclelog/internal/services"
)

const (
	defaultAuthTokenTTL      = 7 * 24 * time.Hour
	defaultStreamKeepAlive   = 25 * time.Second
	defaultStreamMaxDuration = 30 * time.Minute
	loginAttemptLimit        = 5
	loginAttemptWindow       = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	now          func() time.Time
	log          *logrus.Entry

	authService     *services.AuthService
	cycleService    *services.CycleService
	statsService    *services.StatsService
	settingsService *services.SettingsService
	exportService   *services.ExportService
	hub             *services.SnapshotHub
	metrics         http.Handler

	loginLimiter      *attemptLimiter
	streamKeepAlive   time.Duration
	streamMaxDuration time.Duration
}

type Dependencies struct {
	Repositories *db.Repositories
	Hub          *services.SnapshotHub
	Metrics      *metrics.Metrics
	Log          *logrus.Entry
}

type HandlerOption func(*Handler)

func WithClock(now func() time.Time) HandlerOption {
	return func(handler *Handler) {
		handler.now = now
	}
}

func WithStreamTiming(keepAlive time.Duration, maxDuration time.Duration) HandlerOption {
	return func(handler *Handler) {
		handler.streamKeepAlive = keepAlive
		handler.streamMaxDuration = maxDuration
	}
}

func NewHandler(secret string, location *time.Location, cookieSecure bool, deps Dependencies, options ...HandlerOption) (*Handler, error) {
	if secret == "" {
		return nil, errors.New("secret key is required")
	}
	if deps.Repositories == nil {
		return nil, errors.New("repositories are required")
	}
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{
		secretKey:         []byte(secret),
		location:          location,
		cookieSecure:      cookieSecure,
		now:               time.Now,
		loginLimiter:      newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		streamKeepAlive:   defaultStreamKeepAlive,
		streamMaxDuration: defaultStreamMaxDuration,
	}
	handler.withDependencies(deps)
	for _, option := range options {
		option(handler)
	}
	return handler, nil
}
