package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultPort             = "8080"
	defaultTimezone         = "UTC"
	defaultLogLevel         = "info"
	defaultEnvironment      = "development"
	defaultReminderLeadDays = 2
	defaultReminderCron     = "0 9 * * *"
	minSecretKeyLength      = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port             string
	DBPath           string
	Location         *time.Location
	SecretKey        string
	CookieSecure     bool
	LogLevel         string
	Environment      string
	TelegramToken    string
	ReminderLeadDays int
	ReminderCron     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:        resolveDBPath(),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		Environment:   strings.ToLower(getEnv("ENVIRONMENT", defaultEnvironment)),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	var err error
	if cfg.Port, err = resolvePort(); err != nil {
		return nil, err
	}
	if cfg.SecretKey, err = resolveSecretKey(); err != nil {
		return nil, err
	}
	if cfg.Location, err = resolveLocation(); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = parseBoolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.ReminderLeadDays, err = resolveReminderLeadDays(); err != nil {
		return nil, err
	}
	if cfg.ReminderCron, err = resolveReminderCron(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDBPath resolves only the database location, applying .env the same way
// Load does. Maintenance commands use it so they do not need SECRET_KEY.
func LoadDBPath() string {
	_ = godotenv.Load()
	return resolveDBPath()
}

func resolveDBPath() string {
	return strings.TrimSpace(getEnv("DB_PATH", filepath.Join("data", "cyclelog.db")))
}

func (cfg *Config) RemindersEnabled() bool {
	return cfg.TelegramToken != ""
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is not set")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := strings.TrimSpace(getEnv("PORT", defaultPort))
	port, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %d: must be between 1 and 65535", port)
	}
	return strconv.Itoa(port), nil
}

func resolveLocation() (*time.Location, error) {
	name := strings.TrimSpace(getEnv("TZ", defaultTimezone))
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", name, err)
	}
	return location, nil
}

func resolveReminderLeadDays() (int, error) {
	raw := strings.TrimSpace(os.Getenv("REMINDER_LEAD_DAYS"))
	if raw == "" {
		return defaultReminderLeadDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("invalid REMINDER_LEAD_DAYS %q", raw)
	}
	return days, nil
}

func resolveReminderCron() (string, error) {
	spec := strings.TrimSpace(getEnv("REMINDER_CRON", defaultReminderCron))
	if _, err := cron.ParseStandard(spec); err != nil {
		return "", fmt.Errorf("invalid REMINDER_CRON %q: %w", spec, err)
	}
	return spec, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
