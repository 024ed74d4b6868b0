package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/models"
)

const (
	DefaultReminderLeadDays = 2
	maxReminderDedupEntries = 500
)

var ErrReminderUsersLoadFailed = errors.New("load reminder recipients failed")

type Notifier interface {
	Notify(ctx context.Context, chatID int64, message string) error
}

type ReminderUserSource interface {
	ListWithTelegramChat() ([]models.User, error)
}

type ReminderCycleSource interface {
	ListByUser(userID uint) ([]models.CycleRecord, error)
}

type ReminderCounter interface {
	ReminderSent()
}

type ReminderService struct {
	users    ReminderUserSource
	cycles   ReminderCycleSource
	notifier Notifier
	leadDays int
	location *time.Location
	log      *logrus.Entry
	counter  ReminderCounter
	skips    SkipReporter

	mu   sync.Mutex
	sent map[string]time.Time
}

type ReminderConfig struct {
	LeadDays int
	Location *time.Location
	Log      *logrus.Entry
	Counter  ReminderCounter
	Skips    SkipReporter
}

func NewReminderService(users ReminderUserSource, cycles ReminderCycleSource, notifier Notifier, config ReminderConfig) *ReminderService {
	if config.LeadDays < 0 {
		config.LeadDays = DefaultReminderLeadDays
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		config.Log = logrus.NewEntry(discard)
	}
	return &ReminderService{
		users:    users,
		cycles:   cycles,
		notifier: notifier,
		leadDays: config.LeadDays,
		location: config.Location,
		log:      config.Log,
		counter:  config.Counter,
		skips:    config.Skips,
		sent:     make(map[string]time.Time),
	}
}

// RunOnce checks every user with a reminder chat and returns how many
// messages went out. A failure for one user does not stop the others.
func (service *ReminderService) RunOnce(ctx context.Context, now time.Time) (int, error) {
	recipients, err := service.users.ListWithTelegramChat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReminderUsersLoadFailed, err)
	}

	today := DateAtLocation(now, service.location)
	sent := 0
	for _, user := range recipients {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		message, ok := service.reminderFor(user, today)
		if !ok {
			continue
		}
		key := fmt.Sprintf("period:%d:%s", user.ID, today.Format(dateKeyLayout))
		if !service.shouldSend(key, today) {
			continue
		}

		if err := service.notifier.Notify(ctx, user.TelegramChatID, message); err != nil {
			service.forget(key)
			service.log.WithError(err).WithField("user_id", user.ID).Warn("send period reminder failed")
			continue
		}
		sent++
		if service.counter != nil {
			service.counter.ReminderSent()
		}
	}
	return sent, nil
}

func (service *ReminderService) reminderFor(user models.User, today time.Time) (string, bool) {
	records, err := service.cycles.ListByUser(user.ID)
	if err != nil {
		service.log.WithError(err).WithField("user_id", user.ID).Warn("load cycles for reminder failed")
		return "", false
	}

	prediction, ok := PredictNext(records, service.location, service.skips)
	if !ok {
		return "", false
	}

	daysUntil := signedDaysBetween(today, prediction.NextStartDate, service.location)
	switch {
	case daysUntil == 0:
		return fmt.Sprintf("Cyclelog reminder: your period is predicted to start today (%s).",
			prediction.NextStartDate.Format("Jan 2"),
		), true
	case daysUntil == service.leadDays:
		return fmt.Sprintf("Cyclelog reminder: your predicted period starts in %d day(s) on %s.",
			daysUntil,
			prediction.NextStartDate.Format("Jan 2"),
		), true
	default:
		return "", false
	}
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && sentOn.Equal(today) {
		return false
	}

	if len(service.sent) >= maxReminderDedupEntries {
		service.sent = make(map[string]time.Time)
	}
	service.sent[key] = today
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}
