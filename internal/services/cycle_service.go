package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/models"
)

var (
	ErrCycleNotFound     = errors.New("cycle not found")
	ErrCycleLoadFailed   = errors.New("load cycles failed")
	ErrCycleCreateFailed = errors.New("create cycle failed")
	ErrCycleUpdateFailed = errors.New("update cycle failed")
	ErrCycleDeleteFailed = errors.New("delete cycle failed")
)

type CycleStore interface {
	ListByUser(userID uint) ([]models.CycleRecord, error)
	FindByIDForUser(cycleID string, userID uint) (models.CycleRecord, bool, error)
	Create(cycle *models.CycleRecord) error
	Save(cycle *models.CycleRecord) error
	DeleteByIDForUser(cycleID string, userID uint) (int64, error)
	DeleteAllForUser(userID uint) error
}

type SnapshotPublisher interface {
	Publish(userID uint, snapshot []models.CycleRecord)
}

type MutationCounter interface {
	CycleMutation(op string)
}

type CycleServiceOption func(*CycleService)

func WithSnapshotPublisher(publisher SnapshotPublisher) CycleServiceOption {
	return func(service *CycleService) {
		service.publisher = publisher
	}
}

func WithMutationCounter(counter MutationCounter) CycleServiceOption {
	return func(service *CycleService) {
		service.mutations = counter
	}
}

func WithCycleLogger(log *logrus.Entry) CycleServiceOption {
	return func(service *CycleService) {
		service.log = log
	}
}

type CycleService struct {
	cycles    CycleStore
	location  *time.Location
	publisher SnapshotPublisher
	mutations MutationCounter
	log       *logrus.Entry
	newID     func() string
}

func NewCycleService(cycles CycleStore, location *time.Location, options ...CycleServiceOption) *CycleService {
	if location == nil {
		location = time.UTC
	}
	service := &CycleService{
		cycles:   cycles,
		location: location,
		newID:    func() string { return uuid.NewString() },
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (service *CycleService) Location() *time.Location {
	return service.location
}

// ListCycles returns the user's snapshot, newest start first.
func (service *CycleService) ListCycles(userID uint) ([]models.CycleRecord, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleLoadFailed, err)
	}
	return cycles, nil
}

func (service *CycleService) GetCycle(userID uint, cycleID string) (models.CycleRecord, error) {
	cycle, found, err := service.cycles.FindByIDForUser(cycleID, userID)
	if err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleLoadFailed, err)
	}
	if !found {
		return models.CycleRecord{}, ErrCycleNotFound
	}
	return cycle, nil
}

func (service *CycleService) AddCycle(userID uint, input CycleInput) (models.CycleRecord, error) {
	fields, err := NormalizeCycleInput(input, service.location)
	if err != nil {
		return models.CycleRecord{}, err
	}

	cycle := models.CycleRecord{
		ID:     service.newID(),
		UserID: userID,
	}
	fields.applyTo(&cycle)
	if err := service.cycles.Create(&cycle); err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleCreateFailed, err)
	}

	service.afterMutation(userID, "create")
	return cycle, nil
}

func (service *CycleService) UpdateCycle(userID uint, cycleID string, input CycleInput) (models.CycleRecord, error) {
	fields, err := NormalizeCycleInput(input, service.location)
	if err != nil {
		return models.CycleRecord{}, err
	}

	cycle, err := service.GetCycle(userID, cycleID)
	if err != nil {
		return models.CycleRecord{}, err
	}
	fields.applyTo(&cycle)
	if err := service.cycles.Save(&cycle); err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleUpdateFailed, err)
	}

	service.afterMutation(userID, "update")
	return cycle, nil
}

func (service *CycleService) DeleteCycle(userID uint, cycleID string) error {
	deleted, err := service.cycles.DeleteByIDForUser(cycleID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycleDeleteFailed, err)
	}
	if deleted == 0 {
		return ErrCycleNotFound
	}

	service.afterMutation(userID, "delete")
	return nil
}

// ClearCycles removes every cycle the user has logged.
func (service *CycleService) ClearCycles(userID uint) error {
	if err := service.cycles.DeleteAllForUser(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrCycleDeleteFailed, err)
	}

	service.afterMutation(userID, "clear")
	return nil
}

// afterMutation pushes a fresh snapshot to live subscribers. The write has
// already succeeded, so a reload failure is logged rather than returned.
func (service *CycleService) afterMutation(userID uint, op string) {
	if service.mutations != nil {
		service.mutations.CycleMutation(op)
	}
	if service.publisher == nil {
		return
	}

	snapshot, err := service.cycles.ListByUser(userID)
	if err != nil {
		if service.log != nil {
			service.log.WithError(err).WithField("user_id", userID).Warn("snapshot reload failed")
		}
		return
	}
	service.publisher.Publish(userID, snapshot)
}
