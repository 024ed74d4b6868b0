package services

import (
	"sync"

	"github.com/terraincognita07/cyclelog/internal/models"
)

// SnapshotHub fans full cycle snapshots out to a user's live subscribers.
// A slow subscriber only ever sees the latest snapshot; older undelivered
// ones are replaced.
type SnapshotHub struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint]map[uint64]chan []models.CycleRecord
}

func NewSnapshotHub() *SnapshotHub {
	return &SnapshotHub{
		subscribers: make(map[uint]map[uint64]chan []models.CycleRecord),
	}
}

// Subscribe registers a listener for userID. The returned cancel func closes
// the channel and is safe to call more than once.
func (hub *SnapshotHub) Subscribe(userID uint) (<-chan []models.CycleRecord, func()) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	hub.nextID++
	id := hub.nextID
	channel := make(chan []models.CycleRecord, 1)

	userSubscribers, ok := hub.subscribers[userID]
	if !ok {
		userSubscribers = make(map[uint64]chan []models.CycleRecord)
		hub.subscribers[userID] = userSubscribers
	}
	userSubscribers[id] = channel

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			hub.mu.Lock()
			defer hub.mu.Unlock()

			current, ok := hub.subscribers[userID][id]
			if !ok {
				return
			}
			delete(hub.subscribers[userID], id)
			if len(hub.subscribers[userID]) == 0 {
				delete(hub.subscribers, userID)
			}
			close(current)
		})
	}
	return channel, cancel
}

// Close ends every subscription held by userID. Snapshots already buffered
// are still readable before the channels report closed.
func (hub *SnapshotHub) Close(userID uint) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for _, channel := range hub.subscribers[userID] {
		close(channel)
	}
	delete(hub.subscribers, userID)
}

func (hub *SnapshotHub) Publish(userID uint, snapshot []models.CycleRecord) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for _, channel := range hub.subscribers[userID] {
		delivery := cloneCycleSnapshot(snapshot)
		select {
		case channel <- delivery:
			continue
		default:
		}

		select {
		case <-channel:
		default:
		}
		select {
		case channel <- delivery:
		default:
		}
	}
}

func (hub *SnapshotHub) SubscriberCount(userID uint) int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subscribers[userID])
}

func cloneCycleSnapshot(snapshot []models.CycleRecord) []models.CycleRecord {
	cloned := make([]models.CycleRecord, len(snapshot))
	copy(cloned, snapshot)
	return cloned
}
