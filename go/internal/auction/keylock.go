package auction

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLocks serializes all state-mutating operations per event. Two
// bids racing to lead the same lot, or a lifecycle command racing the
// clock's expiry transition, contend on the same mutex; operations on
// different events never block each other.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// forEvent returns the mutex for an event, creating it on first use.
// Locks are never removed; one auction run holds a handful of events.
func (k *keyedLocks) forEvent(id uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[id] = lock
	}
	return lock
}
