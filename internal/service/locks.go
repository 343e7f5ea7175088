package service

import (
	"sync"

	"github.com/google/uuid"
)

// tripLocks hands out one mutex per trip. A lock lives only while someone
// holds or waits for it.
type tripLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*tripLock
}

type tripLock struct {
	mu      sync.Mutex
	waiters int
}

// lock blocks until the caller owns tripID's lock and returns the release func.
func (l *tripLocks) lock(tripID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uuid.UUID]*tripLock)
	}
	tl, ok := l.locks[tripID]
	if !ok {
		tl = &tripLock{}
		l.locks[tripID] = tl
	}
	tl.waiters++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.waiters--
		if tl.waiters == 0 {
			delete(l.locks, tripID)
		}
		l.mu.Unlock()
	}
}
