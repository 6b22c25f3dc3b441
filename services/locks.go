package services

import (
	"sync"
	"time"
)

// lockTable hands out one mutex per key so every check-then-act sequence
// on a match (or a user, for wallet-only operations) runs serialized.
// Acquisition is bounded: after lockAttempts failed tries the caller gets
// ErrBusy instead of blocking forever.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*tableLock
}

type tableLock struct {
	mu   sync.Mutex
	refs int
}

const (
	lockAttempts = 40
	lockBackoff  = 25 * time.Millisecond
)

func newLockTable() *lockTable {
	return &lockTable{locks: map[string]*tableLock{}}
}

func (t *lockTable) acquire(key string) (*tableLock, error) {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &tableLock{}
		t.locks[key] = l
	}
	l.refs++
	t.mu.Unlock()

	for i := 0; i < lockAttempts; i++ {
		if l.mu.TryLock() {
			return l, nil
		}
		time.Sleep(lockBackoff)
	}

	t.release(key, l)
	return nil, ErrBusy
}

func (t *lockTable) release(key string, l *tableLock) {
	t.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, key)
	}
	t.mu.Unlock()
}

// withLock runs fn while holding the keyed mutex. Locks are always taken
// in the order match before user, never the reverse, so two operations
// can not deadlock each other.
func (t *lockTable) withLock(key string, fn func() error) error {
	l, err := t.acquire(key)
	if err != nil {
		return err
	}
	defer func() {
		l.mu.Unlock()
		t.release(key, l)
	}()
	return fn()
}
