package app

import "sync"

// keyedLocks hands out one mutex per key so command handlers, the
// voice-state handler and the sweeper are strictly ordered per room
// (keys are room ids, plus a per-user key during room creation).
// Locks are never reclaimed; the map grows with the number of keys
// ever seen, which for this bot is small.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
