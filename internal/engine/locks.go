package engine

import "sync"

// worldLocks serializes turn processing per world. Turns for different
// worlds run concurrently; two turns for the same world never interleave.
type worldLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newWorldLocks() *worldLocks {
	return &worldLocks{locks: make(map[string]*sync.Mutex)}
}

func (w *worldLocks) get(worldID string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()

	lock, ok := w.locks[worldID]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[worldID] = lock
	}
	return lock
}
