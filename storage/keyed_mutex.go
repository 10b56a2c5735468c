package storage

import "sync"

// KeyedMutex provides per-key mutual exclusion. Locks for distinct keys are
// independent, so writers to different keys never contend.
type KeyedMutex struct {
	mus sync.Map // string -> *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
//
//	unlock := km.Lock(key)
//	defer unlock()
func (km *KeyedMutex) Lock(key string) func() {
	mu, _ := km.mus.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
