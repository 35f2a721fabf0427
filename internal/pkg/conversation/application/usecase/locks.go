package usecase

import "sync"

// convLocks serializes load-mutate-persist sequences over conversation
// records. The storage backends make each individual operation atomic, but an
// append is a FindByID followed by an Update and every gin request and
// websocket session runs in its own goroutine: without a sequence-level lock
// two concurrent appends read the same log and the second write drops the
// first. Keys are conversation ids for appends and posting ids for
// open-or-find, so the two families never contend with each other.
//
// The lock is process-local. Multiple server processes sharing one mongo or
// postgres store keep a last-writer-wins window; see DESIGN.md.
var convLocks keyedMutex

type keyedMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
