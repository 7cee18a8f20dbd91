package indexer

import "sync"

// keyedMutex provides one mutex per key. Indexing jobs for different
// documents run in parallel; jobs for the same document id serialize, since
// the destructive-then-rebuild step is not safe to interleave with itself.
type keyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
