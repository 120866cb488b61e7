package artifact

import (
	"hash/fnv"
	"sync"
)

type lockStripe struct {
	mu sync.Mutex
}

// lock serializes writers of the same identifier. Different identifiers may
// share a stripe, which only costs parallelism.
func (s *implStore) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	stripe := &s.locks[h.Sum32()%lockStripes]
	stripe.mu.Lock()
	return stripe.mu.Unlock
}
