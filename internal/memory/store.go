package memory

import "sync"

// Store holds per-user flags that get summarized into the prompt of later
// requests. Records live for the lifetime of the process.
type Store interface {
	Get(userID string) map[string]string
	Update(userID string, fields map[string]string)
}

// InMemory is a mutex-guarded keyed map. Update merges key by key, never
// replacing the whole record; concurrent updates to the same user are
// last-write-wins per key.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]map[string]string),
	}
}

// Get returns a copy of the user's record, or an empty map for an unknown
// user. Callers can hold the result without a lock.
func (s *InMemory) Get(userID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return map[string]string{}
	}

	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func (s *InMemory) Update(userID string, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = make(map[string]string, len(fields))
		s.records[userID] = rec
	}
	for k, v := range fields {
		rec[k] = v
	}
}
