package otp

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Concurrent Puts for the same phone
// race last-write-wins, which is the intended "resend" behavior.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]Challenge
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]Challenge)}
}

// Put stores ch for phone, replacing any existing challenge.
func (s *MemoryStore) Put(ctx context.Context, phone string, ch Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[phone] = ch
	return nil
}

// Get returns the outstanding challenge for phone, if any. Expiry is not
// checked here; callers distinguish expired from absent.
func (s *MemoryStore) Get(ctx context.Context, phone string) (Challenge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.challenges[phone]
	return ch, ok, nil
}

// Delete removes the challenge for phone.
func (s *MemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, phone)
	return nil
}
