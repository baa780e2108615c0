package otp

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	ch      Challenge
	evictAt time.Time
}

// MemoryStore is an in-memory challenge store for tests and local development.
// Entries expire lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Now is overridable in tests to simulate clock advance.
	Now func() time.Time
}

// NewMemoryStore constructs an in-memory challenge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), Now: time.Now}
}

// Put stages a challenge under key with the given TTL.
func (s *MemoryStore) Put(_ context.Context, key string, ch Challenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{ch: ch, evictAt: s.Now().Add(ttl)}
	return nil
}

// Consume verifies code against the staged challenge under lock, mirroring
// the Redis store's read-check-delete transaction.
func (s *MemoryStore) Consume(_ context.Context, key, code string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	now := s.Now()
	if now.After(entry.evictAt) || now.After(entry.ch.ExpiresAt) {
		delete(s.entries, key)
		return Challenge{}, ErrNotFound
	}

	if entry.ch.Code != code {
		entry.ch.Attempts++
		if entry.ch.MaxAttempts > 0 && entry.ch.Attempts >= entry.ch.MaxAttempts {
			delete(s.entries, key)
			return Challenge{}, ErrTooManyAttempts
		}
		s.entries[key] = entry
		return Challenge{}, ErrCodeMismatch
	}

	delete(s.entries, key)
	return entry.ch, nil
}

// Delete removes a staged challenge if present.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
