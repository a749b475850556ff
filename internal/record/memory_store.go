package record

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	recs map[string]UserAuthRecord
}

// NewMemoryStore builds an in-memory auth record store for testing.
func NewMemoryStore() Store {
	return &memoryStore{recs: make(map[string]UserAuthRecord)}
}

func (s *memoryStore) Get(_ context.Context, userID string) (UserAuthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[userID]
	if !ok {
		return UserAuthRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Put(_ context.Context, rec UserAuthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.UserID] = rec
	return nil
}

func (s *memoryStore) SetValidated(_ context.Context, userID string, v bool) error {
	return s.update(userID, func(rec *UserAuthRecord) {
		rec.Validated = v
	})
}

func (s *memoryStore) SetCipherValidated(_ context.Context, userID string, v bool) error {
	return s.update(userID, func(rec *UserAuthRecord) {
		rec.CipherValidated = v
	})
}

func (s *memoryStore) SetCipherPuzzle(_ context.Context, userID, plain string, shift int) error {
	return s.update(userID, func(rec *UserAuthRecord) {
		rec.CipherPlain = plain
		rec.CipherShift = shift
	})
}

func (s *memoryStore) ResetValidation(_ context.Context, userID string) error {
	return s.update(userID, func(rec *UserAuthRecord) {
		rec.Validated = false
		rec.CipherValidated = false
	})
}

func (s *memoryStore) SetNotificationChannel(_ context.Context, userID, channel string) error {
	return s.update(userID, func(rec *UserAuthRecord) {
		rec.NotificationChannel = channel
	})
}

func (s *memoryStore) update(userID string, fn func(*UserAuthRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&rec)
	s.recs[userID] = rec
	return nil
}
