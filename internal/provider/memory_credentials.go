package provider

import (
	"context"
	"sync"
)

type memoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// NewMemoryCredentialStore builds an in-memory credential store for tests
// and database-less development.
func NewMemoryCredentialStore() CredentialStore {
	return &memoryCredentialStore{creds: make(map[string]Credential)}
}

func (s *memoryCredentialStore) Create(_ context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.creds[cred.Email]; exists {
		return ErrUserExists
	}
	s.creds[cred.Email] = cred
	return nil
}

func (s *memoryCredentialStore) Get(_ context.Context, email string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[email]
	if !ok {
		return Credential{}, ErrUserNotFound
	}
	return cred, nil
}

func (s *memoryCredentialStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, email)
	return nil
}

func (s *memoryCredentialStore) Confirm(_ context.Context, email string) error {
	return s.update(email, func(cred *Credential) {
		cred.Confirmed = true
		cred.ConfirmationCode = ""
	})
}

func (s *memoryCredentialStore) UpdatePassword(_ context.Context, email string, hash []byte) error {
	return s.update(email, func(cred *Credential) {
		cred.PasswordHash = hash
	})
}

func (s *memoryCredentialStore) BumpTokenVersion(_ context.Context, email string) (int, error) {
	var version int
	err := s.update(email, func(cred *Credential) {
		cred.TokenVersion++
		version = cred.TokenVersion
	})
	return version, err
}

func (s *memoryCredentialStore) update(email string, fn func(*Credential)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[email]
	if !ok {
		return ErrUserNotFound
	}
	fn(&cred)
	s.creds[email] = cred
	return nil
}
