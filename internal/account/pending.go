package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scootgate/scootgate/internal/record"
)

// PendingSignup holds the security material supplied at registration until
// the confirmation step promotes it into a persistent auth record. Only the
// answer digest is ever stashed.
type PendingSignup struct {
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	Role             record.Role `json:"role"`
	SecurityQuestion string      `json:"securityQuestion"`
	HashedAnswer     string      `json:"hashedAnswer"`
}

// ErrPendingNotFound means the stash expired or was never written.
var ErrPendingNotFound = errors.New("pending signup not found")

// PendingStore stashes registration data between sign-up and confirmation.
type PendingStore interface {
	Put(ctx context.Context, p PendingSignup, ttl time.Duration) error
	Get(ctx context.Context, email string) (PendingSignup, error)
	Delete(ctx context.Context, email string) error
}

const pendingKeyPrefix = "pending_signup:"

// RedisPendingStore keeps pending sign-ups in Redis under a TTL so
// abandoned registrations clean themselves up.
type RedisPendingStore struct {
	client *redis.Client
}

// NewRedisPendingStore builds a Redis-backed pending signup store.
func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{client: client}
}

func (s *RedisPendingStore) Put(ctx context.Context, p PendingSignup, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending signup: %w", err)
	}
	if err := s.client.Set(ctx, pendingKeyPrefix+p.Email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("stash pending signup: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Get(ctx context.Context, email string) (PendingSignup, error) {
	raw, err := s.client.Get(ctx, pendingKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PendingSignup{}, ErrPendingNotFound
		}
		return PendingSignup{}, fmt.Errorf("load pending signup: %w", err)
	}
	var p PendingSignup
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PendingSignup{}, fmt.Errorf("decode pending signup: %w", err)
	}
	return p, nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, pendingKeyPrefix+email).Err()
}

type memoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]PendingSignup
}

// NewMemoryPendingStore builds an in-memory pending store for tests. TTLs
// are ignored.
func NewMemoryPendingStore() PendingStore {
	return &memoryPendingStore{entries: make(map[string]PendingSignup)}
}

func (s *memoryPendingStore) Put(_ context.Context, p PendingSignup, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.Email] = p
	return nil
}

func (s *memoryPendingStore) Get(_ context.Context, email string) (PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	if !ok {
		return PendingSignup{}, ErrPendingNotFound
	}
	return p, nil
}

func (s *memoryPendingStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
