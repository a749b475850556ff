package support

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps tickets in process memory for development and
// tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
}

// NewMemoryRepository builds an in-memory ticket repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tickets: make(map[string]Ticket)}
}

func (r *MemoryRepository) Create(_ context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID] = t
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) SetStatus(_ context.Context, id, status string, resolvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}
	t.Status = status
	t.ResolvedAt = resolvedAt
	r.tickets[id] = t
	return nil
}
