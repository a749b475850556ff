package feedback

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps feedback in process memory for development and
// tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Feedback
}

// NewMemoryRepository builds an in-memory feedback repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, f Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, f)
	return nil
}

func (r *MemoryRepository) ListByBooking(_ context.Context, bookingID string) ([]Feedback, error) {
	return r.filter(func(f Feedback) bool { return f.BookingID == bookingID }), nil
}

func (r *MemoryRepository) ListByCustomer(_ context.Context, customerID string) ([]Feedback, error) {
	return r.filter(func(f Feedback) bool { return f.CustomerID == customerID }), nil
}

func (r *MemoryRepository) filter(keep func(Feedback) bool) []Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Feedback
	for _, f := range r.entries {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
