package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps bookings in process memory for development and
// tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
}

// NewMemoryRepository builds an in-memory booking repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[string]Booking)}
}

func (r *MemoryRepository) Create(_ context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (r *MemoryRepository) ConfirmedOverlapping(_ context.Context, vehicleID string, start, end time.Time) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID && b.Status == StatusConfirmed && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *MemoryRepository) SetDecision(_ context.Context, id, status, reason string, decidedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.Reason = reason
	b.DecidedAt = decidedAt
	r.bookings[id] = b
	return nil
}

func (r *MemoryRepository) ListPendingByOperator(_ context.Context, operatorID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.OperatorID == operatorID && b.Status == StatusPending {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) ListByCustomer(_ context.Context, customerID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
