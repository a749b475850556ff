package fleet

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps vehicles in process memory for development and
// tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	vehicles map[string]Vehicle
}

// NewMemoryRepository builds an in-memory vehicle repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{vehicles: make(map[string]Vehicle)}
}

func (r *MemoryRepository) Create(_ context.Context, vehicle Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[vehicle.ID] = vehicle
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) ListByOperator(_ context.Context, operatorID string) ([]Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Vehicle
	for _, v := range r.vehicles {
		if v.OperatorID == operatorID {
			out = append(out, v)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(vehicles []Vehicle) {
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt)
	})
}
