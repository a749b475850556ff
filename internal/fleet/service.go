package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidVehicle marks a listing that fails validation.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// Service exposes inventory operations.
type Service struct {
	repo Repository
}

// NewService builds a fleet service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddInput captures a new vehicle listing.
type AddInput struct {
	Type             string
	Model            string
	OperatorID       string
	RateCents        int64
	DiscountPercent  int
	BatteryLifeKM    int
	HeightAdjustable bool
}

// Add lists a vehicle under the calling operator.
func (s *Service) Add(ctx context.Context, input AddInput) (Vehicle, error) {
	switch input.Type {
	case TypeEBike, TypeGyroscooter, TypeSegway:
	default:
		return Vehicle{}, ErrInvalidVehicle
	}
	if input.OperatorID == "" || input.Model == "" {
		return Vehicle{}, ErrInvalidVehicle
	}
	if input.RateCents <= 0 || input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return Vehicle{}, ErrInvalidVehicle
	}

	vehicle := Vehicle{
		ID:               uuid.New().String(),
		Type:             input.Type,
		Model:            input.Model,
		OperatorID:       input.OperatorID,
		RateCents:        input.RateCents,
		DiscountPercent:  input.DiscountPercent,
		BatteryLifeKM:    input.BatteryLifeKM,
		HeightAdjustable: input.HeightAdjustable,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return Vehicle{}, err
	}
	return vehicle, nil
}

// Get retrieves a vehicle by identifier.
func (s *Service) Get(ctx context.Context, id string) (Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// List returns the public inventory.
func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	return s.repo.List(ctx)
}

// ListByOperator returns the vehicles an operator manages.
func (s *Service) ListByOperator(ctx context.Context, operatorID string) ([]Vehicle, error) {
	return s.repo.ListByOperator(ctx, operatorID)
}
