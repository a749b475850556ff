package fleet

import (
	"context"
	"errors"
	"testing"
)

func TestServiceAddAndList(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	vehicle, err := svc.Add(ctx, AddInput{
		Type:          TypeEBike,
		Model:         "Volt 2",
		OperatorID:    "op@x.com",
		RateCents:     1_500,
		BatteryLifeKM: 40,
	})
	if err != nil {
		t.Fatalf("add vehicle: %v", err)
	}

	fetched, err := svc.Get(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if fetched.Model != "Volt 2" || fetched.OperatorID != "op@x.com" {
		t.Fatalf("unexpected vehicle %+v", fetched)
	}

	if _, err := svc.Add(ctx, AddInput{
		Type:       TypeSegway,
		Model:      "Ninebot",
		OperatorID: "other@x.com",
		RateCents:  2_000,
	}); err != nil {
		t.Fatalf("add second vehicle: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(all))
	}

	mine, err := svc.ListByOperator(ctx, "op@x.com")
	if err != nil {
		t.Fatalf("list by operator: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != vehicle.ID {
		t.Fatalf("unexpected operator inventory %+v", mine)
	}
}

func TestServiceAddValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []AddInput{
		{Type: "hoverboard", Model: "X", OperatorID: "op@x.com", RateCents: 100},
		{Type: TypeEBike, Model: "", OperatorID: "op@x.com", RateCents: 100},
		{Type: TypeEBike, Model: "X", OperatorID: "", RateCents: 100},
		{Type: TypeEBike, Model: "X", OperatorID: "op@x.com", RateCents: 0},
		{Type: TypeEBike, Model: "X", OperatorID: "op@x.com", RateCents: 100, DiscountPercent: 120},
	}
	for i, in := range cases {
		if _, err := svc.Add(ctx, in); !errors.Is(err, ErrInvalidVehicle) {
			t.Fatalf("case %d: expected ErrInvalidVehicle, got %v", i, err)
		}
	}
}

func TestServiceGetUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}
