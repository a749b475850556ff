package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scootgate/scootgate/internal/logging"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), logging.Discard())
}

func TestSubmitRequiresAllFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	complete := SubmitInput{
		CustomerID:   "a@x.com",
		BookingID:    "1700000000-abc",
		Message:      "smooth ride, seat was loose",
		ContactEmail: "a@x.com",
	}

	cases := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing customer", func(in *SubmitInput) { in.CustomerID = "" }},
		{"missing booking", func(in *SubmitInput) { in.BookingID = "" }},
		{"missing message", func(in *SubmitInput) { in.Message = "   " }},
		{"missing contact", func(in *SubmitInput) { in.ContactEmail = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := complete
			tc.mutate(&in)
			if _, err := svc.Submit(ctx, in); !errors.Is(err, ErrInvalidFeedback) {
				t.Fatalf("expected ErrInvalidFeedback, got %v", err)
			}
		})
	}

	if _, err := svc.Submit(ctx, complete); err != nil {
		t.Fatalf("complete submission rejected: %v", err)
	}
}

func TestSubmitAssignsIDAndStatus(t *testing.T) {
	svc := newTestService()
	f, err := svc.Submit(context.Background(), SubmitInput{
		CustomerID:   "a@x.com",
		BookingID:    "1700000000-abc",
		Message:      "battery died early",
		ContactEmail: "a@x.com",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := uuid.Parse(f.ID); err != nil {
		t.Fatalf("feedback id %q is not a UUID: %v", f.ID, err)
	}
	if f.Status != StatusSubmitted {
		t.Fatalf("expected status %q, got %q", StatusSubmitted, f.Status)
	}
	if f.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, msg := range []string{"first", "second", "third"} {
		if _, err := svc.Submit(ctx, SubmitInput{
			CustomerID:   "a@x.com",
			BookingID:    "1700000000-abc",
			Message:      msg,
			ContactEmail: "a@x.com",
		}); err != nil {
			t.Fatalf("submit %q: %v", msg, err)
		}
	}

	mine, err := svc.ListForCustomer(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("list for customer: %v", err)
	}
	if len(mine) != 3 || mine[0].Message != "third" {
		t.Fatalf("expected newest first, got %+v", mine)
	}

	booked, err := svc.ListForBooking(ctx, "1700000000-abc")
	if err != nil || len(booked) != 3 {
		t.Fatalf("list for booking: %v %d", err, len(booked))
	}

	other, err := svc.ListForBooking(ctx, "1700000000-zzz")
	if err != nil || len(other) != 0 {
		t.Fatalf("expected no entries for other booking, got %v %d", err, len(other))
	}
}
