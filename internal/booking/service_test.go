package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scootgate/scootgate/internal/fleet"
	"github.com/scootgate/scootgate/internal/logging"
	"github.com/scootgate/scootgate/internal/notification"
)

type capturingPublisher struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (p *capturingPublisher) Publish(_ context.Context, message notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

func (p *capturingPublisher) last() notification.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return notification.Message{}
	}
	return p.messages[len(p.messages)-1]
}

func newTestService(t *testing.T) (*Service, *fleet.Service, *capturingPublisher) {
	t.Helper()
	fleetSvc := fleet.NewService(fleet.NewMemoryRepository())
	pub := &capturingPublisher{}
	svc := NewService(NewMemoryRepository(), fleetSvc, notification.NewInlineDispatcher(pub, logging.Discard()), logging.Discard())
	return svc, fleetSvc, pub
}

func addVehicle(t *testing.T, fleetSvc *fleet.Service, operatorID string) fleet.Vehicle {
	t.Helper()
	v, err := fleetSvc.Add(context.Background(), fleet.AddInput{
		Type:       fleet.TypeEBike,
		Model:      "Volt 2",
		OperatorID: operatorID,
		RateCents:  1_500,
	})
	if err != nil {
		t.Fatalf("add vehicle: %v", err)
	}
	return v
}

func window(hour, durationHours int) (time.Time, time.Time) {
	start := time.Date(2026, 9, 1, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(durationHours) * time.Hour)
}

func TestSubmitQueuesPendingAndNotifiesOperator(t *testing.T) {
	svc, fleetSvc, pub := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	start, end := window(14, 2)

	b, err := svc.Submit(context.Background(), SubmitInput{
		CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.OperatorID != "op@x.com" {
		t.Fatalf("operator not resolved from vehicle: %q", b.OperatorID)
	}
	if !strings.HasSuffix(b.ID, "-"+v.ID) {
		t.Fatalf("reference %q missing vehicle suffix", b.ID)
	}

	msg := pub.last()
	if msg.Kind != notification.KindBookingRequest {
		t.Fatalf("expected booking_request notification, got %q", msg.Kind)
	}
	if msg.Channel != notification.ChannelFor("op@x.com") {
		t.Fatalf("request must go to the operator, got %q", msg.Channel)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, fleetSvc, _ := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(14, 2)

	if _, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: end, EndTime: start}); !errors.Is(err, ErrInvalidBooking) {
		t.Fatalf("expected ErrInvalidBooking for inverted window, got %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: "missing", StartTime: start, EndTime: end}); !errors.Is(err, fleet.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestApproveConfirmsAndBlocksOverlap(t *testing.T) {
	svc, fleetSvc, pub := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(14, 2)

	b, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	decided, err := svc.Decide(ctx, DecideInput{BookingID: b.ID, OperatorID: "op@x.com", Approve: true})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", decided.Status)
	}
	msg := pub.last()
	if msg.Kind != notification.KindBookingConfirmation || msg.Channel != notification.ChannelFor("a@x.com") {
		t.Fatalf("unexpected confirmation notification %+v", msg)
	}
	if !strings.Contains(msg.Body, b.ID) {
		t.Fatalf("confirmation body %q missing reference", msg.Body)
	}

	// Overlapping window is rejected with the taken hours named.
	overlapStart := start.Add(time.Hour)
	_, err = svc.Submit(ctx, SubmitInput{CustomerID: "b@x.com", VehicleID: v.ID, StartTime: overlapStart, EndTime: overlapStart.Add(2 * time.Hour)})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if !strings.Contains(err.Error(), "14:00") || !strings.Contains(err.Error(), "16:00") {
		t.Fatalf("conflict message %q missing window", err.Error())
	}

	// Back-to-back window is fine.
	if _, err := svc.Submit(ctx, SubmitInput{CustomerID: "b@x.com", VehicleID: v.ID, StartTime: end, EndTime: end.Add(time.Hour)}); err != nil {
		t.Fatalf("adjacent window: %v", err)
	}
}

func TestDenyNotifiesCustomerWithReason(t *testing.T) {
	svc, fleetSvc, pub := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(10, 1)

	b, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	decided, err := svc.Decide(ctx, DecideInput{BookingID: b.ID, OperatorID: "op@x.com", Approve: false, Reason: "maintenance"})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != StatusDenied || decided.Reason != "maintenance" {
		t.Fatalf("unexpected decision %+v", decided)
	}
	msg := pub.last()
	if msg.Kind != notification.KindBookingFailure || !strings.Contains(msg.Body, "maintenance") {
		t.Fatalf("unexpected failure notification %+v", msg)
	}
}

func TestDecideGuards(t *testing.T) {
	svc, fleetSvc, _ := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(10, 1)

	b, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Decide(ctx, DecideInput{BookingID: b.ID, OperatorID: "mallory@x.com", Approve: true}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.Decide(ctx, DecideInput{BookingID: "1700000000-missing", OperatorID: "op@x.com", Approve: true}); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if _, err := svc.Decide(ctx, DecideInput{BookingID: b.ID, OperatorID: "op@x.com", Approve: true}); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if _, err := svc.Decide(ctx, DecideInput{BookingID: b.ID, OperatorID: "op@x.com", Approve: false}); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

// Two pending requests for the same window: approving the second after the
// first is confirmed denies it instead of double-booking the vehicle.
func TestApproveRechecksWindow(t *testing.T) {
	svc, fleetSvc, _ := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(14, 2)

	first, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(time.Second) }
	second, err := svc.Submit(ctx, SubmitInput{CustomerID: "b@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if _, err := svc.Decide(ctx, DecideInput{BookingID: first.ID, OperatorID: "op@x.com", Approve: true}); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	decided, err := svc.Decide(ctx, DecideInput{BookingID: second.ID, OperatorID: "op@x.com", Approve: true})
	if err != nil {
		t.Fatalf("approve second: %v", err)
	}
	if decided.Status != StatusDenied {
		t.Fatalf("expected second booking denied, got %s", decided.Status)
	}
	if decided.Reason == "" {
		t.Fatalf("denial should carry a reason")
	}
}

func TestLookupAndQueues(t *testing.T) {
	svc, fleetSvc, _ := newTestService(t)
	v := addVehicle(t, fleetSvc, "op@x.com")
	ctx := context.Background()
	start, end := window(9, 1)

	b, err := svc.Submit(ctx, SubmitInput{CustomerID: "a@x.com", VehicleID: v.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := svc.Lookup(ctx, b.ID)
	if err != nil || got.ID != b.ID {
		t.Fatalf("lookup: %v %+v", err, got)
	}

	pending, err := svc.PendingForOperator(ctx, "op@x.com")
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending queue: %v %d", err, len(pending))
	}
	mine, err := svc.ListForCustomer(ctx, "a@x.com")
	if err != nil || len(mine) != 1 {
		t.Fatalf("customer bookings: %v %d", err, len(mine))
	}
}
