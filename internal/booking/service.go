package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scootgate/scootgate/internal/fleet"
	"github.com/scootgate/scootgate/internal/notification"
)

var (
	// ErrInvalidBooking marks a request that fails validation.
	ErrInvalidBooking = errors.New("invalid booking request")
	// ErrSlotTaken means a confirmed booking already covers the window.
	ErrSlotTaken = errors.New("slot taken")
	// ErrNotOwner means the operator does not manage the booked vehicle.
	ErrNotOwner = errors.New("not the vehicle's operator")
	// ErrAlreadyDecided rejects a second decision on the same booking.
	ErrAlreadyDecided = errors.New("booking already decided")
)

// Service runs the booking workflow: submit, conflict-check, operator
// decision, customer notification.
type Service struct {
	repo       Repository
	fleet      *fleet.Service
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds a booking service instance.
func NewService(repo Repository, fleetSvc *fleet.Service, dispatcher *notification.Dispatcher, logger *slog.Logger) *Service {
	return &Service{repo: repo, fleet: fleetSvc, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// SubmitInput captures a customer's booking request.
type SubmitInput struct {
	CustomerID string
	VehicleID  string
	StartTime  time.Time
	EndTime    time.Time
}

// Submit validates the window, rejects overlap with confirmed bookings and
// queues the request for the vehicle's operator.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Booking, error) {
	if input.CustomerID == "" || input.VehicleID == "" {
		return Booking{}, fmt.Errorf("%w: customer and vehicle are required", ErrInvalidBooking)
	}
	if !input.EndTime.After(input.StartTime) {
		return Booking{}, fmt.Errorf("%w: end time must be after start time", ErrInvalidBooking)
	}

	vehicle, err := s.fleet.Get(ctx, input.VehicleID)
	if err != nil {
		return Booking{}, err
	}

	if err := s.checkWindow(ctx, input.VehicleID, input.StartTime, input.EndTime); err != nil {
		return Booking{}, err
	}

	now := s.now().UTC()
	b := Booking{
		ID:         NewReference(now, input.VehicleID),
		VehicleID:  input.VehicleID,
		CustomerID: input.CustomerID,
		OperatorID: vehicle.OperatorID,
		StartTime:  input.StartTime.UTC(),
		EndTime:    input.EndTime.UTC(),
		Status:     StatusPending,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}

	s.dispatcher.Dispatch(notification.Message{
		Kind:    notification.KindBookingRequest,
		Channel: notification.ChannelFor(vehicle.OperatorID),
		Subject: "New Booking Request",
		Body:    fmt.Sprintf("Booking request %s for vehicle %s awaits your approval.", b.ID, b.VehicleID),
	})
	s.logger.Info("booking submitted",
		slog.String("booking_id", b.ID),
		slog.String("vehicle_id", b.VehicleID),
		slog.String("customer", b.CustomerID),
	)
	return b, nil
}

// DecideInput captures an operator's verdict on a pending booking.
type DecideInput struct {
	BookingID  string
	OperatorID string
	Approve    bool
	Reason     string
}

// Decide confirms or denies a pending booking. Approval re-runs the
// conflict check so two pending requests for the same window cannot both
// be confirmed.
func (s *Service) Decide(ctx context.Context, input DecideInput) (Booking, error) {
	b, err := s.repo.Get(ctx, input.BookingID)
	if err != nil {
		return Booking{}, err
	}
	if b.OperatorID != input.OperatorID {
		return Booking{}, ErrNotOwner
	}
	if b.Status != StatusPending {
		return Booking{}, fmt.Errorf("%w: status %s", ErrAlreadyDecided, b.Status)
	}

	now := s.now().UTC()
	status := StatusDenied
	reason := input.Reason
	if input.Approve {
		if err := s.checkWindow(ctx, b.VehicleID, b.StartTime, b.EndTime); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				reason = "window no longer available"
			} else {
				return Booking{}, err
			}
		} else {
			status = StatusConfirmed
			reason = ""
		}
	}

	if err := s.repo.SetDecision(ctx, b.ID, status, reason, now); err != nil {
		return Booking{}, err
	}
	b.Status = status
	b.Reason = reason
	b.DecidedAt = now

	s.notifyCustomer(b)
	s.logger.Info("booking decided",
		slog.String("booking_id", b.ID),
		slog.String("status", b.Status),
		slog.String("operator", input.OperatorID),
	)
	return b, nil
}

// Lookup fetches a booking by reference.
func (s *Service) Lookup(ctx context.Context, id string) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// PendingForOperator lists the operator's approval queue, oldest first.
func (s *Service) PendingForOperator(ctx context.Context, operatorID string) ([]Booking, error) {
	return s.repo.ListPendingByOperator(ctx, operatorID)
}

// ListForCustomer lists a customer's bookings, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// checkWindow fails with ErrSlotTaken when a confirmed booking already
// intersects the window, naming the colliding hours.
func (s *Service) checkWindow(ctx context.Context, vehicleID string, start, end time.Time) error {
	overlapping, err := s.repo.ConfirmedOverlapping(ctx, vehicleID, start, end)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		taken := overlapping[0]
		return fmt.Errorf("%w: vehicle already booked from %s to %s", ErrSlotTaken,
			taken.StartTime.Format("15:04"), taken.EndTime.Format("15:04"))
	}
	return nil
}

func (s *Service) notifyCustomer(b Booking) {
	if b.Status == StatusConfirmed {
		s.dispatcher.Dispatch(notification.Message{
			Kind:    notification.KindBookingConfirmation,
			Channel: notification.ChannelFor(b.CustomerID),
			Subject: "Booking Confirmation",
			Body:    notification.Format(notification.KindBookingConfirmation, b.ID),
		})
		return
	}
	body := notification.Format(notification.KindBookingFailure, "")
	if b.Reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, b.Reason)
	}
	s.dispatcher.Dispatch(notification.Message{
		Kind:    notification.KindBookingFailure,
		Channel: notification.ChannelFor(b.CustomerID),
		Subject: "Booking Update",
		Body:    body,
	})
}
