package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidFeedback marks a submission that fails validation.
var ErrInvalidFeedback = errors.New("invalid feedback")

// Service records customer feedback against bookings.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a feedback service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// SubmitInput captures a customer's feedback on a booking.
type SubmitInput struct {
	CustomerID   string
	BookingID    string
	Message      string
	ContactEmail string
}

// Submit validates and stores one feedback entry. Every field is required.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Feedback, error) {
	if strings.TrimSpace(input.CustomerID) == "" ||
		strings.TrimSpace(input.BookingID) == "" ||
		strings.TrimSpace(input.Message) == "" ||
		strings.TrimSpace(input.ContactEmail) == "" {
		return Feedback{}, fmt.Errorf("%w: all fields are required", ErrInvalidFeedback)
	}

	f := Feedback{
		ID:           uuid.NewString(),
		CustomerID:   input.CustomerID,
		BookingID:    input.BookingID,
		Message:      input.Message,
		ContactEmail: input.ContactEmail,
		Status:       StatusSubmitted,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Feedback{}, err
	}

	s.logger.Info("feedback submitted",
		slog.String("feedback_id", f.ID),
		slog.String("booking_id", f.BookingID),
		slog.String("customer", f.CustomerID),
	)
	return f, nil
}

// ListForBooking returns all feedback filed against one booking, newest
// first.
func (s *Service) ListForBooking(ctx context.Context, bookingID string) ([]Feedback, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

// ListForCustomer returns a customer's own feedback, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]Feedback, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
