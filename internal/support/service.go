package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scootgate/scootgate/internal/booking"
	"github.com/scootgate/scootgate/internal/fleet"
	"github.com/scootgate/scootgate/internal/notification"
)

// ErrInvalidTicket marks a concern that fails validation.
var ErrInvalidTicket = errors.New("invalid ticket")

// Service opens and resolves support tickets. New tickets are assigned to
// the operator of the booked vehicle when a booking reference is given,
// otherwise to any operator with listed inventory.
type Service struct {
	repo       Repository
	bookings   *booking.Service
	fleet      *fleet.Service
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds a support service instance.
func NewService(repo Repository, bookings *booking.Service, fleetSvc *fleet.Service, dispatcher *notification.Dispatcher, logger *slog.Logger) *Service {
	return &Service{repo: repo, bookings: bookings, fleet: fleetSvc, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// OpenInput captures a new concern.
type OpenInput struct {
	UserID      string
	BookingID   string
	IssueType   string
	Description string
}

// Open files a ticket and notifies the assignee when one can be resolved
// from the booking reference.
func (s *Service) Open(ctx context.Context, input OpenInput) (Ticket, error) {
	if input.UserID == "" || input.IssueType == "" || input.Description == "" {
		return Ticket{}, fmt.Errorf("%w: user, issue type and description are required", ErrInvalidTicket)
	}

	assignee := Unassigned
	if input.BookingID != "" {
		if b, err := s.bookings.Lookup(ctx, input.BookingID); err == nil {
			assignee = b.OperatorID
		}
	}
	if assignee == Unassigned {
		assignee = s.fallbackAssignee(ctx)
	}

	now := s.now().UTC()
	t := Ticket{
		ID:          NewTicketID(now, input.UserID),
		UserID:      input.UserID,
		BookingID:   input.BookingID,
		IssueType:   input.IssueType,
		Description: input.Description,
		Status:      StatusOpen,
		Priority:    PriorityMedium,
		AssignedTo:  assignee,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Ticket{}, err
	}

	if assignee != Unassigned {
		s.dispatcher.Dispatch(notification.Message{
			Kind:    notification.KindSupportTicket,
			Channel: notification.ChannelFor(assignee),
			Subject: "New Support Ticket",
			Body:    fmt.Sprintf("Ticket %s (%s) has been assigned to you.", t.ID, t.IssueType),
		})
	}
	s.logger.Info("ticket opened",
		slog.String("ticket_id", t.ID),
		slog.String("user", t.UserID),
		slog.String("assigned_to", assignee),
	)
	return t, nil
}

// fallbackAssignee routes concerns without a usable booking reference to
// an operator with listed inventory, so no ticket sits unowned.
func (s *Service) fallbackAssignee(ctx context.Context) string {
	if s.fleet == nil {
		return Unassigned
	}
	vehicles, err := s.fleet.List(ctx)
	if err != nil || len(vehicles) == 0 {
		return Unassigned
	}
	return vehicles[0].OperatorID
}

// Get fetches a ticket by reference.
func (s *Service) Get(ctx context.Context, id string) (Ticket, error) {
	return s.repo.Get(ctx, id)
}

// ListByUser returns the user's tickets, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Ticket, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Resolve closes a ticket.
func (s *Service) Resolve(ctx context.Context, id string) (Ticket, error) {
	now := s.now().UTC()
	if err := s.repo.SetStatus(ctx, id, StatusResolved, now); err != nil {
		return Ticket{}, err
	}
	return s.repo.Get(ctx, id)
}
