package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/scootgate/scootgate/internal/booking"
)

// Dialog states mirrored from the chat front end's envelope.
const (
	StateFulfilled  = "Fulfilled"
	StateElicitSlot = "ElicitSlot"
	StateFailed     = "Failed"
)

// Intent names accepted by the assistant.
const (
	IntentBookingLookup  = "booking_lookup"
	IntentSupportTicket  = "support_ticket"
	IntentNavigationHelp = "navigation_help"
)

// Slot names per intent.
const (
	SlotBookingID   = "bookingID"
	SlotIssueType   = "issueType"
	SlotDescription = "description"
	SlotTopic       = "topic"
)

// IntentRequest is one turn of the conversation: the recognized intent and
// whatever slots the front end has collected so far.
type IntentRequest struct {
	Intent string
	UserID string
	Slots  map[string]string
}

// IntentResponse tells the front end whether the turn is done or which slot
// to ask for next.
type IntentResponse struct {
	State        string `json:"state"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
	Message      string `json:"message"`
}

var navigationTopics = map[string]string{
	"register":  "Sign up with your email, a password and a security question, then confirm with the code we send you.",
	"booking":   "Pick a vehicle from the list, choose a time window and submit. The operator approves or denies your request.",
	"unlocking": "Your booking confirmation carries the reference code. Enter it on the vehicle's keypad to unlock.",
	"payment":   "Rides are charged per hour at the listed rate. Discounts apply automatically at checkout.",
	"safety":    "Always wear a helmet and follow local traffic rules. Report damaged vehicles through a support ticket.",
	"support":   "Describe your issue here and we will open a ticket with the responsible operator.",
}

// Assistant resolves chat intents without keeping any dialog state of its
// own; the front end replays collected slots on every turn.
type Assistant struct {
	bookings *booking.Service
	tickets  *Service
	logger   *slog.Logger
}

// NewAssistant builds the intent resolver.
func NewAssistant(bookings *booking.Service, tickets *Service, logger *slog.Logger) *Assistant {
	return &Assistant{bookings: bookings, tickets: tickets, logger: logger}
}

// Handle resolves one conversation turn.
func (a *Assistant) Handle(ctx context.Context, req IntentRequest) IntentResponse {
	switch req.Intent {
	case IntentBookingLookup:
		return a.bookingLookup(ctx, req)
	case IntentSupportTicket:
		return a.supportTicket(ctx, req)
	case IntentNavigationHelp:
		return a.navigationHelp(req)
	default:
		return IntentResponse{
			State:   StateFailed,
			Message: "Sorry, I did not understand that. I can look up bookings, open support tickets or explain how the service works.",
		}
	}
}

func (a *Assistant) bookingLookup(ctx context.Context, req IntentRequest) IntentResponse {
	ref := strings.TrimSpace(req.Slots[SlotBookingID])
	if ref == "" {
		return IntentResponse{
			State:        StateElicitSlot,
			SlotToElicit: SlotBookingID,
			Message:      "Please share your booking reference code.",
		}
	}
	b, err := a.bookings.Lookup(ctx, ref)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return IntentResponse{
				State:   StateFailed,
				Message: fmt.Sprintf("Sorry, I could not find a booking with reference %s.", ref),
			}
		}
		a.logger.Error("booking lookup failed", slog.String("reference", ref), slog.Any("error", err))
		return IntentResponse{State: StateFailed, Message: "Something went wrong looking up your booking. Please try again later."}
	}
	return IntentResponse{
		State: StateFulfilled,
		Message: fmt.Sprintf("Booking %s: vehicle %s from %s to %s, status %s.",
			b.ID, b.VehicleID,
			b.StartTime.Format("Jan 2 15:04"), b.EndTime.Format("Jan 2 15:04"),
			b.Status),
	}
}

func (a *Assistant) supportTicket(ctx context.Context, req IntentRequest) IntentResponse {
	issueType := strings.TrimSpace(req.Slots[SlotIssueType])
	if issueType == "" {
		return IntentResponse{
			State:        StateElicitSlot,
			SlotToElicit: SlotIssueType,
			Message:      "What kind of issue are you facing? For example: vehicle, booking, payment.",
		}
	}
	description := strings.TrimSpace(req.Slots[SlotDescription])
	if description == "" {
		return IntentResponse{
			State:        StateElicitSlot,
			SlotToElicit: SlotDescription,
			Message:      "Please describe the issue in a few words.",
		}
	}

	t, err := a.tickets.Open(ctx, OpenInput{
		UserID:      req.UserID,
		BookingID:   strings.TrimSpace(req.Slots[SlotBookingID]),
		IssueType:   issueType,
		Description: description,
	})
	if err != nil {
		a.logger.Error("ticket creation failed", slog.String("user", req.UserID), slog.Any("error", err))
		return IntentResponse{State: StateFailed, Message: "Sorry, I could not open a ticket right now. Please try again later."}
	}
	return IntentResponse{
		State:   StateFulfilled,
		Message: fmt.Sprintf("Your concern has been registered. Your ticket reference is %s.", t.ID),
	}
}

func (a *Assistant) navigationHelp(req IntentRequest) IntentResponse {
	topic := strings.ToLower(strings.TrimSpace(req.Slots[SlotTopic]))
	if answer, ok := navigationTopics[topic]; ok {
		return IntentResponse{State: StateFulfilled, Message: answer}
	}
	return IntentResponse{
		State:        StateElicitSlot,
		SlotToElicit: SlotTopic,
		Message:      "I can help with: " + strings.Join(topicList(), ", ") + ". Which topic?",
	}
}

func topicList() []string {
	topics := make([]string, 0, len(navigationTopics))
	for t := range navigationTopics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
