package support

import (
	"fmt"
	"time"
)

// Ticket lifecycle and triage defaults.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"

	PriorityMedium = "MEDIUM"

	Unassigned = "UNASSIGNED"
)

// Ticket is a customer concern routed to a franchise operator.
type Ticket struct {
	ID          string
	UserID      string
	BookingID   string
	IssueType   string
	Description string
	Status      string
	Priority    string
	AssignedTo  string
	CreatedAt   time.Time
	ResolvedAt  time.Time
}

// NewTicketID builds the reference shown to the customer.
func NewTicketID(now time.Time, userID string) string {
	return fmt.Sprintf("TICKET_%s_%s", now.UTC().Format("20060102_150405"), userID)
}
