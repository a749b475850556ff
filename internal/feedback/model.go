package feedback

import "time"

// StatusSubmitted is the initial state of every entry.
const StatusSubmitted = "submitted"

// Feedback is a customer's written feedback tied to a completed booking.
type Feedback struct {
	ID           string
	CustomerID   string
	BookingID    string
	Message      string
	ContactEmail string
	Status       string
	CreatedAt    time.Time
}
