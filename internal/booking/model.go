package booking

import (
	"fmt"
	"time"
)

// Booking status lifecycle: pending until the franchise operator decides.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDenied    = "denied"
)

// Booking is a customer's request for a vehicle over a time window.
type Booking struct {
	ID         string
	VehicleID  string
	CustomerID string
	OperatorID string
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	Reason     string
	CreatedAt  time.Time
	DecidedAt  time.Time
}

// NewReference builds the booking reference handed to the customer. The
// leading timestamp keeps references sortable without a counter.
func NewReference(now time.Time, vehicleID string) string {
	return fmt.Sprintf("%d-%s", now.Unix(), vehicleID)
}

// Overlaps reports whether the booking's window intersects [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.EndTime.After(start) && b.StartTime.Before(end)
}
