package fleet

import "time"

// Vehicle types offered by franchise operators.
const (
	TypeEBike       = "ebike"
	TypeGyroscooter = "gyroscooter"
	TypeSegway      = "segway"
)

// Vehicle is a rentable unit listed by a franchise operator.
type Vehicle struct {
	ID               string
	Type             string
	Model            string
	OperatorID       string
	RateCents        int64
	DiscountPercent  int
	BatteryLifeKM    int
	HeightAdjustable bool
	CreatedAt        time.Time
}
