package model

import "time"

// Reservation states. A reservation is created confirmed and can only
// transition to cancelled; cancellation is terminal. Rows are never
// deleted by the booking flow.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation records a user's booking of one spot of an activity at a
// specific slot time. It references User and Activity by identity only;
// creating one consumes a unit of the activity's RemainingSpots and
// cancelling restores it.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who booked.
//  ActivityID – activity being booked.
//  DateTime   – the chosen slot; must equal one of the activity's
//               available slots at creation time.
//  Status     – confirmed or cancelled.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64
	UserID     uint64
	ActivityID uint64
	DateTime   time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
