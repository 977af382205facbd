// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names carried in ReservationEvent.Event.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published when a reservation is confirmed or
// cancelled. It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type ReservationEvent struct {
	Event          string  `json:"event"`
	ReservationID  uint64  `json:"reservation_id"`
	UserID         uint64  `json:"user_id"`
	ActivityID     uint64  `json:"activity_id"`
	ActivityName   string  `json:"activity_name"`
	ActivityType   string  `json:"activity_type"`
	Location       string  `json:"location"`
	Price          float64 `json:"price"`
	DateTime       string  `json:"date_time"`
	RemainingSpots uint32  `json:"remaining_spots"`
	OccurredAt     string  `json:"occurred_at"`
}
