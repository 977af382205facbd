package booking

import "errors"

// Failure taxonomy of the reservation engine. Handlers map these onto
// HTTP statuses: required/format and the slot, capacity, cancellation
// state errors become 400, missing records 404, ownership violations
// 403 and duplicate bookings 409.
var (
	// ErrActivityRequired is returned when the booking request is
	// missing the activity id or the slot date/time.
	ErrActivityRequired = errors.New("activity id and date/time are required")

	// ErrBadDateTime is returned when the slot date/time cannot be
	// parsed as "YYYY-MM-DD HH:MM:SS".
	ErrBadDateTime = errors.New("invalid date/time format, expected YYYY-MM-DD HH:MM:SS")

	// ErrActivityNotFound is returned when the referenced activity
	// does not exist.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrNoSpotsLeft is returned when the activity's capacity pool is
	// exhausted.
	ErrNoSpotsLeft = errors.New("no spots left for this activity")

	// ErrSlotUnavailable is returned when the requested date/time is
	// not one of the activity's offered slots.
	ErrSlotUnavailable = errors.New("slot not available for this activity")

	// ErrDuplicateBooking is returned when the user already holds a
	// non-cancelled reservation for the same activity and slot.
	ErrDuplicateBooking = errors.New("reservation already exists for this slot")

	// ErrReservationNotFound is returned when the reservation does not
	// exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrNotOwner is returned when a non-admin caller touches a
	// reservation that belongs to another user.
	ErrNotOwner = errors.New("reservation belongs to another user")

	// ErrAlreadyCancelled is returned when cancelling a reservation
	// that was cancelled before; cancellation is terminal.
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrPastReservation is returned when cancelling a reservation
	// whose slot time has already passed.
	ErrPastReservation = errors.New("cannot cancel a reservation in the past")
)
