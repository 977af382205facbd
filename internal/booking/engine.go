// Package booking implements the reservation engine: every rule about
// slot validity, capacity accounting and the reservation lifecycle
// lives here. Handlers only translate its errors to HTTP statuses.
//
// Each mutating operation runs as a single transaction. The activity
// row is locked (SELECT ... FOR UPDATE) before the capacity check, so
// two bookings racing for the last spot serialize and the loser sees
// the exhausted pool instead of driving the counter negative.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/aquarhone/aquabook/internal/model"
	"github.com/aquarhone/aquabook/internal/queue"
	"github.com/aquarhone/aquabook/internal/repository"
)

// Publisher emits reservation lifecycle events after a successful
// commit. Publishing is best effort: failures are logged and never
// surface to the caller.
type Publisher interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// Engine validates and executes bookings and cancellations against the
// catalog. It owns the remaining_spots counter: nothing outside its
// transactions decrements or increments it during normal operation.
type Engine struct {
	db           *sql.DB
	activities   *repository.ActivityRepo
	reservations *repository.ReservationRepo
	publisher    Publisher // optional
}

// NewEngine constructs an Engine. publisher may be nil to disable
// event publishing.
func NewEngine(db *sql.DB, activities *repository.ActivityRepo, reservations *repository.ReservationRepo, publisher Publisher) *Engine {
	if db == nil || activities == nil || reservations == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{db: db, activities: activities, reservations: reservations, publisher: publisher}
}

// Create books one spot of an activity at the requested slot for the
// user. Validation order: presence/format, activity existence,
// capacity, slot membership, duplicate booking. On success the capacity
// decrement and the reservation insert commit together.
func (e *Engine) Create(ctx context.Context, userID, activityID uint64, dateTimeRaw string) (*repository.ReservationDetail, error) {
	if activityID == 0 || strings.TrimSpace(dateTimeRaw) == "" {
		return nil, ErrActivityRequired
	}
	slot, err := time.Parse(model.TimeLayout, strings.TrimSpace(dateTimeRaw))
	if err != nil {
		return nil, ErrBadDateTime
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	activity, err := e.activities.GetForUpdateTx(ctx, tx, activityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if activity.RemainingSpots == 0 {
		return nil, ErrNoSpotsLeft
	}
	if !activity.HasSlot(slot) {
		return nil, ErrSlotUnavailable
	}
	exists, err := e.reservations.ActiveExistsTx(ctx, tx, userID, activityID, slot)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBooking
	}

	res := &model.Reservation{
		UserID:     userID,
		ActivityID: activityID,
		DateTime:   slot,
		Status:     model.StatusConfirmed,
	}
	if err := e.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := e.activities.AdjustSpotsTx(ctx, tx, activityID, -1); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	detail := detailFrom(res, activity)
	e.publish(ctx, queue.EventReservationConfirmed, detail, activity.RemainingSpots-1)
	return detail, nil
}

// Cancel marks a reservation cancelled and returns one spot to the
// activity's pool, atomically. Only the owner may cancel, except that
// admins may cancel any reservation; the past-slot check applies to
// both. Cancellation is terminal.
func (e *Engine) Cancel(ctx context.Context, requesterID uint64, isAdmin bool, reservationID uint64) (*repository.ReservationDetail, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := e.reservations.GetForUpdateTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.UserID != requesterID && !isAdmin {
		return nil, ErrNotOwner
	}
	if res.Status == model.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if res.DateTime.Before(time.Now().UTC()) {
		return nil, ErrPastReservation
	}
	// Lock the activity row too: the spot return below races with
	// concurrent bookings the same way a create does.
	activity, err := e.activities.GetForUpdateTx(ctx, tx, res.ActivityID)
	if err != nil {
		return nil, err
	}
	if err := e.reservations.CancelTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := e.activities.AdjustSpotsTx(ctx, tx, res.ActivityID, +1); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	// The response is assembled from rows already read under the lock;
	// once the commit succeeded nothing can fail the request anymore.
	detail := detailFrom(res, activity)
	e.publish(ctx, queue.EventReservationCancelled, detail, activity.RemainingSpots+1)
	return detail, nil
}

// Get returns one reservation with its activity snapshot. Non-admin
// callers may only read their own.
func (e *Engine) Get(ctx context.Context, requesterID uint64, isAdmin bool, reservationID uint64) (*repository.ReservationDetail, error) {
	detail, err := e.reservations.GetDetail(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if detail.UserID != requesterID && !isAdmin {
		return nil, ErrNotOwner
	}
	return detail, nil
}

// ListForUser returns the caller's own reservations, newest first.
// Scoping happens here, not only at the gateway.
func (e *Engine) ListForUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return e.reservations.ListByUser(ctx, userID)
}

func (e *Engine) publish(ctx context.Context, event string, d *repository.ReservationDetail, remaining uint32) {
	if e.publisher == nil {
		return
	}
	ev := queue.ReservationEvent{
		Event:          event,
		ReservationID:  d.ID,
		UserID:         d.UserID,
		ActivityID:     d.Activity.ID,
		ActivityName:   d.Activity.Name,
		ActivityType:   d.Activity.ActivityType,
		Location:       d.Activity.Location,
		Price:          d.Activity.Price,
		DateTime:       d.DateTime,
		RemainingSpots: remaining,
		OccurredAt:     time.Now().UTC().Format(model.TimeLayout),
	}
	if err := e.publisher.PublishReservationEvent(ctx, ev); err != nil {
		log.Printf("booking: publish %s event failed: %v", event, err)
	}
}

func detailFrom(res *model.Reservation, a *model.Activity) *repository.ReservationDetail {
	return &repository.ReservationDetail{
		ID:     res.ID,
		UserID: res.UserID,
		Activity: repository.ActivitySummary{
			ID:           a.ID,
			Name:         a.Name,
			ActivityType: a.ActivityType,
			Location:     a.Location,
			Price:        a.Price,
		},
		DateTime:  res.DateTime.UTC().Format(model.TimeLayout),
		Status:    res.Status,
		CreatedAt: res.CreatedAt.UTC().Format(model.TimeLayout),
		UpdatedAt: res.UpdatedAt.UTC().Format(model.TimeLayout),
	}
}
