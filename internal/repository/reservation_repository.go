package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/aquarhone/aquabook/internal/model"
)

// ReservationRepo provides persistence for reservations. The mutating
// methods operate inside a caller-owned transaction so the booking
// engine can pair them with capacity changes on the activity row; the
// caller must commit or rollback.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// ActivitySummary is the snapshot of activity fields embedded in
// reservation responses.
type ActivitySummary struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	ActivityType string  `json:"activityType"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
}

// ReservationDetail is a reservation joined with its activity snapshot,
// shaped for JSON responses. Timestamps are pre-formatted with
// model.TimeLayout. UserID is carried for ownership checks but never
// serialized.
type ReservationDetail struct {
	ID        uint64          `json:"id"`
	UserID    uint64          `json:"-"`
	Activity  ActivitySummary `json:"activity"`
	DateTime  string          `json:"dateTime"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// CreateTx inserts a confirmed reservation inside tx and populates the
// generated ID and timestamps on res.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, activity_id, date_time, status) VALUES (?,?,?,?)",
		res.UserID, res.ActivityID, res.DateTime, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reservations WHERE id = ?", res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
}

// ActiveExistsTx reports whether the user already holds a non-cancelled
// reservation for the same activity and slot.
func (r *ReservationRepo) ActiveExistsTx(ctx context.Context, tx *sql.Tx, userID, activityID uint64, at time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM reservations WHERE user_id = ? AND activity_id = ? AND date_time = ? AND status <> 'cancelled')",
		userID, activityID, at).Scan(&exists)
	return exists, err
}

// GetForUpdateTx loads a reservation inside tx with a row lock so a
// concurrent cancel of the same reservation serializes. Returns
// sql.ErrNoRows when missing.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.QueryRowContext(ctx,
		"SELECT id, user_id, activity_id, date_time, status, created_at, updated_at FROM reservations WHERE id = ? FOR UPDATE",
		id).Scan(&res.ID, &res.UserID, &res.ActivityID, &res.DateTime, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelTx marks a reservation cancelled inside tx and refreshes the
// status and updated_at fields on res, so callers can build a response
// without a read after commit.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status = 'cancelled' WHERE id = ?", res.ID); err != nil {
		return err
	}
	res.Status = model.StatusCancelled
	return tx.QueryRowContext(ctx,
		"SELECT updated_at FROM reservations WHERE id = ?", res.ID).
		Scan(&res.UpdatedAt)
}

// GetDetail returns one reservation joined with its activity snapshot.
// Returns sql.ErrNoRows when missing; ownership is checked by the
// caller against the UserID field.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	const q = `SELECT r.id, r.user_id, r.date_time, r.status, r.created_at, r.updated_at,
                      a.id, a.name, a.activity_type, a.location, a.price
               FROM reservations r
               JOIN activities a ON a.id = r.activity_id
               WHERE r.id = ?`
	return scanDetail(r.DB.QueryRowContext(ctx, q, id))
}

// ListByUser returns all of the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.user_id, r.date_time, r.status, r.created_at, r.updated_at,
                      a.id, a.name, a.activity_type, a.location, a.price
               FROM reservations r
               JOIN activities a ON a.id = r.activity_id
               WHERE r.user_id = ?
               ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var dateTime, createdAt, updatedAt time.Time
		if err := rows.Scan(&d.ID, &d.UserID, &dateTime, &d.Status, &createdAt, &updatedAt,
			&d.Activity.ID, &d.Activity.Name, &d.Activity.ActivityType, &d.Activity.Location, &d.Activity.Price); err != nil {
			return nil, err
		}
		d.DateTime = dateTime.UTC().Format(model.TimeLayout)
		d.CreatedAt = createdAt.UTC().Format(model.TimeLayout)
		d.UpdatedAt = updatedAt.UTC().Format(model.TimeLayout)
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountConfirmedByUser returns how many confirmed reservations the user
// holds. Used to refuse deleting accounts with live bookings.
func (r *ReservationRepo) CountConfirmedByUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE user_id = ? AND status = 'confirmed'",
		userID).Scan(&n)
	return n, err
}

func scanDetail(row *sql.Row) (*ReservationDetail, error) {
	var d ReservationDetail
	var dateTime, createdAt, updatedAt time.Time
	err := row.Scan(&d.ID, &d.UserID, &dateTime, &d.Status, &createdAt, &updatedAt,
		&d.Activity.ID, &d.Activity.Name, &d.Activity.ActivityType, &d.Activity.Location, &d.Activity.Price)
	if err != nil {
		return nil, err
	}
	d.DateTime = dateTime.UTC().Format(model.TimeLayout)
	d.CreatedAt = createdAt.UTC().Format(model.TimeLayout)
	d.UpdatedAt = updatedAt.UTC().Format(model.TimeLayout)
	return &d, nil
}
