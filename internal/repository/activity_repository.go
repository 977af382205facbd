package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/aquarhone/aquabook/internal/model"
)

const activityColumns = "id, name, description, activity_type, location, price, available_slots, remaining_spots, created_at, updated_at"

// ActivityRepo provides CRUD operations on the activities table plus
// the transactional accessors the booking engine needs. The slot list
// is stored as a JSON array of TimeLayout strings.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// ActivityUpdate carries the optional fields of a partial update. Nil
// pointers leave the column untouched; AvailableSlots is a pointer so
// an explicit empty list can clear the template.
type ActivityUpdate struct {
	Name           *string
	Description    *string
	ActivityType   *string
	Location       *string
	Price          *float64
	AvailableSlots *[]string
	RemainingSpots *uint32
}

// Create inserts the activity and populates its ID and timestamps.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	slots := a.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO activities (name, description, activity_type, location, price, available_slots, remaining_spots) VALUES (?,?,?,?,?,?,?)",
		a.Name, a.Description, a.ActivityType, a.Location, a.Price, slotsJSON, a.RemainingSpots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.AvailableSlots = slots
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM activities WHERE id = ?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches one activity. Returns sql.ErrNoRows when missing.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (*model.Activity, error) {
	return scanActivity(r.DB.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", id))
}

// List returns all activities ordered by id.
func (r *ActivityRepo) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var slotsJSON []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.ActivityType, &a.Location,
			&a.Price, &slotsJSON, &a.RemainingSpots, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(slotsJSON, &a.AvailableSlots); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Update applies the non-nil fields of upd and returns the updated
// record. updated_at refreshes through the column default. Returns
// sql.ErrNoRows when the activity does not exist.
func (r *ActivityRepo) Update(ctx context.Context, id uint64, upd ActivityUpdate) (*model.Activity, error) {
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.ActivityType != nil {
		sets = append(sets, "activity_type=?")
		args = append(args, *upd.ActivityType)
	}
	if upd.Location != nil {
		sets = append(sets, "location=?")
		args = append(args, *upd.Location)
	}
	if upd.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *upd.Price)
	}
	if upd.AvailableSlots != nil {
		slotsJSON, err := json.Marshal(*upd.AvailableSlots)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "available_slots=?")
		args = append(args, slotsJSON)
	}
	if upd.RemainingSpots != nil {
		sets = append(sets, "remaining_spots=?")
		args = append(args, *upd.RemainingSpots)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE activities SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an activity; reservation rows cascade at the database
// level. Returns sql.ErrNoRows when no row matched.
func (r *ActivityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM activities WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetForUpdateTx loads an activity inside tx with a row lock, so
// concurrent bookings against the same activity serialize on the
// capacity check. Returns sql.ErrNoRows when missing.
func (r *ActivityRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Activity, error) {
	return scanActivity(tx.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ? FOR UPDATE", id))
}

// AdjustSpotsTx shifts remaining_spots by delta (+1 or -1) inside tx.
// Callers must hold the row lock and have verified the counter cannot
// go negative; the unsigned column makes the database reject it anyway.
func (r *ActivityRepo) AdjustSpotsTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE activities SET remaining_spots = remaining_spots + ? WHERE id = ?", delta, id)
	return err
}

func scanActivity(row *sql.Row) (*model.Activity, error) {
	var a model.Activity
	var slotsJSON []byte
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.ActivityType, &a.Location,
		&a.Price, &slotsJSON, &a.RemainingSpots, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(slotsJSON, &a.AvailableSlots); err != nil {
		return nil, err
	}
	return &a, nil
}
