package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarhone/aquabook/internal/model"
)

func activityRow(id uint64, remaining uint32, slotsJSON string) *sqlmock.Rows {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "name", "description", "activity_type", "location", "price",
		"available_slots", "remaining_spots", "created_at", "updated_at",
	}).AddRow(id, "Saone Cruise", "Evening cruise", "cruise", "Lyon", 30.0,
		[]byte(slotsJSON), remaining, now, now)
}

func TestActivityCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityRepo(db)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO activities (name, description, activity_type, location, price, available_slots, remaining_spots) VALUES (?,?,?,?,?,?,?)")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT created_at, updated_at FROM activities WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := model.Activity{
		Name:           "Saone Cruise",
		Description:    "Evening cruise",
		ActivityType:   model.TypeCruise,
		Location:       "Lyon",
		Price:          30.0,
		RemainingSpots: 20,
	}
	require.NoError(t, repo.Create(context.Background(), &a))
	assert.Equal(t, uint64(3), a.ID)
	// a nil slot list is persisted and returned as an empty one
	assert.Equal(t, []string{}, a.AvailableSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityRepo(db)

	mock.ExpectQuery("FROM activities WHERE id = ?").
		WithArgs(uint64(3)).
		WillReturnRows(activityRow(3, 20, `["2026-09-10 18:00:00"]`))

	a, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Saone Cruise", a.Name)
	assert.Equal(t, []string{"2026-09-10 18:00:00"}, a.AvailableSlots)
	assert.Equal(t, uint32(20), a.RemainingSpots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityUpdatePartial(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityRepo(db)

	price := 35.0
	var spots uint32 = 15

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE activities SET price=?, remaining_spots=? WHERE id=?")).
		WithArgs(price, spots, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM activities WHERE id = ?").
		WillReturnRows(activityRow(3, spots, `[]`))

	a, err := repo.Update(context.Background(), 3, ActivityUpdate{Price: &price, RemainingSpots: &spots})
	require.NoError(t, err)
	assert.Equal(t, spots, a.RemainingSpots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityRepo(db)

	name := "Renamed"
	mock.ExpectExec("UPDATE activities SET name=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM activities WHERE id = ?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Update(context.Background(), 99, ActivityUpdate{Name: &name})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActivityRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activities WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec("DELETE FROM activities").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepo(db)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"r.id", "r.user_id", "r.date_time", "r.status", "r.created_at", "r.updated_at",
		"a.id", "a.name", "a.activity_type", "a.location", "a.price",
	}).
		AddRow(2, 5, at, "confirmed", now, now, 3, "Saone Cruise", "cruise", "Lyon", 30.0).
		AddRow(1, 5, at, "cancelled", now, now, 3, "Saone Cruise", "cruise", "Lyon", 30.0)

	mock.ExpectQuery("ORDER BY r.created_at DESC, r.id DESC").
		WithArgs(uint64(5)).
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(2), items[0].ID)
	assert.Equal(t, "2026-09-10 10:00:00", items[0].DateTime)
	assert.Equal(t, "cancelled", items[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountConfirmedByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM reservations WHERE user_id = ? AND status = 'confirmed'")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountConfirmedByUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
