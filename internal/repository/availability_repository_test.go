package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgely/hotel-reservation/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestAvailabilityCreate_DuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availabilities")).
		WithArgs(uint64(1), "2024-06-01", uint32(2), nil).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1-2024-06-01' for key 'uq_room_type_date'"))

	err := repo.Create(context.Background(), &model.Availability{
		RoomTypeID: 1,
		Date:       mustDate(t, "2024-06-01"),
		Stock:      2,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCreate_PopulatesID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availabilities")).
		WithArgs(uint64(1), "2024-06-01", uint32(2), nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM availabilities")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	rec := &model.Availability{RoomTypeID: 1, Date: mustDate(t, "2024-06-01"), Stock: 2}
	require.NoError(t, repo.Create(context.Background(), rec))
	assert.Equal(t, uint64(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockTx_InsufficientWhenNoRowMatches(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	mock.ExpectBegin()
	// The conditional WHERE stock >= ? matched no row: either the night
	// is missing or a concurrent booking consumed the stock first.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE availabilities SET stock = stock -")).
		WithArgs(uint32(2), uint64(1), "2024-06-01", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.DecrementStockTx(ctx, tx, 1, mustDate(t, "2024-06-01"), 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockTx_Succeeds(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE availabilities SET stock = stock -")).
		WithArgs(uint32(2), uint64(1), "2024-06-01", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.DecrementStockTx(ctx, tx, 1, mustDate(t, "2024-06-01"), 2))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementStockTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE availabilities SET stock = stock +")).
		WithArgs(uint32(3), uint64(7), "2024-06-02").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.IncrementStockTx(ctx, tx, 7, mustDate(t, "2024-06-02"), 3))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByID_DateCollisionIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	// Another record already owns the target night.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM availabilities WHERE room_type_id = ? AND date = ? AND id <> ?")).
		WithArgs(uint64(1), "2024-06-05", uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.UpdateByID(context.Background(), &model.Availability{
		ID:         9,
		RoomTypeID: 1,
		Date:       mustDate(t, "2024-06-05"),
		Stock:      4,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID_CoveredNightIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_type_id", "date", "stock", "price_override_cents", "created_at", "updated_at"}).
			AddRow(5, 1, mustDate(t, "2024-06-01"), 2, nil, now, now))
	// One active reservation still covers the night.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WithArgs(uint64(1), model.StatusCancelled, "2024-06-01", "2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.DeleteByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID_UncoveredNightDeletes(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAvailabilityRepo(db)

	// Row lock, coverage check and delete commit as one unit so no
	// booking can slip in between them.
	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM availabilities WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_type_id", "date", "stock", "price_override_cents", "created_at", "updated_at"}).
			AddRow(5, 1, mustDate(t, "2024-06-01"), 2, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WithArgs(uint64(1), model.StatusCancelled, "2024-06-01", "2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availabilities WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteByID(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
