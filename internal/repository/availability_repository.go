package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lodgely/hotel-reservation/internal/booking"
	"github.com/lodgely/hotel-reservation/internal/model"
)

// AvailabilityRepo is the availability ledger: one row per
// (room_type, calendar night) holding the remaining stock and an
// optional nightly price override.  The stock column gates every
// booking; all mutations that accompany a reservation run through the
// ...Tx methods so that the caller controls the transaction boundary.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span this repository and the reservation repository.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

const availabilityColumns = `id, room_type_id, date, stock, price_override_cents, created_at, updated_at`

func scanAvailability(row interface{ Scan(...interface{}) error }) (*model.Availability, error) {
	var a model.Availability
	var override sql.NullInt64
	if err := row.Scan(&a.ID, &a.RoomTypeID, &a.Date, &a.Stock, &override, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if override.Valid {
		v := override.Int64
		a.PriceOverrideCents = &v
	}
	return &a, nil
}

// GetByID fetches a single ledger record by primary key.  sql.ErrNoRows
// is returned when the record does not exist.
func (r *AvailabilityRepo) GetByID(ctx context.Context, id uint64) (*model.Availability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = ?`
	return scanAvailability(r.db.QueryRowContext(ctx, q, id))
}

// GetByRoomTypeAndDate fetches the record for one night of one room
// type.  Absence (sql.ErrNoRows) means the night is not configured and
// therefore not bookable; there is no implicit infinite stock.
func (r *AvailabilityRepo) GetByRoomTypeAndDate(ctx context.Context, roomTypeID uint64, date time.Time) (*model.Availability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM availabilities WHERE room_type_id = ? AND date = ?`
	return scanAvailability(r.db.QueryRowContext(ctx, q, roomTypeID, date.Format(booking.DateLayout)))
}

// Create inserts a new ledger record.  The insert path is insert-only:
// a record already existing for the same (room_type_id, date) violates
// the unique key and is reported as ErrConflict.  On success the
// generated ID and timestamps are populated on the passed record.
func (r *AvailabilityRepo) Create(ctx context.Context, a *model.Availability) error {
	const q = `INSERT INTO availabilities (room_type_id, date, stock, price_override_cents) VALUES (?, ?, ?, ?)`
	var override interface{}
	if a.PriceOverrideCents != nil {
		override = *a.PriceOverrideCents
	}
	res, err := r.db.ExecContext(ctx, q, a.RoomTypeID, a.Date.Format(booking.DateLayout), a.Stock, override)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM availabilities WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// UpdateByID rewrites the stock, date and price override of an existing
// record.  Moving the record to a new date re-validates the
// (room_type_id, date) uniqueness against all rows except itself and
// returns ErrConflict when another record already owns the target
// night.  sql.ErrNoRows is returned when the record does not exist.
func (r *AvailabilityRepo) UpdateByID(ctx context.Context, a *model.Availability) error {
	// Uniqueness re-check excluding the record being updated.
	const dupQ = `SELECT COUNT(*) FROM availabilities WHERE room_type_id = ? AND date = ? AND id <> ?`
	var n int
	if err := r.db.QueryRowContext(ctx, dupQ, a.RoomTypeID, a.Date.Format(booking.DateLayout), a.ID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	var override interface{}
	if a.PriceOverrideCents != nil {
		override = *a.PriceOverrideCents
	}
	const q = `UPDATE availabilities SET date = ?, stock = ?, price_override_cents = ? WHERE id = ? AND room_type_id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Date.Format(booking.DateLayout), a.Stock, override, a.ID, a.RoomTypeID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is gone or nothing changed; distinguish by existence.
		const existsQ = `SELECT COUNT(*) FROM availabilities WHERE id = ?`
		var c int
		if err := r.db.QueryRowContext(ctx, existsQ, a.ID).Scan(&c); err != nil {
			return err
		}
		if c == 0 {
			return sql.ErrNoRows
		}
	}
	return nil
}

// DeleteByID removes a ledger record, but only while no active
// (non-cancelled) reservation's [check_in, check_out) interval covers
// its night.  The coverage check and the delete run in one transaction
// with the ledger row locked; the booking path locks the same row, so
// a concurrent booking cannot commit between check and delete.  A
// covered night returns ErrConflict; a missing record returns
// sql.ErrNoRows.
func (r *AvailabilityRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = ? FOR UPDATE`
	rec, err := scanAvailability(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		return err
	}
	const coveredQ = `SELECT COUNT(*) FROM reservations
                      WHERE room_type_id = ? AND status <> ?
                        AND check_in <= ? AND check_out > ?`
	day := rec.Date.Format(booking.DateLayout)
	var n int
	if err := tx.QueryRowContext(ctx, coveredQ, rec.RoomTypeID, model.StatusCancelled, day, day).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM availabilities WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByRoomTypeRange returns the configured nights of a room type in
// [from, to), ordered by date.  Used by the public calendar view; no
// locks are taken.
func (r *AvailabilityRepo) ListByRoomTypeRange(ctx context.Context, roomTypeID uint64, from, to time.Time) ([]model.Availability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM availabilities
               WHERE room_type_id = ? AND date >= ? AND date < ?
               ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q, roomTypeID, from.Format(booking.DateLayout), to.Format(booking.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Availability, 0)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// LockRangeTx loads and row-locks (SELECT ... FOR UPDATE) every ledger
// record of a room type in [from, to) within the given transaction.
// The returned map is keyed by the date formatted with
// booking.DateLayout.  Holding these locks until commit closes the
// window in which two concurrent bookings could both observe
// sufficient stock.
func (r *AvailabilityRepo) LockRangeTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, from, to time.Time) (map[string]*model.Availability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM availabilities
               WHERE room_type_id = ? AND date >= ? AND date < ?
               ORDER BY date
               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, roomTypeID, from.Format(booking.DateLayout), to.Format(booking.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	recs := make(map[string]*model.Availability)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		recs[a.Date.Format(booking.DateLayout)] = a
	}
	return recs, rows.Err()
}

// DecrementStockTx atomically consumes stock for one night.  The
// WHERE stock >= ? guard makes the decrement conditional: when the
// night is missing or no longer has enough stock the statement affects
// zero rows and ErrInsufficientStock is returned.  This re-check at
// mutation time is the authoritative guard against concurrent bookings,
// even when an earlier advisory read said the night was available.
func (r *AvailabilityRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, date time.Time, amount uint32) error {
	const q = `UPDATE availabilities SET stock = stock - ?
               WHERE room_type_id = ? AND date = ? AND stock >= ?`
	res, err := tx.ExecContext(ctx, q, amount, roomTypeID, date.Format(booking.DateLayout), amount)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStockTx restores stock for one night after a cancellation or
// deletion.  It is the inverse of a prior decrement and enforces no
// upper bound; callers guard against double restoration via the
// reservation status.
func (r *AvailabilityRepo) IncrementStockTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, date time.Time, amount uint32) error {
	const q = `UPDATE availabilities SET stock = stock + ?
               WHERE room_type_id = ? AND date = ?`
	_, err := tx.ExecContext(ctx, q, amount, roomTypeID, date.Format(booking.DateLayout))
	return err
}
