package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lodgely/hotel-reservation/internal/booking"
	"github.com/lodgely/hotel-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation books one room type for a stay range and carries the
// total computed at booking time.  All timestamp fields are assumed to
// be stored in UTC; check_in/check_out are DATE columns.  Mutations
// that must move in lockstep with the availability ledger (create,
// cancel, delete) are exposed as ...Tx methods so the handler can wrap
// them together with the ledger updates in one transaction.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction creation.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, user_id, hotel_id, property_id, room_type_id, check_in, check_out,
       guest_count, total_amount_cents, commission_cents, net_cents, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	if err := row.Scan(
		&res.ID, &res.UserID, &res.HotelID, &res.PropertyID, &res.RoomTypeID,
		&res.CheckIn, &res.CheckOut, &res.GuestCount,
		&res.TotalAmountCents, &res.CommissionCents, &res.NetCents,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the
// transaction.  Status should be a value validated by
// model.ParseReservationStatus.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
               (user_id, hotel_id, property_id, room_type_id, check_in, check_out,
                guest_count, total_amount_cents, commission_cents, net_cents, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.UserID, res.HotelID, res.PropertyID, res.RoomTypeID,
		res.CheckIn.Format(booking.DateLayout), res.CheckOut.Format(booking.DateLayout),
		res.GuestCount, res.TotalAmountCents, res.CommissionCents, res.NetCents, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the timestamps populated by DB defaults.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// GetByID fetches a reservation by primary key.  sql.ErrNoRows is
// returned when it does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx fetches a reservation by primary key with a row lock
// inside the given transaction.  Cancellation and deletion read the
// status through this method so that the row is pinned between the
// idempotence check and the stock restoration.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx rewrites the status column within the given
// transaction.  The status must already have passed enum validation.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteTx removes the reservation row within the given transaction.
// Callers must restore ledger stock in the same transaction before
// committing.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}

// ReservationDetail encapsulates a reservation along with the names of
// its hotel, property and room type.  It is returned by the listing
// endpoints for display to customers and owners.
type ReservationDetail struct {
	ID               uint64 `json:"id"`
	UserID           uint64 `json:"user_id"`
	HotelID          uint64 `json:"hotel_id"`
	HotelName        string `json:"hotel_name"`
	PropertyID       uint64 `json:"property_id"`
	PropertyName     string `json:"property_name"`
	RoomTypeID       uint64 `json:"room_type_id"`
	RoomTypeName     string `json:"room_type_name"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	GuestCount       uint32 `json:"guest_count"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

const detailQuery = `SELECT r.id, r.user_id, r.hotel_id, h.name, r.property_id, p.name,
                            r.room_type_id, rt.name, r.check_in, r.check_out,
                            r.guest_count, r.total_amount_cents, r.status, r.created_at
                     FROM reservations r
                     JOIN hotels h ON h.id = r.hotel_id
                     JOIN properties p ON p.id = r.property_id
                     JOIN room_types rt ON rt.id = r.room_type_id`

func scanDetail(row interface{ Scan(...interface{}) error }) (*ReservationDetail, error) {
	var d ReservationDetail
	var checkIn, checkOut, createdAt time.Time
	if err := row.Scan(
		&d.ID, &d.UserID, &d.HotelID, &d.HotelName, &d.PropertyID, &d.PropertyName,
		&d.RoomTypeID, &d.RoomTypeName, &checkIn, &checkOut,
		&d.GuestCount, &d.TotalAmountCents, &d.Status, &createdAt,
	); err != nil {
		return nil, err
	}
	d.CheckIn = checkIn.Format(booking.DateLayout)
	d.CheckOut = checkOut.Format(booking.DateLayout)
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &d, nil
}

// GetDetailForUser returns a single reservation with directory names,
// restricted to the requesting user to enforce ownership.  When no
// reservation with the specified ID exists for the user, sql.ErrNoRows
// is returned.
func (r *ReservationRepo) GetDetailForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = detailQuery + ` WHERE r.id = ? AND r.user_id = ?`
	return scanDetail(r.db.QueryRowContext(ctx, q, reservationID, userID))
}

// ListByUser returns all reservations for the given user, newest
// first.  When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = detailQuery + ` WHERE r.user_id = ? ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

// ListByRoomTypeForOwner returns all reservations of a room type when
// accessed by the owner of its hotel.  It verifies ownership by
// joining through properties and hotels; a room type owned by someone
// else returns ErrForbidden and a missing room type returns
// sql.ErrNoRows.  Reservations are ordered by creation time descending.
func (r *ReservationRepo) ListByRoomTypeForOwner(ctx context.Context, roomTypeID, ownerID uint64) ([]ReservationDetail, error) {
	const checkQ = `SELECT h.owner_id
                    FROM room_types rt
                    JOIN properties p ON p.id = rt.property_id
                    JOIN hotels h ON h.id = p.hotel_id
                    WHERE rt.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, roomTypeID).Scan(&actualOwnerID); err != nil {
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = detailQuery + ` WHERE r.room_type_id = ? ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, roomTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}
