package model

import (
	"strings"
	"time"
)

// Reservation statuses form a closed set.  The status column is an
// ENUM in the database and every value arriving over HTTP must pass
// through ParseReservationStatus before being persisted.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
	StatusNoShow    = "NO_SHOW"
)

// ParseReservationStatus normalizes and validates a status string.
// It returns the canonical upper-case value and true when the input
// names a known status, or "" and false otherwise.
func ParseReservationStatus(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return s, true
	}
	return "", false
}

// Reservation records a user's booking of a room type for a stay
// range.  The stay covers the half-open interval [CheckIn, CheckOut):
// the check-out date itself is not a booked night.  A reservation is
// created only after every night in the range passed an availability
// check, and its creation decrements the ledger stock for each night.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – user who made the reservation.
//	HotelID          – hotel of the booked room type.
//	PropertyID       – property of the booked room type.
//	RoomTypeID       – room type being booked.
//	CheckIn          – first night of the stay (date only, UTC).
//	CheckOut         – exclusive end of the stay (date only, UTC).
//	GuestCount       – number of guests, 1..10.
//	TotalAmountCents – total price in cents summed over all nights.
//	CommissionCents  – commission amount in cents; filled in by the
//	                   commission subsystem, zero by default.
//	NetCents         – total minus commission, in cents.
//	Status           – one of the Status* constants.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               uint64    // reservations.id
	UserID           uint64    // reservations.user_id
	HotelID          uint64    // reservations.hotel_id
	PropertyID       uint64    // reservations.property_id
	RoomTypeID       uint64    // reservations.room_type_id
	CheckIn          time.Time // reservations.check_in (DATE column)
	CheckOut         time.Time // reservations.check_out (DATE column)
	GuestCount       uint32    // reservations.guest_count
	TotalAmountCents int64     // reservations.total_amount_cents
	CommissionCents  int64     // reservations.commission_cents
	NetCents         int64     // reservations.net_cents
	Status           string    // reservations.status
	CreatedAt        time.Time // reservations.created_at
	UpdatedAt        time.Time // reservations.updated_at
}
