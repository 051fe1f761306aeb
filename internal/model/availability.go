package model

import "time"

// Availability is a row in the `availabilities` table.  It records, for
// one room type and one calendar night, how many units of stock remain
// bookable and an optional nightly price override.  There is at most one
// record per (room_type_id, date) pair, enforced by a unique key; a
// missing record means the night is not configured and cannot be booked.
//
// Fields:
//
//	ID                 – primary key identifier.
//	RoomTypeID         – room type this night belongs to.
//	Date               – calendar date of the night (date only, UTC).
//	Stock              – remaining bookable units, never negative.
//	PriceOverrideCents – nightly price in cents; nil means the room
//	                     type's base price applies.
//	CreatedAt          – timestamp when the record was created.
//	UpdatedAt          – timestamp of the last stock or price change.
type Availability struct {
	ID                 uint64    // availabilities.id
	RoomTypeID         uint64    // availabilities.room_type_id
	Date               time.Time // availabilities.date (DATE column)
	Stock              uint32    // availabilities.stock
	PriceOverrideCents *int64    // availabilities.price_override_cents (nullable)
	CreatedAt          time.Time // availabilities.created_at
	UpdatedAt          time.Time // availabilities.updated_at
}

// EffectivePriceCents returns the nightly price for this record given
// the room type's base price: the override when present, otherwise the
// base price.
func (a *Availability) EffectivePriceCents(basePriceCents int64) int64 {
	if a.PriceOverrideCents != nil {
		return *a.PriceOverrideCents
	}
	return basePriceCents
}
