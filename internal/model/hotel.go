package model

import "time"

// Hotel is a row in the `hotels` table.  Hotels are the top level of
// the directory hierarchy: a hotel groups one or more properties and
// belongs to an owner account.  This service only reads hotels when
// validating reservation references; the directory itself is managed
// elsewhere.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – user who owns the hotel.
//	Name      – display name of the hotel.
//	City      – city the hotel is located in.
//	CreatedAt – timestamp of creation.
type Hotel struct {
	ID        uint64    // hotels.id
	OwnerID   uint64    // hotels.owner_id
	Name      string    // hotels.name
	City      string    // hotels.city
	CreatedAt time.Time // hotels.created_at
}

// Property is a row in the `properties` table.  A property is a
// building or wing of a hotel and contains room types.
//
// Fields:
//
//	ID        – primary key identifier.
//	HotelID   – hotel this property belongs to.
//	Name      – display name of the property.
//	CreatedAt – timestamp of creation.
type Property struct {
	ID        uint64    // properties.id
	HotelID   uint64    // properties.hotel_id
	Name      string    // properties.name
	CreatedAt time.Time // properties.created_at
}

// RoomType is a row in the `room_types` table.  A room type is the
// bookable unit of the system: availability records and reservations
// both reference a room type, never an individual room.
//
// Fields:
//
//	ID             – primary key identifier.
//	PropertyID     – property this room type belongs to.
//	Name           – display name (e.g. "Double Deluxe").
//	Capacity       – maximum number of guests per room.
//	BasePriceCents – default nightly price in cents, used when an
//	                 availability record carries no override.
//	CreatedAt      – timestamp of creation.
type RoomType struct {
	ID             uint64    // room_types.id
	PropertyID     uint64    // room_types.property_id
	Name           string    // room_types.name
	Capacity       uint32    // room_types.capacity
	BasePriceCents int64     // room_types.base_price_cents
	CreatedAt      time.Time // room_types.created_at
}
