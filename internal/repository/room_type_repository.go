package repository

import (
	"context"
	"database/sql"

	"github.com/lodgely/hotel-reservation/internal/model"
)

// RoomTypeRepo reads the room type directory.  A room type supplies the
// base nightly price consulted whenever a ledger record carries no
// override, and its ownership chain (property -> hotel -> owner) is
// what availability configuration is authorized against.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo constructs a RoomTypeRepo given a DB handle.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo {
	return &RoomTypeRepo{db: db}
}

// GetByID fetches a room type by id.  A missing room type is reported
// as ErrRoomTypeNotFound.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	const q = `SELECT id, property_id, name, capacity, base_price_cents, created_at FROM room_types WHERE id = ?`
	var rt model.RoomType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.Capacity, &rt.BasePriceCents, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoomTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// OwnerOf resolves the owning user of a room type by walking up
// through its property and hotel.  It returns ErrRoomTypeNotFound when
// the room type does not exist.  Availability configuration handlers
// compare the result against the authenticated owner.
func (r *RoomTypeRepo) OwnerOf(ctx context.Context, roomTypeID uint64) (uint64, error) {
	const q = `SELECT h.owner_id
               FROM room_types rt
               JOIN properties p ON p.id = rt.property_id
               JOIN hotels h ON h.id = p.hotel_id
               WHERE rt.id = ?`
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, roomTypeID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrRoomTypeNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}
