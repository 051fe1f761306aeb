package repository

import (
	"context"
	"database/sql"

	"github.com/lodgely/hotel-reservation/internal/model"
)

// HotelRepo reads the hotel directory.  Hotels are managed by an
// external subsystem; the reservation workflow only looks them up to
// validate references on incoming bookings.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo given a DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// GetByID fetches a hotel by id.  A missing hotel is reported as
// ErrHotelNotFound so callers can name the absent reference.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, created_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
