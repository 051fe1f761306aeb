package repository

import (
	"context"
	"database/sql"

	"github.com/lodgely/hotel-reservation/internal/model"
)

// PropertyRepo reads the property directory.  Like hotels, properties
// are owned by an external subsystem and only validated here.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo given a DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

// GetByID fetches a property by id.  A missing property is reported as
// ErrPropertyNotFound.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = `SELECT id, hotel_id, name, created_at FROM properties WHERE id = ?`
	var p model.Property
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.HotelID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
