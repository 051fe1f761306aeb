// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due to
// conflicting state (a duplicate availability record, or deleting a
// night that an active reservation still covers), while
// ErrInsufficientStock is the authoritative "booking lost the race"
// signal raised by the conditional stock decrement.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a mutation cannot be performed because
// of conflicting state: inserting a second availability record for the
// same (room_type, date), or deleting a record an active reservation
// still references. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock is returned by the conditional stock decrement
// when a night no longer has enough stock for the requested amount.
// It aborts the whole booking unit: the caller must roll back its
// transaction.  Handlers translate it into an HTTP 400 response with
// reason "insufficient_stock".
var ErrInsufficientStock = errors.New("insufficient stock")

// Not-found sentinels for the directory lookups the reservation
// workflow validates against.  Each names the missing reference so the
// handler can report which one was absent.
var (
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062), raised when an insert violates a unique key.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
