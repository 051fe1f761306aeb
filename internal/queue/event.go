// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for reservation lifecycle events.
const (
	ReservationCreatedQueue   = "reservation.created"
	ReservationCancelledQueue = "reservation.cancelled"
)

// ReservationCreatedEvent is published after a booking commits.  It
// carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID    uint64 `json:"reservation_id"`
	UserID           uint64 `json:"user_id"`
	RoomTypeID       uint64 `json:"room_type_id"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	GuestCount       uint32 `json:"guest_count"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	CreatedAt        string `json:"created_at"`
}

// ReservationCancelledEvent is published after a cancellation commits
// and the stay's stock has been restored to the ledger.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	RoomTypeID    uint64 `json:"room_type_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	GuestCount    uint32 `json:"guest_count"`
	CancelledAt   string `json:"cancelled_at"`
}
