// Package booking holds the pure calendar and pricing logic behind the
// reservation workflow.  Nothing in this package touches the database;
// handlers feed it ledger rows loaded inside their own transaction and
// act on the result.
package booking

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.  All
// dates in this service are date-only and interpreted in UTC.
const DateLayout = "2006-01-02"

// Guest count bounds for a single reservation.
const (
	MinGuests = 1
	MaxGuests = 10
)

// Validation failures returned by ValidateStay.  Handlers translate
// these into 400 responses with the error text as the message.
var (
	ErrDateOrder   = errors.New("check_in must be before check_out")
	ErrPastCheckIn = errors.New("check_in must not be in the past")
	ErrGuestCount  = errors.New("guests must be between 1 and 10")
)

// ParseDate parses a YYYY-MM-DD string into a UTC date-only time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Today returns the current UTC calendar date with the time component
// truncated to midnight.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// StayNights expands a stay range into its individual nights.  The
// range is half-open: checkOut itself is excluded.  An empty or
// inverted range yields a nil slice.
func StayNights(checkIn, checkOut time.Time) []time.Time {
	if !checkIn.Before(checkOut) {
		return nil
	}
	var nights []time.Time
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// ValidateStay checks the date ordering, the no-past-check-in rule and
// the guest count bounds.  today must be a UTC date-only value, usually
// Today(); it is a parameter so tests can pin it.
func ValidateStay(checkIn, checkOut time.Time, guests uint32, today time.Time) error {
	if !checkIn.Before(checkOut) {
		return ErrDateOrder
	}
	if checkIn.Before(today) {
		return ErrPastCheckIn
	}
	if guests < MinGuests || guests > MaxGuests {
		return ErrGuestCount
	}
	return nil
}
