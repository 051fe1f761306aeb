package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("01/06/2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestStayNights_ExclusiveCheckOut(t *testing.T) {
	nights := StayNights(date("2024-06-01"), date("2024-06-03"))
	require.Len(t, nights, 2)
	assert.Equal(t, date("2024-06-01"), nights[0])
	assert.Equal(t, date("2024-06-02"), nights[1])
}

func TestStayNights_SingleNight(t *testing.T) {
	nights := StayNights(date("2024-06-01"), date("2024-06-02"))
	require.Len(t, nights, 1)
	assert.Equal(t, date("2024-06-01"), nights[0])
}

func TestStayNights_EmptyOrInverted(t *testing.T) {
	assert.Nil(t, StayNights(date("2024-06-01"), date("2024-06-01")))
	assert.Nil(t, StayNights(date("2024-06-03"), date("2024-06-01")))
}

func TestValidateStay(t *testing.T) {
	today := date("2024-06-01")

	assert.NoError(t, ValidateStay(date("2024-06-01"), date("2024-06-03"), 2, today))
	// Same-day check-in is allowed; a past check-in is not.
	assert.ErrorIs(t, ValidateStay(date("2024-05-31"), date("2024-06-03"), 2, today), ErrPastCheckIn)
	assert.ErrorIs(t, ValidateStay(date("2024-06-03"), date("2024-06-01"), 2, today), ErrDateOrder)
	assert.ErrorIs(t, ValidateStay(date("2024-06-02"), date("2024-06-02"), 2, today), ErrDateOrder)
	assert.ErrorIs(t, ValidateStay(date("2024-06-02"), date("2024-06-04"), 0, today), ErrGuestCount)
	assert.ErrorIs(t, ValidateStay(date("2024-06-02"), date("2024-06-04"), 11, today), ErrGuestCount)
	assert.NoError(t, ValidateStay(date("2024-06-02"), date("2024-06-04"), 10, today))
}
