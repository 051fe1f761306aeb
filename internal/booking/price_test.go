package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgely/hotel-reservation/internal/model"
)

func ledger(entries ...model.Availability) map[string]*model.Availability {
	m := make(map[string]*model.Availability, len(entries))
	for i := range entries {
		m[entries[i].Date.Format(DateLayout)] = &entries[i]
	}
	return m
}

func TestPriceStay_TwoNightsTwoGuests(t *testing.T) {
	// Two nights with stock 2 at 100.00/night base price; two guests
	// book both nights: total = 100.00 * 2 guests * 2 nights.
	recs := ledger(
		model.Availability{RoomTypeID: 1, Date: date("2024-06-01"), Stock: 2},
		model.Availability{RoomTypeID: 1, Date: date("2024-06-02"), Stock: 2},
	)
	nights := StayNights(date("2024-06-01"), date("2024-06-03"))

	q := PriceStay(nights, recs, 10000, 2)
	require.True(t, q.Available)
	assert.Equal(t, int64(40000), q.TotalAmountCents)
	require.Len(t, q.Nights, 2)
	assert.Equal(t, "2024-06-01", q.Nights[0].DateString)
	assert.Equal(t, uint32(2), q.Nights[0].AvailableStock)
	assert.Equal(t, int64(10000), q.Nights[0].PriceCents)
}

func TestPriceStay_OverrideWins(t *testing.T) {
	override := int64(7500)
	recs := ledger(
		model.Availability{RoomTypeID: 1, Date: date("2024-06-01"), Stock: 5, PriceOverrideCents: &override},
		model.Availability{RoomTypeID: 1, Date: date("2024-06-02"), Stock: 5},
	)
	nights := StayNights(date("2024-06-01"), date("2024-06-03"))

	q := PriceStay(nights, recs, 10000, 1)
	require.True(t, q.Available)
	assert.Equal(t, int64(7500+10000), q.TotalAmountCents)
	assert.Equal(t, int64(7500), q.Nights[0].PriceCents)
	assert.Equal(t, int64(10000), q.Nights[1].PriceCents)
}

func TestPriceStay_MissingNightInvalidatesWholeRange(t *testing.T) {
	// The middle night has no ledger record: the whole stay is
	// unavailable and the accumulated total is discarded.
	recs := ledger(
		model.Availability{RoomTypeID: 1, Date: date("2024-06-01"), Stock: 3},
		model.Availability{RoomTypeID: 1, Date: date("2024-06-03"), Stock: 3},
	)
	nights := StayNights(date("2024-06-01"), date("2024-06-04"))

	q := PriceStay(nights, recs, 10000, 1)
	assert.False(t, q.Available)
	assert.Zero(t, q.TotalAmountCents)
	assert.Empty(t, q.Nights)
}

func TestPriceStay_UnderstockedNight(t *testing.T) {
	recs := ledger(
		model.Availability{RoomTypeID: 1, Date: date("2024-06-01"), Stock: 2},
		model.Availability{RoomTypeID: 1, Date: date("2024-06-02"), Stock: 1},
	)
	nights := StayNights(date("2024-06-01"), date("2024-06-03"))

	q := PriceStay(nights, recs, 10000, 2)
	assert.False(t, q.Available)
	assert.Zero(t, q.TotalAmountCents)
}

func TestPriceStay_StockExactlyEqualToGuests(t *testing.T) {
	recs := ledger(
		model.Availability{RoomTypeID: 1, Date: date("2024-06-01"), Stock: 2},
	)
	nights := StayNights(date("2024-06-01"), date("2024-06-02"))

	q := PriceStay(nights, recs, 10000, 2)
	assert.True(t, q.Available)
	assert.Equal(t, int64(20000), q.TotalAmountCents)
}

func TestPriceStay_NoNights(t *testing.T) {
	q := PriceStay(nil, ledger(), 10000, 2)
	assert.False(t, q.Available)
}
