package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReservationStatus(t *testing.T) {
	for _, want := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		got, ok := ParseReservationStatus(want)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	// Normalization: case and surrounding whitespace are forgiven.
	got, ok := ParseReservationStatus("  cancelled ")
	assert.True(t, ok)
	assert.Equal(t, StatusCancelled, got)

	for _, bad := range []string{"", "UNKNOWN", "PAID", "no show"} {
		_, ok := ParseReservationStatus(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestAvailabilityEffectivePrice(t *testing.T) {
	a := Availability{Stock: 3}
	assert.Equal(t, int64(9900), a.EffectivePriceCents(9900))

	override := int64(12500)
	a.PriceOverrideCents = &override
	assert.Equal(t, int64(12500), a.EffectivePriceCents(9900))
}
