package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartsAt(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Lubumbashi")
	require.NoError(t, err)

	trip := &Trip{
		DepartureDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		DepartureTime: "07:30:00",
	}

	departsAt, err := trip.DepartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 7, 30, 0, 0, loc), departsAt)

	t.Run("Invalid Time", func(t *testing.T) {
		bad := &Trip{DepartureDate: trip.DepartureDate, DepartureTime: "7h30"}
		_, err := bad.DepartsAt(loc)
		assert.Error(t, err)
	})
}

func TestIsBookable(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, loc)

	day := func(offset int) time.Time {
		return time.Date(2026, 3, 15+offset, 0, 0, 0, 0, loc)
	}

	t.Run("Active Future Trip", func(t *testing.T) {
		trip := &Trip{Status: TripStatusActive, DepartureDate: day(1)}
		assert.True(t, trip.IsBookable(now, loc))
	})

	t.Run("Active Same-Day Trip", func(t *testing.T) {
		trip := &Trip{Status: TripStatusActive, DepartureDate: day(0)}
		assert.True(t, trip.IsBookable(now, loc))
	})

	t.Run("Departed Trip", func(t *testing.T) {
		trip := &Trip{Status: TripStatusActive, DepartureDate: day(-1)}
		assert.False(t, trip.IsBookable(now, loc))
	})

	t.Run("Inactive Trip", func(t *testing.T) {
		trip := &Trip{Status: TripStatusInactive, DepartureDate: day(1)}
		assert.False(t, trip.IsBookable(now, loc))
	})
}
