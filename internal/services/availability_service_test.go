package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

type fakeSeatCounter struct {
	count int
}

func (f *fakeSeatCounter) OccupyingCount(tripID int64) (int, error) {
	return f.count, nil
}

func TestRemainingSeats(t *testing.T) {
	catalog := &fakeTripCatalog{trips: map[int64]*models.Trip{
		1: activeTrip(1, 30),
	}}

	t.Run("Capacity Minus Occupying", func(t *testing.T) {
		svc := NewAvailabilityService(catalog, &fakeSeatCounter{count: 12})
		remaining, err := svc.RemainingSeats(1)
		require.NoError(t, err)
		assert.Equal(t, 18, remaining)
	})

	t.Run("Floored At Zero", func(t *testing.T) {
		svc := NewAvailabilityService(catalog, &fakeSeatCounter{count: 35})
		remaining, err := svc.RemainingSeats(1)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		svc := NewAvailabilityService(catalog, &fakeSeatCounter{})
		_, err := svc.RemainingSeats(99)
		assert.ErrorIs(t, err, models.ErrTripUnavailable)
	})
}
