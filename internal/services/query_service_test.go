package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

type fakeReservationLister struct {
	details    []models.ReservationDetail
	counts     *models.StatusCounts
	err        error
	lastFilter *models.ReservationFilter
}

func (f *fakeReservationLister) List(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	f.lastFilter = &filter
	return f.details, f.err
}

func (f *fakeReservationLister) Stats() (*models.StatusCounts, error) {
	return f.counts, f.err
}

func TestQueryList(t *testing.T) {
	t.Run("Passes Filter Through", func(t *testing.T) {
		lister := &fakeReservationLister{details: []models.ReservationDetail{{}}}
		svc := NewQueryService(lister, testLogger())

		status := models.StatusReserved
		tripID := int64(3)
		details, err := svc.List(models.ReservationFilter{Status: &status, TripID: &tripID})
		require.NoError(t, err)
		assert.Len(t, details, 1)

		require.NotNil(t, lister.lastFilter)
		assert.Equal(t, &status, lister.lastFilter.Status)
		assert.Equal(t, &tripID, lister.lastFilter.TripID)
	})

	t.Run("Unknown Status Never Hits The Store", func(t *testing.T) {
		lister := &fakeReservationLister{details: []models.ReservationDetail{{}}}
		svc := NewQueryService(lister, testLogger())

		status := models.Status("pending")
		details, err := svc.List(models.ReservationFilter{Status: &status})
		require.NoError(t, err)
		assert.Empty(t, details)
		assert.Nil(t, lister.lastFilter)
	})

	t.Run("Store Error Is Masked", func(t *testing.T) {
		lister := &fakeReservationLister{err: fmt.Errorf("connection refused")}
		svc := NewQueryService(lister, testLogger())

		_, err := svc.List(models.ReservationFilter{})
		assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	})
}

func TestFindByTicketCode(t *testing.T) {
	lister := &fakeReservationLister{details: []models.ReservationDetail{{}}}
	svc := NewQueryService(lister, testLogger())

	_, err := svc.FindByTicketCode("UCB-T1-HK3PQX7WM")
	require.NoError(t, err)

	require.NotNil(t, lister.lastFilter)
	require.NotNil(t, lister.lastFilter.TicketCode)
	assert.Equal(t, "UCB-T1-HK3PQX7WM", *lister.lastFilter.TicketCode)
	assert.Nil(t, lister.lastFilter.Status)
}

func TestQueryStats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		lister := &fakeReservationLister{counts: &models.StatusCounts{
			Total: 10, Reserved: 4, Validated: 3, Used: 2, Cancelled: 1,
		}}
		svc := NewQueryService(lister, testLogger())

		counts, err := svc.Stats()
		require.NoError(t, err)
		assert.Equal(t, 10, counts.Total)
		assert.Equal(t, 4, counts.Reserved)
	})

	t.Run("Store Error Is Masked", func(t *testing.T) {
		lister := &fakeReservationLister{err: fmt.Errorf("connection refused")}
		svc := NewQueryService(lister, testLogger())

		_, err := svc.Stats()
		assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	})
}
