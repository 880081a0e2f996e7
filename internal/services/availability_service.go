package services

import (
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// TripCatalog is the read-side of the trips table the services need
type TripCatalog interface {
	GetByID(tripID int64) (*models.Trip, error)
}

// SeatCounter counts the reservations currently holding seats
type SeatCounter interface {
	OccupyingCount(tripID int64) (int, error)
}

// AvailabilityService computes remaining seats for display. The
// reservation engine performs the same arithmetic inside its booking
// transaction; this service is the read-only path outside it.
type AvailabilityService struct {
	trips TripCatalog
	seats SeatCounter
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(trips TripCatalog, seats SeatCounter) *AvailabilityService {
	return &AvailabilityService{trips: trips, seats: seats}
}

// RemainingSeats returns capacity minus the occupying reservation
// count, floored at zero for display
func (s *AvailabilityService) RemainingSeats(tripID int64) (int, error) {
	remaining, err := s.rawRemaining(tripID)
	if err != nil {
		return 0, err
	}
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// rawRemaining returns the unfloored seat balance
func (s *AvailabilityService) rawRemaining(tripID int64) (int, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return 0, err
	}
	if trip == nil {
		return 0, models.ErrTripUnavailable
	}

	count, err := s.seats.OccupyingCount(tripID)
	if err != nil {
		return 0, err
	}

	return trip.Capacity - count, nil
}
