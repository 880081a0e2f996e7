package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ucbtransport/reservation-backend/internal/models"
)

// TripRepository handles read access to the trips table. Trips are
// created and edited elsewhere; the booking flow never writes them.
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(tripID int64) (*models.Trip, error) {
	query := `
		SELECT id, name, origin, destination, departure_date, departure_time,
		       capacity, price, description, status, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &models.Trip{}
	if err := r.db.Get(trip, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// GetBookable retrieves active future trips that still have seats,
// with their live seat accounting. onOrAfter is the first departure
// date included (today in the booking timezone).
func (r *TripRepository) GetBookable(onOrAfter time.Time) ([]models.BookableTrip, error) {
	query := `
		SELECT t.id, t.name, t.origin, t.destination, t.departure_date,
		       t.departure_time, t.capacity, t.price, t.description, t.status,
		       t.created_at,
		       t.capacity - COUNT(r.id) AS remaining_seats,
		       COUNT(r.id) AS reservation_count
		FROM trips t
		LEFT JOIN reservations r
		       ON r.trip_id = t.id AND r.status IN ('reserved', 'validated')
		WHERE t.departure_date >= $1 AND t.status = 'active'
		GROUP BY t.id
		HAVING t.capacity - COUNT(r.id) > 0
		ORDER BY t.departure_date ASC, t.departure_time ASC
	`

	trips := []models.BookableTrip{}
	if err := r.db.Select(&trips, query, onOrAfter.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("failed to list bookable trips: %w", err)
	}

	return trips, nil
}

// List retrieves all trips, most recent departures first. Used by the
// admin filter dropdown.
func (r *TripRepository) List() ([]models.Trip, error) {
	query := `
		SELECT id, name, origin, destination, departure_date, departure_time,
		       capacity, price, description, status, created_at
		FROM trips
		ORDER BY departure_date DESC, departure_time DESC
	`

	trips := []models.Trip{}
	if err := r.db.Select(&trips, query); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}
