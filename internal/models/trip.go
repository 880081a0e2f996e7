package models

import (
	"fmt"
	"time"
)

// TripStatus represents the activation status of a trip
type TripStatus string

const (
	TripStatusActive   TripStatus = "active"
	TripStatusInactive TripStatus = "inactive"
)

// Trip represents a scheduled transport run. Trips are created and
// edited by the trip-management side; the booking flow only reads them.
type Trip struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Origin        string     `json:"origin" db:"origin"`
	Destination   string     `json:"destination" db:"destination"`
	DepartureDate time.Time  `json:"departure_date" db:"departure_date"`
	DepartureTime string     `json:"departure_time" db:"departure_time"` // HH:MM:SS
	Capacity      int        `json:"capacity" db:"capacity"`
	Price         float64    `json:"price" db:"price"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Status        TripStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// BookableTrip is a trip joined with its live seat accounting, as
// listed to students choosing a trip
type BookableTrip struct {
	Trip
	RemainingSeats   int `json:"remaining_seats" db:"remaining_seats"`
	ReservationCount int `json:"reservation_count" db:"reservation_count"`
}

// DepartsAt combines the departure date and time in the given location
func (t *Trip) DepartsAt(loc *time.Location) (time.Time, error) {
	hhmmss, err := time.Parse("15:04:05", t.DepartureTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid departure time %q: %w", t.DepartureTime, err)
	}
	d := t.DepartureDate
	return time.Date(d.Year(), d.Month(), d.Day(),
		hhmmss.Hour(), hhmmss.Minute(), hhmmss.Second(), 0, loc), nil
}

// IsBookable reports whether the trip accepts new reservations: it
// must be active and not depart before today (date granularity, same
// rule the trip listing applies).
func (t *Trip) IsBookable(now time.Time, loc *time.Location) bool {
	if t.Status != TripStatusActive {
		return false
	}
	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	dep := time.Date(t.DepartureDate.Year(), t.DepartureDate.Month(), t.DepartureDate.Day(), 0, 0, 0, 0, loc)
	return !dep.Before(today)
}
