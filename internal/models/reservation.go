package models

import (
	"time"
)

// Status represents the lifecycle status of a reservation
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusValidated Status = "validated"
	StatusUsed      Status = "used"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusValidated, StatusUsed, StatusCancelled:
		return true
	}
	return false
}

// IsOccupying reports whether a reservation in this status counts
// against trip capacity
func (s Status) IsOccupying() bool {
	return s == StatusReserved || s == StatusValidated
}

// IsTerminal reports whether no transition leaves this status
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle permits moving from s
// to next. reserved -> validated -> used, with cancellation allowed
// from reserved or validated.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusReserved:
		return next == StatusValidated || next == StatusCancelled
	case StatusValidated:
		return next == StatusUsed || next == StatusCancelled
	}
	return false
}

// Reservation represents a student's claim on one seat of a trip
type Reservation struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"student_id" db:"student_id"`
	TripID     int64     `json:"trip_id" db:"trip_id"`
	TicketCode string    `json:"ticket_code" db:"ticket_code"`
	Status     Status    `json:"status" db:"status"`
	ReservedAt time.Time `json:"reserved_at" db:"reserved_at"`
	QRPayload  *string   `json:"qr_payload,omitempty" db:"qr_payload"`
}

// ReservationDetail is a reservation joined with student and trip
// summaries, as shown on the admin listing
type ReservationDetail struct {
	Reservation
	StudentFirstName string    `json:"student_first_name" db:"student_first_name"`
	StudentLastName  string    `json:"student_last_name" db:"student_last_name"`
	Matricule        string    `json:"matricule" db:"matricule"`
	StudentEmail     string    `json:"student_email" db:"student_email"`
	TripName         string    `json:"trip_name" db:"trip_name"`
	Origin           string    `json:"origin" db:"origin"`
	Destination      string    `json:"destination" db:"destination"`
	DepartureDate    time.Time `json:"departure_date" db:"departure_date"`
	DepartureTime    string    `json:"departure_time" db:"departure_time"`
	Price            float64   `json:"price" db:"price"`
}

// ReservationFilter holds the admin listing filters. Nil fields are
// not applied; set fields combine with AND.
type ReservationFilter struct {
	Status     *Status
	TripID     *int64
	StudentID  *int64
	Date       *time.Time // calendar day of ReservedAt
	TicketCode *string
}

// StatusCounts is the aggregate block shown above the admin listing
type StatusCounts struct {
	Total     int `json:"total" db:"total"`
	Reserved  int `json:"reserved" db:"reserved"`
	Validated int `json:"validated" db:"validated"`
	Used      int `json:"used" db:"used"`
	Cancelled int `json:"cancelled" db:"cancelled"`
}

// CreateReservationRequest represents the booking entry point input
type CreateReservationRequest struct {
	TripID int64 `json:"trip_id" binding:"required"`
}

// ScanRequest carries a raw QR payload from the admin scanner
type ScanRequest struct {
	Payload string `json:"payload" binding:"required"`
}
