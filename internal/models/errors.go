package models

import "errors"

// Domain errors surfaced by the reservation core. Handlers map these
// to HTTP responses; anything else is treated as a storage failure and
// reported generically.
var (
	// ErrTripUnavailable means the trip does not exist, is inactive,
	// or has already departed
	ErrTripUnavailable = errors.New("trip is not available for booking")

	// ErrDuplicateBooking means the student already holds an occupying
	// reservation on the trip
	ErrDuplicateBooking = errors.New("student already has a reservation for this trip")

	// ErrTripFull means no seats remain on the trip
	ErrTripFull = errors.New("trip is fully booked")

	// ErrTicketGenerationExhausted means ticket code generation kept
	// colliding with existing codes
	ErrTicketGenerationExhausted = errors.New("ticket code generation exhausted retries")

	// ErrIllegalStatusTransition means the requested lifecycle move is
	// not permitted from the reservation's current status
	ErrIllegalStatusTransition = errors.New("illegal reservation status transition")

	// ErrCancellationCutoff means the cancellation window has closed
	ErrCancellationCutoff = errors.New("cancellation window has closed")

	// ErrReservationNotFound means no reservation matches the id
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrStorageUnavailable is the generic transient storage failure
	// surfaced to callers after retries are spent
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)
