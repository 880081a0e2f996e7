package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/pkg/qrpayload"
)

// respondDomainError maps domain errors to HTTP responses. Storage
// and generation failures surface as a generic "try again" so
// internal detail never reaches end users.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrTripUnavailable):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "trip_unavailable",
			"message": "This trip is not available for booking",
			"code":    "TRIP_UNAVAILABLE",
		})
	case errors.Is(err, models.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_booking",
			"message": "You already have a reservation for this trip",
			"code":    "DUPLICATE_BOOKING",
		})
	case errors.Is(err, models.ErrTripFull):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "trip_full",
			"message": "This trip is fully booked",
			"code":    "TRIP_FULL",
		})
	case errors.Is(err, models.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Reservation not found",
			"code":    "RESERVATION_NOT_FOUND",
		})
	case errors.Is(err, models.ErrIllegalStatusTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "illegal_transition",
			"message": "This action is not allowed in the reservation's current status",
			"code":    "ILLEGAL_STATUS_TRANSITION",
		})
	case errors.Is(err, models.ErrCancellationCutoff):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "cancellation_cutoff",
			"message": "The cancellation window for this trip has closed",
			"code":    "CANCELLATION_CUTOFF",
		})
	case errors.Is(err, qrpayload.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "malformed_payload",
			"message": "The scanned code is not a valid reservation ticket",
			"code":    "MALFORMED_PAYLOAD",
		})
	default:
		// ErrStorageUnavailable, ErrTicketGenerationExhausted and
		// anything unexpected
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service_unavailable",
			"message": "Something went wrong, please try again",
			"code":    "SERVICE_UNAVAILABLE",
		})
	}
}
