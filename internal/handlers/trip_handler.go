package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/internal/services"
)

// TripHandler serves the trip catalog read endpoints
type TripHandler struct {
	trips        *database.TripRepository
	availability *services.AvailabilityService
	loc          *time.Location
	logger       *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(
	trips *database.TripRepository,
	availability *services.AvailabilityService,
	loc *time.Location,
	logger *logrus.Logger,
) *TripHandler {
	return &TripHandler{trips: trips, availability: availability, loc: loc, logger: logger}
}

// GetBookableTrips returns active future trips that still have seats
// GET /api/v1/trips
func (h *TripHandler) GetBookableTrips(c *gin.Context) {
	today := time.Now().In(h.loc)

	trips, err := h.trips.GetBookable(today)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookable trips")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTrip returns one trip with its live remaining seat count
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := pathID(c)
	if !ok {
		return
	}

	trip, err := h.trips.GetByID(tripID)
	if err != nil {
		h.logger.WithError(err).WithField("trip_id", tripID).Error("Failed to load trip")
		respondDomainError(c, models.ErrStorageUnavailable)
		return
	}
	if trip == nil {
		respondDomainError(c, models.ErrTripUnavailable)
		return
	}

	remaining, err := h.availability.RemainingSeats(tripID)
	if err != nil {
		if errors.Is(err, models.ErrTripUnavailable) {
			respondDomainError(c, err)
			return
		}
		h.logger.WithError(err).WithField("trip_id", tripID).Error("Failed to compute remaining seats")
		respondDomainError(c, models.ErrStorageUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":            trip,
		"remaining_seats": remaining,
		"bookable":        trip.IsBookable(time.Now(), h.loc) && remaining > 0,
	})
}

// ListTrips returns every trip for the admin filter dropdown
// GET /api/v1/admin/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.trips.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list trips")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}
