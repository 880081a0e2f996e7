package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/middleware"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/internal/services"
)

// BookingHandler serves the student-facing reservation endpoints
type BookingHandler struct {
	booking      *services.BookingService
	lifecycle    *services.LifecycleService
	queries      *services.QueryService
	reservations *database.ReservationRepository
	logger       *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	booking *services.BookingService,
	lifecycle *services.LifecycleService,
	queries *services.QueryService,
	reservations *database.ReservationRepository,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		booking:      booking,
		lifecycle:    lifecycle,
		queries:      queries,
		reservations: reservations,
		logger:       logger,
	}
}

// Create books a seat for the authenticated student
// POST /api/v1/reservations
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "trip_id is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	studentID := middleware.CallerID(c)
	meta := requestMeta(c)

	res, err := h.booking.Book(c.Request.Context(), studentID, req.TripID, meta)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation confirmed",
		"reservation": res,
	})
}

// ListMine returns the authenticated student's reservation history
// GET /api/v1/reservations
func (h *BookingHandler) ListMine(c *gin.Context) {
	studentID := middleware.CallerID(c)

	details, err := h.queries.List(models.ReservationFilter{StudentID: &studentID})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": details,
		"count":        len(details),
	})
}

// GetByID returns one of the authenticated student's reservations,
// including its QR payload
// GET /api/v1/reservations/:id
func (h *BookingHandler) GetByID(c *gin.Context) {
	reservationID, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.reservations.GetByID(reservationID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load reservation")
		respondDomainError(c, models.ErrStorageUnavailable)
		return
	}
	// a reservation belonging to someone else is not distinguishable
	// from a missing one
	if res == nil || res.StudentID != middleware.CallerID(c) {
		respondDomainError(c, models.ErrReservationNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// Cancel cancels the authenticated student's reservation
// POST /api/v1/reservations/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	reservationID, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.lifecycle.CancelByStudent(reservationID, middleware.CallerID(c), requestMeta(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation cancelled",
		"reservation": res,
	})
}

// pathID parses the :id path parameter, writing the error response on
// failure
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid id parameter",
			"code":    "INVALID_REQUEST",
		})
		return 0, false
	}
	return id, true
}

// requestMeta captures the client context for audit entries
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
