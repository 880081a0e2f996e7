package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/middleware"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/internal/services"
	"github.com/ucbtransport/reservation-backend/pkg/qrpayload"
)

// AdminReservationHandler serves the admin audit and validation
// endpoints
type AdminReservationHandler struct {
	queries   *services.QueryService
	lifecycle *services.LifecycleService
	logger    *logrus.Logger
}

// NewAdminReservationHandler creates a new AdminReservationHandler
func NewAdminReservationHandler(
	queries *services.QueryService,
	lifecycle *services.LifecycleService,
	logger *logrus.Logger,
) *AdminReservationHandler {
	return &AdminReservationHandler{
		queries:   queries,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// List returns reservations matching the query filters plus the
// per-status stats block. Filters combine with AND; none applied
// means the full listing.
// GET /api/v1/admin/reservations?status=&trip_id=&date=&ticket_code=
func (h *AdminReservationHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	details, err := h.queries.List(filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	stats, err := h.queries.Stats()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": details,
		"count":        len(details),
		"stats":        stats,
	})
}

// Scan decodes a raw QR payload and looks the reservation up by its
// ticket code
// POST /api/v1/admin/scan
func (h *AdminReservationHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "payload is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	payload, err := qrpayload.Decode(req.Payload)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	details, err := h.queries.FindByTicketCode(payload.TicketCode)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket_code":  payload.TicketCode,
		"reservations": details,
		"count":        len(details),
	})
}

// Validate checks a reservation in at boarding
// POST /api/v1/admin/reservations/:id/validate
func (h *AdminReservationHandler) Validate(c *gin.Context) {
	h.applyTransition(c, h.lifecycle.Validate, "Reservation validated")
}

// Use marks a validated reservation as boarded
// POST /api/v1/admin/reservations/:id/use
func (h *AdminReservationHandler) Use(c *gin.Context) {
	h.applyTransition(c, h.lifecycle.MarkUsed, "Reservation marked as used")
}

// Cancel cancels a reservation on the student's behalf
// POST /api/v1/admin/reservations/:id/cancel
func (h *AdminReservationHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, h.lifecycle.CancelByAdmin, "Reservation cancelled")
}

func (h *AdminReservationHandler) applyTransition(
	c *gin.Context,
	action func(reservationID, adminID int64, meta services.RequestMeta) (*models.Reservation, error),
	message string,
) {
	reservationID, ok := pathID(c)
	if !ok {
		return
	}

	res, err := action(reservationID, middleware.CallerID(c), requestMeta(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"reservation": res,
	})
}

// parseFilter builds a typed reservation filter from the query
// string, writing the error response when a value cannot be parsed
func parseFilter(c *gin.Context) (models.ReservationFilter, bool) {
	var filter models.ReservationFilter

	if v := c.Query("status"); v != "" {
		status := models.Status(v)
		filter.Status = &status
	}

	if v := c.Query("trip_id"); v != "" {
		tripID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || tripID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid trip_id filter",
				"code":    "INVALID_REQUEST",
			})
			return filter, false
		}
		filter.TripID = &tripID
	}

	if v := c.Query("date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid date filter, expected YYYY-MM-DD",
				"code":    "INVALID_REQUEST",
			})
			return filter, false
		}
		filter.Date = &date
	}

	if v := c.Query("ticket_code"); v != "" {
		filter.TicketCode = &v
	}

	return filter, true
}
