package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucbtransport/reservation-backend/internal/middleware"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubLister implements services.ReservationLister
type stubLister struct {
	details    []models.ReservationDetail
	counts     *models.StatusCounts
	lastFilter *models.ReservationFilter
}

func (s *stubLister) List(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	s.lastFilter = &filter
	return s.details, nil
}

func (s *stubLister) Stats() (*models.StatusCounts, error) {
	return s.counts, nil
}

// stubReservations implements services.ReservationStore with
// compare-and-set status updates
type stubReservations struct {
	mu   sync.Mutex
	byID map[int64]*models.Reservation
}

func (s *stubReservations) GetByID(reservationID int64) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.byID[reservationID]
	if !ok {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (s *stubReservations) UpdateStatus(reservationID int64, from, to models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.byID[reservationID]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	return true, nil
}

// stubTrips implements services.TripCatalog
type stubTrips struct {
	byID map[int64]*models.Trip
}

func (s *stubTrips) GetByID(tripID int64) (*models.Trip, error) {
	trip, ok := s.byID[tripID]
	if !ok {
		return nil, nil
	}
	copied := *trip
	return &copied, nil
}

func futureTrip(id int64) *models.Trip {
	departure := time.Now().UTC().AddDate(0, 0, 2)
	return &models.Trip{
		ID:            id,
		Name:          "Campus - Centre Ville",
		Origin:        "Campus UCB",
		Destination:   "Centre Ville",
		DepartureDate: time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC),
		DepartureTime: "07:30:00",
		Capacity:      30,
		Price:         1.5,
		Status:        models.TripStatusActive,
	}
}

func asAdmin(adminID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, adminID)
		c.Set(middleware.ContextRole, "admin")
		c.Next()
	}
}

func setupAdminRouter(lister *stubLister, reservations *stubReservations, trips *stubTrips) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	queries := services.NewQueryService(lister, logger)
	lifecycle := services.NewLifecycleService(
		reservations,
		trips,
		services.NewAuditService(nil, false, logger),
		2*time.Hour,
		time.UTC,
		logger,
	)
	handler := NewAdminReservationHandler(queries, lifecycle, logger)

	router := gin.New()
	admin := router.Group("/api/v1/admin", asAdmin(7))
	admin.GET("/reservations", handler.List)
	admin.POST("/reservations/:id/validate", handler.Validate)
	admin.POST("/reservations/:id/use", handler.Use)
	admin.POST("/reservations/:id/cancel", handler.Cancel)
	admin.POST("/scan", handler.Scan)
	return router
}

func TestAdminList(t *testing.T) {
	lister := &stubLister{
		details: []models.ReservationDetail{
			{Reservation: models.Reservation{ID: 17, TicketCode: "UCB-T9-HK3PQX7WM", Status: models.StatusReserved}},
		},
		counts: &models.StatusCounts{Total: 1, Reserved: 1},
	}
	router := setupAdminRouter(lister, &stubReservations{}, &stubTrips{})

	t.Run("Full Listing With Stats", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/reservations", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count int                  `json:"count"`
			Stats *models.StatusCounts `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		require.NotNil(t, body.Stats)
		assert.Equal(t, 1, body.Stats.Total)
	})

	t.Run("Query Params Become Filters", func(t *testing.T) {
		req := httptest.NewRequest("GET",
			"/api/v1/admin/reservations?status=reserved&trip_id=9&date=2026-03-15&ticket_code=UCB-T9-HK3PQX7WM", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, lister.lastFilter)
		require.NotNil(t, lister.lastFilter.Status)
		assert.Equal(t, models.StatusReserved, *lister.lastFilter.Status)
		require.NotNil(t, lister.lastFilter.TripID)
		assert.Equal(t, int64(9), *lister.lastFilter.TripID)
		require.NotNil(t, lister.lastFilter.Date)
		assert.Equal(t, "2026-03-15", lister.lastFilter.Date.Format("2006-01-02"))
		require.NotNil(t, lister.lastFilter.TicketCode)
		assert.Equal(t, "UCB-T9-HK3PQX7WM", *lister.lastFilter.TicketCode)
	})

	t.Run("Invalid Trip Filter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/reservations?trip_id=abc", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})

	t.Run("Invalid Date Filter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/reservations?date=15-03-2026", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}

func TestAdminScan(t *testing.T) {
	lister := &stubLister{
		details: []models.ReservationDetail{
			{Reservation: models.Reservation{ID: 17, TicketCode: "UCB-T9-HK3PQX7WM", Status: models.StatusReserved}},
		},
	}
	router := setupAdminRouter(lister, &stubReservations{}, &stubTrips{})

	scan := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/admin/scan", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid Payload", func(t *testing.T) {
		w := scan(`{"payload": "UCB|RESERVATION|17|204|9|UCB-T9-HK3PQX7WM"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "UCB-T9-HK3PQX7WM")

		require.NotNil(t, lister.lastFilter)
		require.NotNil(t, lister.lastFilter.TicketCode)
		assert.Equal(t, "UCB-T9-HK3PQX7WM", *lister.lastFilter.TicketCode)
	})

	t.Run("Malformed Payload", func(t *testing.T) {
		w := scan(`{"payload": "hello world"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "MALFORMED_PAYLOAD")
	})

	t.Run("Missing Payload", func(t *testing.T) {
		w := scan(`{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}

func TestAdminTransitions(t *testing.T) {
	newRouter := func(status models.Status) (*gin.Engine, *stubReservations) {
		reservations := &stubReservations{byID: map[int64]*models.Reservation{
			17: {ID: 17, StudentID: 204, TripID: 9, TicketCode: "UCB-T9-HK3PQX7WM", Status: status},
		}}
		trips := &stubTrips{byID: map[int64]*models.Trip{9: futureTrip(9)}}
		return setupAdminRouter(&stubLister{counts: &models.StatusCounts{}}, reservations, trips), reservations
	}

	post := func(router *gin.Engine, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Validate", func(t *testing.T) {
		router, reservations := newRouter(models.StatusReserved)
		w := post(router, "/api/v1/admin/reservations/17/validate")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Reservation validated")
		assert.Equal(t, models.StatusValidated, reservations.byID[17].Status)
	})

	t.Run("Use After Validate", func(t *testing.T) {
		router, reservations := newRouter(models.StatusValidated)
		w := post(router, "/api/v1/admin/reservations/17/use")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.StatusUsed, reservations.byID[17].Status)
	})

	t.Run("Use Before Validate Is Rejected", func(t *testing.T) {
		router, _ := newRouter(models.StatusReserved)
		w := post(router, "/api/v1/admin/reservations/17/use")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ILLEGAL_STATUS_TRANSITION")
	})

	t.Run("Cancel", func(t *testing.T) {
		router, reservations := newRouter(models.StatusReserved)
		w := post(router, "/api/v1/admin/reservations/17/cancel")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.StatusCancelled, reservations.byID[17].Status)
	})

	t.Run("Unknown Reservation", func(t *testing.T) {
		router, _ := newRouter(models.StatusReserved)
		w := post(router, "/api/v1/admin/reservations/99/validate")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "RESERVATION_NOT_FOUND")
	})

	t.Run("Bad Path ID", func(t *testing.T) {
		router, _ := newRouter(models.StatusReserved)
		w := post(router, "/api/v1/admin/reservations/abc/validate")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}
