package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/config"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/models"
	"github.com/ucbtransport/reservation-backend/pkg/qrpayload"
	"github.com/ucbtransport/reservation-backend/pkg/ticket"
)

// BookingService is the reservation engine. Every booking runs its
// admission checks and insert inside one serializable transaction so
// two concurrent bookings for the last seat resolve to exactly one
// success and one ErrTripFull.
type BookingService struct {
	store   database.BookingStore
	tickets *ticket.Generator
	audit   *AuditService
	cfg     config.BookingConfig
	loc     *time.Location
	logger  *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	store database.BookingStore,
	tickets *ticket.Generator,
	audit *AuditService,
	cfg config.BookingConfig,
	loc *time.Location,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		store:   store,
		tickets: tickets,
		audit:   audit,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
	}
}

// Book reserves one seat on a trip for a student. Precondition order:
// trip open for booking, no occupying duplicate, seats remaining.
// On success the reservation row, its ticket code and its QR payload
// are committed together; no partial reservation is ever visible.
func (s *BookingService) Book(ctx context.Context, studentID, tripID int64, meta RequestMeta) (*models.Reservation, error) {
	ticketAttempts := 0
	txRetries := 0

	for {
		code, err := s.tickets.New(tripID)
		if err != nil {
			s.logger.WithError(err).Error("Ticket code generation failed")
			return nil, models.ErrTicketGenerationExhausted
		}

		created, err := s.tryBook(ctx, studentID, tripID, code)
		if err == nil {
			s.audit.LogReservationCreated(created, meta)
			s.logger.WithFields(logrus.Fields{
				"reservation_id": created.ID,
				"student_id":     studentID,
				"trip_id":        tripID,
				"ticket_code":    created.TicketCode,
			}).Info("Reservation created")
			return created, nil
		}

		switch {
		case errors.Is(err, models.ErrTripUnavailable),
			errors.Is(err, models.ErrDuplicateBooking),
			errors.Is(err, models.ErrTripFull):
			return nil, err

		case database.IsUniqueViolation(err, database.TicketCodeConstraint):
			ticketAttempts++
			if ticketAttempts >= s.cfg.TicketMaxAttempts {
				s.logger.WithFields(logrus.Fields{
					"trip_id":  tripID,
					"attempts": ticketAttempts,
				}).Error("Ticket code collisions exhausted retries")
				return nil, models.ErrTicketGenerationExhausted
			}

		case database.IsSerializationFailure(err):
			txRetries++
			if txRetries > s.cfg.TxMaxRetries {
				s.logger.WithError(err).WithField("trip_id", tripID).
					Error("Booking transaction exhausted serialization retries")
				return nil, models.ErrStorageUnavailable
			}

		default:
			s.logger.WithError(err).WithFields(logrus.Fields{
				"student_id": studentID,
				"trip_id":    tripID,
			}).Error("Booking transaction failed")
			return nil, models.ErrStorageUnavailable
		}
	}
}

// tryBook runs one booking attempt in a fresh transaction
func (s *BookingService) tryBook(ctx context.Context, studentID, tripID int64, code string) (*models.Reservation, error) {
	var created *models.Reservation

	err := s.store.WithinBookingTx(ctx, func(tx database.BookingTx) error {
		trip, err := tx.TripByID(tripID)
		if err != nil {
			return err
		}
		if trip == nil || !trip.IsBookable(time.Now(), s.loc) {
			return models.ErrTripUnavailable
		}

		exists, err := tx.HasOccupying(studentID, tripID)
		if err != nil {
			return err
		}
		if exists {
			return models.ErrDuplicateBooking
		}

		count, err := tx.OccupyingCount(tripID)
		if err != nil {
			return err
		}
		if trip.Capacity-count <= 0 {
			return models.ErrTripFull
		}

		res := &models.Reservation{
			StudentID:  studentID,
			TripID:     tripID,
			TicketCode: code,
			Status:     models.StatusReserved,
		}
		if err := tx.InsertReservation(res); err != nil {
			return err
		}

		payload := qrpayload.Payload{
			ReservationID: res.ID,
			StudentID:     studentID,
			TripID:        tripID,
			TicketCode:    code,
		}.Encode()
		if err := tx.SetQRPayload(res.ID, payload); err != nil {
			return err
		}

		res.QRPayload = &payload
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
