package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// ReservationStore is the reservation access the lifecycle manager
// needs: a point read and a compare-and-set status update
type ReservationStore interface {
	GetByID(reservationID int64) (*models.Reservation, error)
	UpdateStatus(reservationID int64, from, to models.Status) (bool, error)
}

// LifecycleService enforces the reservation state machine:
// reserved -> validated -> used, with cancellation from reserved or
// validated while the cancellation window is open. Validation and
// boarding completion are two distinct administrative actions.
type LifecycleService struct {
	reservations ReservationStore
	trips        TripCatalog
	audit        *AuditService
	cancelCutoff time.Duration
	loc          *time.Location
	logger       *logrus.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	reservations ReservationStore,
	trips TripCatalog,
	audit *AuditService,
	cancelCutoff time.Duration,
	loc *time.Location,
	logger *logrus.Logger,
) *LifecycleService {
	return &LifecycleService{
		reservations: reservations,
		trips:        trips,
		audit:        audit,
		cancelCutoff: cancelCutoff,
		loc:          loc,
		logger:       logger,
	}
}

// Validate marks a reservation as checked in by an admin scan
func (s *LifecycleService) Validate(reservationID, adminID int64, meta RequestMeta) (*models.Reservation, error) {
	return s.transition(reservationID, models.StatusValidated,
		models.AuditReservationValidated, "admin", adminID, meta)
}

// MarkUsed marks a validated reservation as boarded
func (s *LifecycleService) MarkUsed(reservationID, adminID int64, meta RequestMeta) (*models.Reservation, error) {
	return s.transition(reservationID, models.StatusUsed,
		models.AuditReservationUsed, "admin", adminID, meta)
}

// CancelByAdmin cancels any student's reservation
func (s *LifecycleService) CancelByAdmin(reservationID, adminID int64, meta RequestMeta) (*models.Reservation, error) {
	res, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}
	return s.cancel(res, "admin", adminID, meta)
}

// CancelByStudent cancels the student's own reservation. A
// reservation belonging to someone else is reported as not found.
func (s *LifecycleService) CancelByStudent(reservationID, studentID int64, meta RequestMeta) (*models.Reservation, error) {
	res, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}
	if res.StudentID != studentID {
		return nil, models.ErrReservationNotFound
	}
	return s.cancel(res, "student", studentID, meta)
}

// cancel applies the cancellation transition after checking the
// server-enforced departure cutoff
func (s *LifecycleService) cancel(res *models.Reservation, actorType string, actorID int64, meta RequestMeta) (*models.Reservation, error) {
	if !res.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, models.ErrIllegalStatusTransition
	}

	trip, err := s.trips.GetByID(res.TripID)
	if err != nil {
		s.logger.WithError(err).WithField("trip_id", res.TripID).Error("Failed to load trip for cancellation check")
		return nil, models.ErrStorageUnavailable
	}
	if trip != nil {
		departsAt, err := trip.DepartsAt(s.loc)
		if err != nil {
			s.logger.WithError(err).WithField("trip_id", trip.ID).Error("Trip has unparseable departure time")
			return nil, models.ErrStorageUnavailable
		}
		if time.Now().After(departsAt.Add(-s.cancelCutoff)) {
			return nil, models.ErrCancellationCutoff
		}
	}

	return s.apply(res, models.StatusCancelled, models.AuditReservationCancelled, actorType, actorID, meta)
}

// transition loads a reservation and applies a non-cancellation move
func (s *LifecycleService) transition(reservationID int64, target models.Status, action, actorType string, actorID int64, meta RequestMeta) (*models.Reservation, error) {
	res, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}

	if !res.Status.CanTransitionTo(target) {
		return nil, models.ErrIllegalStatusTransition
	}

	return s.apply(res, target, action, actorType, actorID, meta)
}

// apply performs the compare-and-set write. A zero-row update means
// another transition won the race, which is reported as illegal.
func (s *LifecycleService) apply(res *models.Reservation, target models.Status, action, actorType string, actorID int64, meta RequestMeta) (*models.Reservation, error) {
	from := res.Status

	changed, err := s.reservations.UpdateStatus(res.ID, from, target)
	if err != nil {
		s.logger.WithError(err).WithField("reservation_id", res.ID).Error("Status update failed")
		return nil, models.ErrStorageUnavailable
	}
	if !changed {
		return nil, models.ErrIllegalStatusTransition
	}

	res.Status = target
	s.audit.LogStatusChange(action, actorType, actorID, res, from, target, meta)
	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"ticket_code":    res.TicketCode,
		"from_status":    from,
		"to_status":      target,
	}).Info("Reservation status changed")

	return res, nil
}

func (s *LifecycleService) load(reservationID int64) (*models.Reservation, error) {
	res, err := s.reservations.GetByID(reservationID)
	if err != nil {
		s.logger.WithError(err).WithField("reservation_id", reservationID).Error("Failed to load reservation")
		return nil, models.ErrStorageUnavailable
	}
	if res == nil {
		return nil, models.ErrReservationNotFound
	}
	return res, nil
}
