package services

import (
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// ReservationLister is the filterable read-side of the reservations
// table used by administrators
type ReservationLister interface {
	List(filter models.ReservationFilter) ([]models.ReservationDetail, error)
	Stats() (*models.StatusCounts, error)
}

// QueryService is the admin-facing read path over reservations. It
// has no side effects; an empty result is a normal outcome.
type QueryService struct {
	reservations ReservationLister
	logger       *logrus.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(reservations ReservationLister, logger *logrus.Logger) *QueryService {
	return &QueryService{reservations: reservations, logger: logger}
}

// List returns reservations matching the filter, joined with student
// and trip summaries, ordered by trip departure then reservation time
// descending
func (s *QueryService) List(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		// unknown status can never match; treat as an empty result
		// rather than hitting the store with a value outside the enum
		return []models.ReservationDetail{}, nil
	}

	details, err := s.reservations.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("Reservation listing failed")
		return nil, models.ErrStorageUnavailable
	}

	return details, nil
}

// FindByTicketCode is the QR-scan lookup path: an exact-match filter
// on the scanned ticket code
func (s *QueryService) FindByTicketCode(code string) ([]models.ReservationDetail, error) {
	return s.List(models.ReservationFilter{TicketCode: &code})
}

// Stats returns the per-status reservation counts
func (s *QueryService) Stats() (*models.StatusCounts, error) {
	counts, err := s.reservations.Stats()
	if err != nil {
		s.logger.WithError(err).Error("Reservation stats query failed")
		return nil, models.ErrStorageUnavailable
	}

	return counts, nil
}
