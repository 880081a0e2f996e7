package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// TicketCodeConstraint is the unique index guarding ticket codes.
// A violation on it means the generator produced a collision.
const TicketCodeConstraint = "reservations_ticket_code_key"

// BookingTx is the unit of work the reservation engine runs its
// admission checks in. Everything happens inside one serializable
// transaction so a concurrent booking's occupying count is never
// invisible to an in-flight capacity check.
type BookingTx interface {
	TripByID(tripID int64) (*models.Trip, error)
	HasOccupying(studentID, tripID int64) (bool, error)
	OccupyingCount(tripID int64) (int, error)
	InsertReservation(res *models.Reservation) error
	SetQRPayload(reservationID int64, payload string) error
}

// BookingStore opens booking transactions. The reservation engine
// depends on this interface so it can be exercised against an
// in-memory store in tests.
type BookingStore interface {
	WithinBookingTx(ctx context.Context, fn func(tx BookingTx) error) error
}

// ReservationRepository handles database operations for the
// reservations table
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithinBookingTx runs fn inside a serializable transaction. The
// transaction is rolled back when fn returns an error, committed
// otherwise. Serialization conflicts surface to the caller, which
// retries with a fresh transaction.
func (r *ReservationRepository) WithinBookingTx(ctx context.Context, fn func(tx BookingTx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	btx := &bookingTx{tx: tx}
	if err := fn(btx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

// bookingTx implements BookingTx over a live sqlx transaction
type bookingTx struct {
	tx *sqlx.Tx
}

// TripByID retrieves a trip inside the booking transaction. Returns
// nil when the trip does not exist.
func (t *bookingTx) TripByID(tripID int64) (*models.Trip, error) {
	query := `
		SELECT id, name, origin, destination, departure_date, departure_time,
		       capacity, price, description, status, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &models.Trip{}
	if err := t.tx.Get(trip, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// HasOccupying reports whether the student already holds an occupying
// reservation on the trip
func (t *bookingTx) HasOccupying(studentID, tripID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE student_id = $1 AND trip_id = $2
			  AND status IN ('reserved', 'validated')
		)
	`

	var exists bool
	if err := t.tx.Get(&exists, query, studentID, tripID); err != nil {
		return false, fmt.Errorf("failed to check existing reservation: %w", err)
	}

	return exists, nil
}

// OccupyingCount counts the reservations holding seats on the trip
func (t *bookingTx) OccupyingCount(tripID int64) (int, error) {
	var count int
	err := t.tx.Get(&count, occupyingCountQuery, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to count occupying reservations: %w", err)
	}

	return count, nil
}

// InsertReservation inserts a new reservation row and fills in the
// generated id and timestamp
func (t *bookingTx) InsertReservation(res *models.Reservation) error {
	query := `
		INSERT INTO reservations (student_id, trip_id, ticket_code, status, reserved_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, reserved_at
	`

	return t.tx.QueryRow(
		query,
		res.StudentID, res.TripID, res.TicketCode, res.Status,
	).Scan(&res.ID, &res.ReservedAt)
}

// SetQRPayload stores the QR payload once the reservation id is known
func (t *bookingTx) SetQRPayload(reservationID int64, payload string) error {
	result, err := t.tx.Exec(
		`UPDATE reservations SET qr_payload = $2 WHERE id = $1`,
		reservationID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to set QR payload: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("reservation %d not found for QR payload update", reservationID)
	}

	return nil
}

const occupyingCountQuery = `
	SELECT COUNT(*) FROM reservations
	WHERE trip_id = $1 AND status IN ('reserved', 'validated')
`

// GetByID retrieves a reservation by ID. Returns nil when no row
// matches.
func (r *ReservationRepository) GetByID(reservationID int64) (*models.Reservation, error) {
	query := `
		SELECT id, student_id, trip_id, ticket_code, status, reserved_at, qr_payload
		FROM reservations
		WHERE id = $1
	`

	res := &models.Reservation{}
	if err := r.db.Get(res, query, reservationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return res, nil
}

// OccupyingCount counts occupying reservations outside a booking
// transaction, for display purposes
func (r *ReservationRepository) OccupyingCount(tripID int64) (int, error) {
	var count int
	if err := r.db.Get(&count, occupyingCountQuery, tripID); err != nil {
		return 0, fmt.Errorf("failed to count occupying reservations: %w", err)
	}

	return count, nil
}

// UpdateStatus moves a reservation from one status to another. The
// current status is part of the predicate so a concurrent transition
// cannot be silently overwritten; the caller learns whether the row
// actually changed.
func (r *ReservationRepository) UpdateStatus(reservationID int64, from, to models.Status) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE reservations SET status = $3 WHERE id = $1 AND status = $2`,
		reservationID, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update reservation status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// List retrieves reservations joined with student and trip summaries.
// Filters compose with AND; an empty filter returns the full listing.
// Ordered by trip departure, then reservation time, most recent first.
func (r *ReservationRepository) List(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	var conditions []string
	var args []interface{}

	add := func(expr string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if filter.Status != nil {
		add("r.status = $%d", *filter.Status)
	}
	if filter.TripID != nil {
		add("r.trip_id = $%d", *filter.TripID)
	}
	if filter.StudentID != nil {
		add("r.student_id = $%d", *filter.StudentID)
	}
	if filter.Date != nil {
		add("DATE(r.reserved_at) = $%d", filter.Date.Format("2006-01-02"))
	}
	if filter.TicketCode != nil {
		add("r.ticket_code = $%d", *filter.TicketCode)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.student_id, r.trip_id, r.ticket_code, r.status,
		       r.reserved_at, r.qr_payload,
		       s.first_name AS student_first_name, s.last_name AS student_last_name,
		       s.matricule, s.email AS student_email,
		       t.name AS trip_name, t.origin, t.destination,
		       t.departure_date, t.departure_time, t.price
		FROM reservations r
		JOIN students s ON r.student_id = s.id
		JOIN trips t ON r.trip_id = t.id
		%s
		ORDER BY t.departure_date DESC, t.departure_time DESC, r.reserved_at DESC
	`, whereClause)

	details := []models.ReservationDetail{}
	if err := r.db.Select(&details, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return details, nil
}

// Stats returns the per-status reservation counts shown above the
// admin listing
func (r *ReservationRepository) Stats() (*models.StatusCounts, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'reserved') AS reserved,
		       COUNT(*) FILTER (WHERE status = 'validated') AS validated,
		       COUNT(*) FILTER (WHERE status = 'used') AS used,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM reservations
	`

	counts := &models.StatusCounts{}
	if err := r.db.Get(counts, query); err != nil {
		return nil, fmt.Errorf("failed to get reservation stats: %w", err)
	}

	return counts, nil
}
