package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ucbtransport/reservation-backend/internal/models"
)

// StudentRepository handles read access to the students table.
// Accounts are owned by the account-management side.
type StudentRepository struct {
	db DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(studentID int64) (*models.Student, error) {
	query := `
		SELECT id, first_name, last_name, matricule, email, created_at
		FROM students
		WHERE id = $1
	`

	student := &models.Student{}
	if err := r.db.Get(student, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// GetByMatricule retrieves a student by matriculation number
func (r *StudentRepository) GetByMatricule(matricule string) (*models.Student, error) {
	query := `
		SELECT id, first_name, last_name, matricule, email, created_at
		FROM students
		WHERE matricule = $1
	`

	student := &models.Student{}
	if err := r.db.Get(student, query, matricule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}
