package models

import "time"

// Student represents a student identity. Accounts are owned by the
// account-management side; this service only reads them.
type Student struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Matricule string    `json:"matricule" db:"matricule"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FullName returns the display name used in listings
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
