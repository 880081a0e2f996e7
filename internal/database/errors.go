package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes the booking path reacts to
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// IsSerializationFailure reports whether err is a serializable-
// isolation conflict that is safe to retry with a fresh transaction
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgSerializationFailure ||
			string(pqErr.Code) == pgDeadlockDetected
	}
	return false
}

// IsUniqueViolation reports whether err is a unique-constraint
// violation, optionally on a specific constraint name
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
