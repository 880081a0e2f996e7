package database

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))

	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(fmt.Errorf("plain error")))
	assert.False(t, IsSerializationFailure(nil))

	t.Run("Wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("booking failed: %w", &pq.Error{Code: "40001"})
		assert.True(t, IsSerializationFailure(wrapped))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	collision := &pq.Error{Code: "23505", Constraint: TicketCodeConstraint}

	assert.True(t, IsUniqueViolation(collision, TicketCodeConstraint))
	assert.True(t, IsUniqueViolation(collision, ""))

	assert.False(t, IsUniqueViolation(collision, "some_other_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "40001"}, TicketCodeConstraint))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain error"), TicketCodeConstraint))
	assert.False(t, IsUniqueViolation(nil, TicketCodeConstraint))

	t.Run("Wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("insert failed: %w", collision)
		assert.True(t, IsUniqueViolation(wrapped, TicketCodeConstraint))
	})
}
