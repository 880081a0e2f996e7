package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the reservation core
const (
	AuditReservationCreated   = "reservation_created"
	AuditReservationValidated = "reservation_validated"
	AuditReservationUsed      = "reservation_used"
	AuditReservationCancelled = "reservation_cancelled"
)

// AuditLog is an append-only record of a reservation event
type AuditLog struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	ActorType  string                 `json:"actor_type" db:"actor_type"` // student, admin
	ActorID    *int64                 `json:"actor_id,omitempty" db:"actor_id"`
	Action     string                 `json:"action" db:"action"`
	EntityType string                 `json:"entity_type" db:"entity_type"`
	EntityID   *int64                 `json:"entity_id,omitempty" db:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty" db:"-"`
	IPAddress  string                 `json:"ip_address" db:"ip_address"`
	UserAgent  string                 `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
