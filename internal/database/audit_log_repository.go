package database

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// AuditLogRepository appends to the audit_logs table. Entries are
// never updated or deleted.
type AuditLogRepository struct {
	db DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Insert appends an audit log entry
func (r *AuditLogRepository) Insert(entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, actor_type, actor_id, action, entity_type,
		                        entity_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	return r.db.QueryRow(
		query,
		entry.ID, entry.ActorType, entry.ActorID, entry.Action, entry.EntityType,
		entry.EntityID, details, entry.IPAddress, entry.UserAgent,
	).Scan(&entry.CreatedAt)
}
