package services

import (
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// RequestMeta carries the client context attached to audit entries
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService records reservation events in the audit log. Audit
// failures never fail the action being audited; they are logged and
// dropped.
type AuditService struct {
	repo    *database.AuditLogRepository
	enabled bool
	logger  *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo *database.AuditLogRepository, enabled bool, logger *logrus.Logger) *AuditService {
	return &AuditService{
		repo:    repo,
		enabled: enabled,
		logger:  logger,
	}
}

// LogReservationCreated records a successful booking
func (s *AuditService) LogReservationCreated(res *models.Reservation, meta RequestMeta) {
	s.log(models.AuditReservationCreated, "student", res.StudentID, res, meta, map[string]interface{}{
		"trip_id":     res.TripID,
		"ticket_code": res.TicketCode,
	})
}

// LogStatusChange records a lifecycle transition
func (s *AuditService) LogStatusChange(action, actorType string, actorID int64, res *models.Reservation, from, to models.Status, meta RequestMeta) {
	s.log(action, actorType, actorID, res, meta, map[string]interface{}{
		"trip_id":     res.TripID,
		"ticket_code": res.TicketCode,
		"from_status": from,
		"to_status":   to,
	})
}

func (s *AuditService) log(action, actorType string, actorID int64, res *models.Reservation, meta RequestMeta, details map[string]interface{}) {
	if !s.enabled {
		return
	}

	details["device_info"] = parseUserAgent(meta.UserAgent)

	entry := &models.AuditLog{
		ActorType:  actorType,
		ActorID:    &actorID,
		Action:     action,
		EntityType: "reservation",
		EntityID:   &res.ID,
		Details:    details,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}

	if err := s.repo.Insert(entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":         action,
			"reservation_id": res.ID,
		}).Warn("Failed to write audit log entry")
	}
}

// parseUserAgent extracts coarse device info for the audit trail
func parseUserAgent(raw string) map[string]interface{} {
	if raw == "" {
		return map[string]interface{}{"raw": ""}
	}

	ua := user_agent.New(raw)
	browser, version := ua.Browser()
	return map[string]interface{}{
		"browser":         browser,
		"browser_version": version,
		"os":              ua.OS(),
		"platform":        ua.Platform(),
		"mobile":          ua.Mobile(),
		"bot":             ua.Bot(),
	}
}
