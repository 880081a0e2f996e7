package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ucbtransport/reservation-backend/internal/database"
	"github.com/ucbtransport/reservation-backend/internal/middleware"
	"github.com/ucbtransport/reservation-backend/internal/models"
)

// ProfileHandler serves the authenticated student's own identity, as
// printed on tickets
type ProfileHandler struct {
	students *database.StudentRepository
	logger   *logrus.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(students *database.StudentRepository, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{students: students, logger: logger}
}

// GetProfile returns the authenticated student's record
// GET /api/v1/me
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	studentID := middleware.CallerID(c)

	student, err := h.students.GetByID(studentID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", studentID).Error("Failed to load student")
		respondDomainError(c, models.ErrStorageUnavailable)
		return
	}
	if student == nil {
		// token subject no longer exists on the account side
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Student account not found",
			"code":    "STUDENT_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student":   student,
		"full_name": student.FullName(),
	})
}
