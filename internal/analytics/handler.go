package analytics

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles reporting HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an analytics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard handles GET /organizations/:id/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	d, err := h.svc.Dashboard(c.Request.Context(), middleware.AuthzFrom(c), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, d)
}

// EmployeeScores handles GET /organizations/:id/scores.
func (h *Handler) EmployeeScores(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid course id")
			return
		}
		courseID = &id
	}
	scores, err := h.svc.EmployeeCourseScores(c.Request.Context(), middleware.AuthzFrom(c), orgID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scores)
}
