package enrollments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles enrollment HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an enrollments handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// EnrollRequest is the body for POST /enrollments.
type EnrollRequest struct {
	UserID   string  `json:"user_id" binding:"required"`
	CourseID string  `json:"course_id" binding:"required"`
	Progress float64 `json:"progress"`
}

// UpdateScoreRequest is the body for PATCH /enrollments/:id/score. Nil
// fields are not touched.
type UpdateScoreRequest struct {
	Progress    *float64            `json:"progress"`
	Score       *float64            `json:"score"`
	Status      *string             `json:"status"`
	TopicScores []models.TopicScore `json:"topic_scores"`
}

// List handles GET /enrollments.
func (h *Handler) List(c *gin.Context) {
	var args ListArgs
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid organization id")
			return
		}
		args.OrganizationID = id
	}
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid course id")
			return
		}
		args.CourseID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid user id")
			return
		}
		args.UserID = &id
	}
	list, err := h.svc.List(c.Request.Context(), middleware.AuthzFrom(c), args)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Enroll handles POST /enrollments.
func (h *Handler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	e, err := h.svc.Enroll(c.Request.Context(), middleware.AuthzFrom(c), EnrollInput{
		UserID:   userID,
		CourseID: courseID,
		Progress: req.Progress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, e)
}

// UpdateScore handles PATCH /enrollments/:id/score.
func (h *Handler) UpdateScore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid enrollment id")
		return
	}
	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	in := UpdateScoreInput{
		Progress:    req.Progress,
		Score:       req.Score,
		TopicScores: req.TopicScores,
	}
	if req.Status != nil {
		st := models.EnrollmentStatus(*req.Status)
		in.Status = &st
	}
	e, err := h.svc.UpdateScore(c.Request.Context(), middleware.AuthzFrom(c), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, e)
}
