package courses

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles course HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a courses handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateCourseRequest is the body for POST /courses.
type CreateCourseRequest struct {
	OrganizationID   string `json:"organization_id"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Level            string `json:"level"`
	Status           string `json:"status"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// AddTopicRequest is the body for POST /courses/:id/topics.
type AddTopicRequest struct {
	Name             string   `json:"name" binding:"required"`
	Summary          string   `json:"summary"`
	DependsOn        []string `json:"depends_on"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}

// List handles GET /courses.
func (h *Handler) List(c *gin.Context) {
	orgID := uuid.Nil
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid organization id")
			return
		}
		orgID = id
	}
	list, err := h.svc.List(c.Request.Context(), middleware.AuthzFrom(c), orgID, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Get handles GET /courses/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	course, err := h.svc.Get(c.Request.Context(), middleware.AuthzFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create handles POST /courses.
func (h *Handler) Create(c *gin.Context) {
	var body CreateCourseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "course title required")
		return
	}
	orgID := uuid.Nil
	if body.OrganizationID != "" {
		id, err := uuid.Parse(body.OrganizationID)
		if err != nil {
			response.BadRequest(c, "invalid organization id")
			return
		}
		orgID = id
	}
	course, err := h.svc.Create(c.Request.Context(), middleware.AuthzFrom(c), CreateInput{
		OrganizationID:   orgID,
		Title:            body.Title,
		Description:      body.Description,
		Category:         body.Category,
		Level:            models.CourseLevel(body.Level),
		Status:           models.CourseStatus(body.Status),
		EstimatedMinutes: body.EstimatedMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// AddTopic handles POST /courses/:id/topics.
func (h *Handler) AddTopic(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	var body AddTopicRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "topic name required")
		return
	}
	deps := make([]uuid.UUID, 0, len(body.DependsOn))
	for _, raw := range body.DependsOn {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid dependency topic id")
			return
		}
		deps = append(deps, id)
	}
	topic, err := h.svc.AddTopic(c.Request.Context(), middleware.AuthzFrom(c), courseID, TopicInput{
		Name:             body.Name,
		Summary:          body.Summary,
		DependsOn:        deps,
		EstimatedMinutes: body.EstimatedMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}
