package groups

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles group HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a groups handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateGroupRequest is the body for POST /groups.
type CreateGroupRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

// AssignMemberRequest is the body for POST /groups/:id/members.
type AssignMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// List handles GET /groups.
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
	list, err := h.svc.List(c.Request.Context(), middleware.AuthzFrom(c), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Create handles POST /groups.
func (h *Handler) Create(c *gin.Context) {
	var body CreateGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "group name required")
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
	g, err := h.svc.Create(c.Request.Context(), middleware.AuthzFrom(c), CreateInput{
		OrganizationID: orgID,
		Name:           body.Name,
		Description:    body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, g)
}

// AssignMember handles POST /groups/:id/members.
func (h *Handler) AssignMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	var body AssignMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "user_id required")
		return
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	m, err := h.svc.AssignUser(c.Request.Context(), middleware.AuthzFrom(c), groupID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, m)
}

// RemoveMember handles DELETE /groups/:id/members/:userId.
func (h *Handler) RemoveMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	removed, err := h.svc.RemoveUser(c.Request.Context(), middleware.AuthzFrom(c), groupID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"removed": removed})
}
