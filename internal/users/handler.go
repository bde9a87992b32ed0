package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles user directory HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a users handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// orgQuery parses an optional organization_id query parameter; the zero
// UUID means "not supplied".
func orgQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("organization_id")
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /users.
func (h *Handler) List(c *gin.Context) {
	orgID, ok := orgQuery(c)
	if !ok {
		response.BadRequest(c, "invalid organization id")
		return
	}
	list, err := h.svc.List(c.Request.Context(), middleware.AuthzFrom(c), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Get handles GET /users/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	u, err := h.svc.Get(c.Request.Context(), middleware.AuthzFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.AuthzFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
