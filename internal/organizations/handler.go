package organizations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/middleware"
	"github.com/skillforge/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an organizations handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateOrganizationRequest is the body for POST /organizations.
type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	TaxID    string `json:"tax_id"`
	Domain   string `json:"domain"`
	PlanTier string `json:"plan_tier"`
}

// List handles GET /organizations.
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.svc.List(c.Request.Context(), middleware.AuthzFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, orgs)
}

// Get handles GET /organizations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.svc.Get(c.Request.Context(), middleware.AuthzFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}

// GetBySlug handles GET /organizations/slug/:slug.
func (h *Handler) GetBySlug(c *gin.Context) {
	org, err := h.svc.GetBySlug(c.Request.Context(), middleware.AuthzFrom(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name and slug required")
		return
	}
	org, err := h.svc.Create(c.Request.Context(), middleware.AuthzFrom(c), CreateInput{
		Name:     body.Name,
		Slug:     body.Slug,
		TaxID:    body.TaxID,
		Domain:   body.Domain,
		PlanTier: body.PlanTier,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, org)
}
