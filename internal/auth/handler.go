package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/response"
	"github.com/skillforge/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	FullName       string `json:"full_name" binding:"required"`
	OrganizationID string `json:"organization_id"` // optional, pre-provisioned accounts have none
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo       *Repository
	jwt        *JWTService
	revocation *RevocationStore
	logger     *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, revocation *RevocationStore, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, revocation: revocation, logger: logger}
}

// Register handles POST /auth/register. New accounts always start as
// staff; elevated roles are granted by an organization administrator.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var orgID *uuid.UUID
	if req.OrganizationID != "" {
		id, err := uuid.Parse(req.OrganizationID)
		if err != nil {
			response.BadRequest(c, "invalid organization id")
			return
		}
		orgID = &id
	}

	existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "failed to check email")
		return
	}
	if existing != nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName,
		[]string{string(authz.RoleStaff)}, orgID)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, user.OrganizationID, user.Roles)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || user == nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if user.Status == models.UserInactive {
		response.Forbidden(c, "account is inactive")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, user.OrganizationID, user.Roles)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Logout handles POST /auth/logout. Revokes the presented token until its
// natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	claimsVal, ok := c.Get("auth_claims")
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	claims := claimsVal.(*Claims)

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.revocation.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		h.logger.Error("revoke token", zap.Error(err))
		response.Internal(c, "failed to log out")
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}
