package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/auth"
	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/response"
)

const (
	// ContextAuthz is the gin context key for the resolved authz context.
	ContextAuthz = "authz_context"
	// ContextClaims is the gin context key for the validated JWT claims.
	ContextClaims = "auth_claims"
	// HeaderActAs carries the target user id for impersonation; honored
	// only when the authenticated caller is a system administrator.
	HeaderActAs = "X-Act-As"
)

// TokenRevocations reports whether a token id has been revoked.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserSource loads a user record for impersonation resolution.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth returns a middleware that validates the bearer token, resolves the
// caller into an authz context and honors the impersonation header for
// system administrators.
func Auth(jwtService *auth.JWTService, revocations TokenRevocations, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				response.Internal(c, "failed to verify token")
				c.Abort()
				return
			}
			if revoked {
				response.Unauthorized(c, "token has been revoked")
				c.Abort()
				return
			}
		}

		authenticated := &authz.Principal{
			ID:             claims.UserID,
			Email:          claims.Email,
			OrganizationID: claims.OrganizationID,
			Roles:          authz.NormalizeRoles(claims.Roles),
			Status:         models.UserActive,
		}

		ac := authz.NewContext(authenticated)
		if actAs := c.GetHeader(HeaderActAs); actAs != "" {
			if !authenticated.IsSystemAdmin() {
				response.Forbidden(c, "impersonation requires system administrator access")
				c.Abort()
				return
			}
			targetID, err := uuid.Parse(actAs)
			if err != nil {
				response.BadRequest(c, "invalid impersonation target id")
				c.Abort()
				return
			}
			target, err := users.GetByID(c.Request.Context(), targetID)
			if err != nil {
				response.Internal(c, "failed to resolve impersonation target")
				c.Abort()
				return
			}
			if target == nil {
				response.NotFound(c, "impersonation target not found")
				c.Abort()
				return
			}
			ac = authz.NewImpersonatedContext(authenticated, authz.PrincipalFromUser(target))
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextAuthz, ac)
		c.Next()
	}
}

// AuthzFrom returns the authz context resolved by Auth. The zero context
// (no principal) is returned on routes the middleware did not cover.
func AuthzFrom(c *gin.Context) authz.Context {
	v, ok := c.Get(ContextAuthz)
	if !ok {
		return authz.Context{}
	}
	ac, ok := v.(authz.Context)
	if !ok {
		return authz.Context{}
	}
	return ac
}
