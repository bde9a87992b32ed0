package authz

import (
	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/models"
)

// Principal is the resolved identity an operation runs as.
type Principal struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	OrganizationID *uuid.UUID
	Roles          RoleSet
	Status         models.UserStatus
}

// IsSystemAdmin reports whether the principal holds the system
// administrator role.
func (p *Principal) IsSystemAdmin() bool {
	return p != nil && p.Roles.Has(RoleSystemAdmin)
}

// InOrganization reports whether the principal belongs to the given
// organization.
func (p *Principal) InOrganization(orgID uuid.UUID) bool {
	return p != nil && p.OrganizationID != nil && *p.OrganizationID == orgID
}

// PrincipalFromUser builds a principal from a stored user record,
// normalizing its role labels.
func PrincipalFromUser(u *models.User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		OrganizationID: u.OrganizationID,
		Roles:          NormalizeRoles(u.Roles),
		Status:         u.Status,
	}
}

// Context carries the identities for one request. Authenticated is the
// credentialed principal; Acting is the identity authorization decisions
// run against. They differ only under impersonation, which only system
// administrators may initiate.
type Context struct {
	Authenticated *Principal
	Acting        *Principal
}

// NewContext builds a request context where the caller acts as
// themselves.
func NewContext(p *Principal) Context {
	return Context{Authenticated: p, Acting: p}
}

// NewImpersonatedContext builds a request context where authenticated
// acts as the target identity.
func NewImpersonatedContext(authenticated, acting *Principal) Context {
	return Context{Authenticated: authenticated, Acting: acting}
}

// ActingPrincipal returns the identity guards authorize against,
// falling back to the authenticated principal.
func (c Context) ActingPrincipal() *Principal {
	if c.Acting != nil {
		return c.Acting
	}
	return c.Authenticated
}
