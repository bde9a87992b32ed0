package authz

import (
	"github.com/skillforge/backend/pkg/apperr"
)

// Guards are pure preconditions over the request context: each returns
// the resolved acting principal or a typed failure, with no side effects.

// RequireAuthenticated fails with UNAUTHENTICATED when no caller was
// resolved for the request.
func RequireAuthenticated(ac Context) (*Principal, error) {
	p := ac.ActingPrincipal()
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	return p, nil
}

// RequireSystemAdmin allows only system administrators.
func RequireSystemAdmin(ac Context) (*Principal, error) {
	p, err := RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if !p.IsSystemAdmin() {
		return nil, apperr.Forbidden("system administrator access required")
	}
	return p, nil
}

// RequireMember allows only organization members. System administrators
// are rejected: they operate in a separate namespace and are never
// treated as tenant members.
func RequireMember(ac Context) (*Principal, error) {
	p, err := RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if p.IsSystemAdmin() {
		return nil, apperr.Forbidden("system administrators are not organization members")
	}
	if p.OrganizationID == nil {
		return nil, apperr.Forbidden("caller does not belong to an organization")
	}
	return p, nil
}

// RequireMemberRole allows organization members holding at least one of
// the given roles.
func RequireMemberRole(ac Context, roles ...Role) (*Principal, error) {
	p, err := RequireMember(ac)
	if err != nil {
		return nil, err
	}
	if !p.Roles.HasAny(roles...) {
		return nil, apperr.Forbidden("insufficient role")
	}
	return p, nil
}
