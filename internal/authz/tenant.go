package authz

import (
	"github.com/google/uuid"

	"github.com/skillforge/backend/pkg/apperr"
)

// EnsureSameOrganization asserts that the principal belongs to the target
// organization. It runs before any organization-scoped record is returned
// or written once the owning organization is known, and before accepting
// a caller-supplied organization id. System-administrator-only operations
// bypass tenant scoping and never call it.
func EnsureSameOrganization(p *Principal, orgID uuid.UUID) error {
	if orgID == uuid.Nil {
		return apperr.BadInput("organization id is required")
	}
	if p == nil || p.OrganizationID == nil || *p.OrganizationID != orgID {
		return apperr.Forbidden("access to this organization is not allowed")
	}
	return nil
}

// ResolveOrganization returns the effective organization for a scoped
// operation: the requested id when supplied (enforced against the
// principal), otherwise the principal's own organization.
func ResolveOrganization(p *Principal, requested uuid.UUID) (uuid.UUID, error) {
	if requested != uuid.Nil {
		if err := EnsureSameOrganization(p, requested); err != nil {
			return uuid.Nil, err
		}
		return requested, nil
	}
	if p == nil || p.OrganizationID == nil {
		return uuid.Nil, apperr.BadInput("organization id is required")
	}
	return *p.OrganizationID, nil
}
