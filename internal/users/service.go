package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.UserPublic, error)
}

// Service implements the user directory operations with their
// authorization protocol.
type Service struct {
	store Store
}

// NewService creates a users service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the users of the effective organization. Elevated roles
// only.
func (s *Service) List(ctx context.Context, ac authz.Context, requestedOrg uuid.UUID) ([]models.UserPublic, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, requestedOrg)
	if err != nil {
		return nil, err
	}
	return s.store.ListByOrganization(ctx, orgID)
}

// Get returns one user by id. The record is fetched first, then its
// owning organization is enforced against the caller. Reading your own
// record and system administrator reads bypass the tenant check.
func (s *Service) Get(ctx context.Context, ac authz.Context, id uuid.UUID) (*models.UserPublic, error) {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, apperr.BadInput("user id is required")
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	if p.ID != u.ID && !p.IsSystemAdmin() {
		if u.OrganizationID == nil {
			return nil, apperr.Forbidden("access to this user is not allowed")
		}
		if err := authz.EnsureSameOrganization(p, *u.OrganizationID); err != nil {
			return nil, err
		}
	}
	pub := u.ToPublic()
	return &pub, nil
}

// Me returns the acting principal's own record.
func (s *Service) Me(ctx context.Context, ac authz.Context) (*models.UserPublic, error) {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	pub := u.ToPublic()
	return &pub, nil
}
