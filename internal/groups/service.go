package groups

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Group, error)
	Create(ctx context.Context, g *models.Group) error
	GetMembership(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

// UserSource loads users for the cross-entity ownership check.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service implements the group operations with their authorization
// protocol.
type Service struct {
	store Store
	users UserSource
}

// NewService creates a groups service.
func NewService(store Store, users UserSource) *Service {
	return &Service{store: store, users: users}
}

// List returns the groups of the effective organization, members
// included.
func (s *Service) List(ctx context.Context, ac authz.Context, requestedOrg uuid.UUID) ([]models.Group, error) {
	p, err := authz.RequireMember(ac)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, requestedOrg)
	if err != nil {
		return nil, err
	}
	return s.store.ListByOrganization(ctx, orgID)
}

// CreateInput is the payload for Create.
type CreateInput struct {
	OrganizationID uuid.UUID // zero value means the caller's own org
	Name           string
	Description    string
}

// Create adds a group to the effective organization. The resolved
// organization is enforced before the write so an elevated member of org
// A can never create a group tagged to org B.
func (s *Service) Create(ctx context.Context, ac authz.Context, in CreateInput) (*models.Group, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin, authz.RoleCoordinator)
	if err != nil {
		return nil, err
	}
	orgID, err := authz.ResolveOrganization(p, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.BadInput("group name is required")
	}
	g := &models.Group{OrganizationID: orgID, Name: in.Name, Description: in.Description}
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// AssignUser adds a user to a group. Organization administrators only.
// The group's organization is enforced against the caller and the user
// must belong to the same organization as the group. Idempotent: an
// existing membership is returned unchanged.
func (s *Service) AssignUser(ctx context.Context, ac authz.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin)
	if err != nil {
		return nil, err
	}
	g, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("group not found")
	}
	if err := authz.EnsureSameOrganization(p, g.OrganizationID); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	if u.OrganizationID == nil || *u.OrganizationID != g.OrganizationID {
		return nil, apperr.Forbidden("user and group belong to different organizations")
	}

	if existing, err := s.store.GetMembership(ctx, groupID, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}
	m, err := s.store.AddMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// Lost the insert race; the winner's row is the membership.
		return s.store.GetMembership(ctx, groupID, userID)
	}
	return m, nil
}

// RemoveUser removes a user from a group, reporting whether a membership
// row was actually deleted. Absent users and absent memberships are
// tolerated.
func (s *Service) RemoveUser(ctx context.Context, ac authz.Context, groupID, userID uuid.UUID) (bool, error) {
	p, err := authz.RequireMemberRole(ac, authz.RoleOrgAdmin)
	if err != nil {
		return false, err
	}
	g, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return false, err
	}
	if g == nil {
		return false, apperr.NotFound("group not found")
	}
	if err := authz.EnsureSameOrganization(p, g.OrganizationID); err != nil {
		return false, err
	}
	return s.store.RemoveMember(ctx, groupID, userID)
}
