package organizations

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

// Slug must be lowercase alphanumeric and hyphens only, 2–64 chars.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,63}$`)

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]models.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
}

// Service implements the organization operations with their
// authorization protocol.
type Service struct {
	store Store
}

// NewService creates an organizations service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every organization, name ascending. System administrators
// only; this deliberately sees across all tenants.
func (s *Service) List(ctx context.Context, ac authz.Context) ([]models.Organization, error) {
	if _, err := authz.RequireSystemAdmin(ac); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// Get returns one organization by id. Members may only read their own
// organization; system administrators read any.
func (s *Service) Get(ctx context.Context, ac authz.Context, id uuid.UUID) (*models.Organization, error) {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, apperr.BadInput("organization id is required")
	}
	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}
	if !p.IsSystemAdmin() {
		if err := authz.EnsureSameOrganization(p, org.ID); err != nil {
			return nil, err
		}
	}
	return org, nil
}

// GetBySlug returns one organization by slug under the same access rules
// as Get.
func (s *Service) GetBySlug(ctx context.Context, ac authz.Context, slug string) (*models.Organization, error) {
	p, err := authz.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperr.BadInput("organization slug is required")
	}
	org, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}
	if !p.IsSystemAdmin() {
		if err := authz.EnsureSameOrganization(p, org.ID); err != nil {
			return nil, err
		}
	}
	return org, nil
}

// CreateInput is the payload for Create.
type CreateInput struct {
	Name     string
	Slug     string
	TaxID    string
	Domain   string
	PlanTier string
}

// Create provisions a new tenant. System administrators only.
func (s *Service) Create(ctx context.Context, ac authz.Context, in CreateInput) (*models.Organization, error) {
	if _, err := authz.RequireSystemAdmin(ac); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.BadInput("organization name is required")
	}
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if !slugRegex.MatchString(in.Slug) {
		return nil, apperr.BadInput("slug must be 2-64 chars, lowercase letters, numbers, hyphens only")
	}
	if in.PlanTier == "" {
		in.PlanTier = "standard"
	}

	existing, err := s.store.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadInput("an organization with this slug already exists")
	}

	org := &models.Organization{
		Name:     in.Name,
		Slug:     in.Slug,
		TaxID:    in.TaxID,
		Domain:   in.Domain,
		PlanTier: in.PlanTier,
	}
	if err := s.store.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}
