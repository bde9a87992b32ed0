package organizations

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/backend/internal/authz"
	"github.com/skillforge/backend/internal/models"
	"github.com/skillforge/backend/pkg/apperr"
)

type fakeStore struct {
	orgs []models.Organization
}

func (f *fakeStore) List(ctx context.Context) ([]models.Organization, error) {
	out := append([]models.Organization(nil), f.orgs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			return &f.orgs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	for i := range f.orgs {
		if f.orgs[i].Slug == slug {
			return &f.orgs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, org *models.Organization) error {
	org.ID = uuid.New()
	f.orgs = append(f.orgs, *org)
	return nil
}

func sysadminCtx() authz.Context {
	return authz.NewContext(&authz.Principal{ID: uuid.New(), Roles: authz.RoleSet{authz.RoleSystemAdmin}})
}

func memberCtx(org uuid.UUID, roles ...authz.Role) authz.Context {
	return authz.NewContext(&authz.Principal{ID: uuid.New(), OrganizationID: &org, Roles: roles})
}

func TestListRequiresSystemAdmin(t *testing.T) {
	store := &fakeStore{orgs: []models.Organization{
		{ID: uuid.New(), Name: "Zeta", Slug: "zeta"},
		{ID: uuid.New(), Name: "Acme", Slug: "acme"},
	}}
	svc := NewService(store)

	_, err := svc.List(context.Background(), memberCtx(uuid.New(), authz.RoleOrgAdmin))
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	_, err = svc.List(context.Background(), authz.Context{})
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	orgs, err := svc.List(context.Background(), sysadminCtx())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Acme", orgs[0].Name)
	assert.Equal(t, "Zeta", orgs[1].Name)
}

func TestGetEnforcesTenant(t *testing.T) {
	own := models.Organization{ID: uuid.New(), Name: "Own", Slug: "own"}
	other := models.Organization{ID: uuid.New(), Name: "Other", Slug: "other"}
	svc := NewService(&fakeStore{orgs: []models.Organization{own, other}})

	// Member reads own org.
	got, err := svc.Get(context.Background(), memberCtx(own.ID, authz.RoleStaff), own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, got.ID)

	// Member cannot read a foreign org.
	_, err = svc.Get(context.Background(), memberCtx(own.ID, authz.RoleStaff), other.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// System administrator reads any org.
	got, err = svc.Get(context.Background(), sysadminCtx(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	// Unknown id is not found before any isolation decision.
	_, err = svc.Get(context.Background(), sysadminCtx(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestGetBySlug(t *testing.T) {
	own := models.Organization{ID: uuid.New(), Name: "Own", Slug: "own"}
	svc := NewService(&fakeStore{orgs: []models.Organization{own}})

	got, err := svc.GetBySlug(context.Background(), memberCtx(own.ID, authz.RoleStaff), "  OWN ")
	require.NoError(t, err)
	assert.Equal(t, own.ID, got.ID)

	_, err = svc.GetBySlug(context.Background(), sysadminCtx(), "")
	assert.True(t, apperr.Is(err, apperr.CodeBadInput))
}

func TestCreateOrganization(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.Create(context.Background(), memberCtx(uuid.New(), authz.RoleOrgAdmin), CreateInput{Name: "Acme", Slug: "acme"})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	org, err := svc.Create(context.Background(), sysadminCtx(), CreateInput{Name: " Acme ", Slug: " ACME "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, "acme", org.Slug)
	assert.Equal(t, "standard", org.PlanTier)

	// Duplicate slug.
	_, err = svc.Create(context.Background(), sysadminCtx(), CreateInput{Name: "Acme 2", Slug: "acme"})
	assert.True(t, apperr.Is(err, apperr.CodeBadInput))

	// Invalid slug.
	_, err = svc.Create(context.Background(), sysadminCtx(), CreateInput{Name: "Bad", Slug: "Bad Slug!"})
	assert.True(t, apperr.Is(err, apperr.CodeBadInput))
}
