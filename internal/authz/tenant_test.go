package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/backend/pkg/apperr"
)

func TestEnsureSameOrganization(t *testing.T) {
	org := uuid.New()
	other := uuid.New()
	p := member(org, RoleStaff)

	// Missing target id is a caller error, never a permission error.
	err := EnsureSameOrganization(p, uuid.Nil)
	assert.True(t, apperr.Is(err, apperr.CodeBadInput))

	err = EnsureSameOrganization(p, other)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	err = EnsureSameOrganization(nil, org)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	assert.NoError(t, EnsureSameOrganization(p, org))
}

func TestResolveOrganization(t *testing.T) {
	org := uuid.New()
	other := uuid.New()
	p := member(org, RoleCoordinator)

	// Explicit id must match the caller's tenant.
	_, err := ResolveOrganization(p, other)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	got, err := ResolveOrganization(p, org)
	require.NoError(t, err)
	assert.Equal(t, org, got)

	// No explicit id defaults to the caller's own organization.
	got, err = ResolveOrganization(p, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, org, got)

	// Caller without an organization cannot resolve a default.
	_, err = ResolveOrganization(&Principal{ID: uuid.New()}, uuid.Nil)
	assert.True(t, apperr.Is(err, apperr.CodeBadInput))
}
